// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/biofrost-dev/biofrost/pkg/parser/paf"
	"github.com/biofrost-dev/biofrost/pkg/quant"
	"github.com/biofrost-dev/biofrost/pkg/report"
)

type quantOptions struct {
	outFileOptions
	InputPath      string
	NoiseThreshold float64
	MaxIter        int
	MinMapQ        int
}

// Validates the options in context with arguments
func (qo *quantOptions) Validate() error {
	var errs = []error{}
	if err := qo.outFileOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	if qo.InputPath == "" {
		errs = append(errs, errors.New("path to the PAF alignment file not set"))
	}
	if qo.MaxIter < 1 {
		errs = append(errs, errors.New("max-iter must be at least 1"))
	}
	return errors.Join(errs...)
}

// AddFlags adds the subcommands flags
func (qo *quantOptions) AddFlags(cmd *cobra.Command) {
	qo.outFileOptions.AddFlags(cmd)
	cmd.PersistentFlags().StringVarP(
		&qo.InputPath, "input", "i", "", "path to the PAF alignments",
	)
	cmd.PersistentFlags().Float64Var(
		&qo.NoiseThreshold, "noise", 0, "zero out abundances below this value between iterations",
	)
	cmd.PersistentFlags().IntVar(
		&qo.MaxIter, "max-iter", 1000, "maximum number of EM iterations",
	)
	cmd.PersistentFlags().IntVar(
		&qo.MinMapQ, "min-mapq", 0, "skip alignments below this mapping quality",
	)
}

func addQuant(parentCmd *cobra.Command) {
	opts := &quantOptions{}
	quantCommand := &cobra.Command{
		Short:             "estimate target abundance from alignments using EM",
		Use:               "quant",
		Example:           fmt.Sprintf(`%s quant --input aln.paf.gz --output abundance.csv`, appname),
		SilenceUsage:      false,
		SilenceErrors:     true,
		PersistentPreRunE: initLogging,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			// Validate the options
			if err := opts.Validate(); err != nil {
				return err
			}

			assignments := []quant.Assignment{}
			if err := paf.Each(opts.InputPath, func(rec *paf.Record) error {
				if rec.MapQ < opts.MinMapQ {
					return nil
				}
				assignments = append(assignments, quant.Assignment{
					Read: rec.Query, Target: rec.Target,
				})
				return nil
			}); err != nil {
				return err
			}

			emOpts := quant.DefaultOptions()
			emOpts.NoiseThreshold = opts.NoiseThreshold
			emOpts.MaxIter = opts.MaxIter

			estimate, err := quant.EM(assignments, emOpts)
			if err != nil {
				return err
			}
			logrus.Infof("EM converged after %d steps", estimate.Steps)

			targets := make([]string, 0, len(estimate.Abundance))
			for target := range estimate.Abundance {
				targets = append(targets, target)
			}
			sort.Slice(targets, func(a, b int) bool {
				if estimate.Abundance[targets[a]] != estimate.Abundance[targets[b]] {
					return estimate.Abundance[targets[a]] > estimate.Abundance[targets[b]]
				}
				return targets[a] < targets[b]
			})

			rows := [][]string{}
			for _, target := range targets {
				rows = append(rows, []string{
					target, strconv.FormatFloat(estimate.Abundance[target], 'g', -1, 64),
				})
			}

			writer := &report.CSVWriter{Path: opts.OutPath}
			return writer.WriteTable([]string{"target", "abundance"}, rows)
		},
	}
	opts.AddFlags(quantCommand)
	parentCmd.AddCommand(quantCommand)
}
