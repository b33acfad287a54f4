// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/biofrost-dev/biofrost/pkg/norm"
	"github.com/biofrost-dev/biofrost/pkg/report"
)

type normOptions struct {
	outFileOptions
	InputPath   string
	FactorsOnly bool
}

// Validates the options in context with arguments
func (no *normOptions) Validate() error {
	var errs = []error{}
	if err := no.outFileOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	if no.InputPath == "" {
		errs = append(errs, errors.New("path to the count matrix not set"))
	}
	return errors.Join(errs...)
}

// AddFlags adds the subcommands flags
func (no *normOptions) AddFlags(cmd *cobra.Command) {
	no.outFileOptions.AddFlags(cmd)
	cmd.PersistentFlags().StringVarP(
		&no.InputPath, "input", "i", "", "path to the count matrix (TSV, genes by samples)",
	)
	cmd.PersistentFlags().BoolVar(
		&no.FactorsOnly, "factors", false, "print the TMM factors instead of the normalized matrix",
	)
}

func addNorm(parentCmd *cobra.Command) {
	opts := &normOptions{}
	normCommand := &cobra.Command{
		Short:             "TMM-normalize a count matrix to CPM",
		Use:               "norm",
		Example:           fmt.Sprintf(`%s norm --input counts.tsv --output cpm.csv`, appname),
		SilenceUsage:      false,
		SilenceErrors:     true,
		PersistentPreRunE: initLogging,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			// Validate the options
			if err := opts.Validate(); err != nil {
				return err
			}

			matrix, err := norm.ReadCounts(opts.InputPath)
			if err != nil {
				return err
			}

			writer := &report.CSVWriter{Path: opts.OutPath}

			if opts.FactorsOnly {
				factors, err := norm.Factors(matrix.Columns())
				if err != nil {
					return err
				}
				rows := [][]string{}
				for s, sample := range matrix.Samples {
					rows = append(rows, []string{
						sample, strconv.FormatFloat(factors[s], 'g', -1, 64),
					})
				}
				return writer.WriteTable([]string{"sample", "factor"}, rows)
			}

			cpm, err := norm.CPM(matrix.Columns())
			if err != nil {
				return err
			}
			matrix.FromColumns(cpm)

			header := append([]string{"gene"}, matrix.Samples...)
			rows := [][]string{}
			for g, gene := range matrix.Genes {
				row := []string{gene}
				for s := range matrix.Samples {
					row = append(row, strconv.FormatFloat(matrix.Counts[g][s], 'g', -1, 64))
				}
				rows = append(rows, row)
			}
			return writer.WriteTable(header, rows)
		},
	}
	opts.AddFlags(normCommand)
	parentCmd.AddCommand(normCommand)
}
