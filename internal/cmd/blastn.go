// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biofrost-dev/biofrost/pkg/blast"
	"github.com/biofrost-dev/biofrost/pkg/parser/fastx"
	"github.com/biofrost-dev/biofrost/pkg/report"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
)

type blastnOptions struct {
	outFileOptions
	QueryPath   string
	SubjectPath string
	Task        string
	BinDir      string
}

// Validates the options in context with arguments
func (bo *blastnOptions) Validate() error {
	var errs = []error{}
	if err := bo.outFileOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	if bo.QueryPath == "" {
		errs = append(errs, errors.New("path to the query sequences not set"))
	}
	if bo.SubjectPath == "" {
		errs = append(errs, errors.New("path to the subject sequences not set"))
	}
	return errors.Join(errs...)
}

// AddFlags adds the subcommands flags
func (bo *blastnOptions) AddFlags(cmd *cobra.Command) {
	bo.outFileOptions.AddFlags(cmd)
	cmd.PersistentFlags().StringVarP(
		&bo.QueryPath, "query", "q", "", "path to the query FASTA/FASTQ file",
	)
	cmd.PersistentFlags().StringVarP(
		&bo.SubjectPath, "subject", "s", "", "path to the subject FASTA/FASTQ file",
	)
	cmd.PersistentFlags().StringVar(
		&bo.Task, "task", "megablast", fmt.Sprintf("blastn task, one of %s", strings.Join(blast.Tasks, "/")),
	)
	cmd.PersistentFlags().StringVar(
		&bo.BinDir, "bin-dir", "", "directory holding the blast+ binaries (defaults to PATH lookup)",
	)
}

func readRecords(path string) ([]*api.Record, error) {
	records := []*api.Record{}
	if err := fastx.Each(path, func(rec *api.Record) error {
		records = append(records, rec)
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}

func addBlastn(parentCmd *cobra.Command) {
	opts := &blastnOptions{}
	blastnCommand := &cobra.Command{
		Short:             "align query sequences against subjects with blastn",
		Use:               "blastn",
		Example:           fmt.Sprintf(`%s blastn --query reads.fa --subject ref.fa --task megablast`, appname),
		SilenceUsage:      false,
		SilenceErrors:     true,
		PersistentPreRunE: initLogging,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			// Validate the options
			if err := opts.Validate(); err != nil {
				return err
			}

			queries, err := readRecords(opts.QueryPath)
			if err != nil {
				return err
			}
			subjects, err := readRecords(opts.SubjectPath)
			if err != nil {
				return err
			}

			runner := blast.New()
			runner.Task = opts.Task
			runner.BinDir = opts.BinDir

			hits, err := runner.Run(queries, subjects)
			if err != nil {
				return err
			}

			rows := [][]string{}
			for _, hit := range hits {
				rows = append(rows, []string{
					hit.QueryID, hit.SubjectID,
					strconv.FormatFloat(hit.Identity, 'g', -1, 64),
					strconv.Itoa(hit.Length), strconv.Itoa(hit.Mismatches), strconv.Itoa(hit.GapOpens),
					strconv.Itoa(hit.QueryStart), strconv.Itoa(hit.QueryEnd),
					strconv.Itoa(hit.SubjStart), strconv.Itoa(hit.SubjEnd),
					strconv.FormatFloat(hit.EValue, 'g', -1, 64),
					strconv.FormatFloat(hit.BitScore, 'g', -1, 64),
				})
			}

			writer := &report.CSVWriter{Path: opts.OutPath}
			return writer.WriteTable([]string{
				"query", "subject", "identity", "length", "mismatches", "gapopens",
				"qstart", "qend", "sstart", "send", "evalue", "bitscore",
			}, rows)
		},
	}
	opts.AddFlags(blastnCommand)
	parentCmd.AddCommand(blastnCommand)
}
