// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biofrost-dev/biofrost/pkg/enrich"
	"github.com/biofrost-dev/biofrost/pkg/enrich/enrichr"
	"github.com/biofrost-dev/biofrost/pkg/report"
)

type enrichrOptions struct {
	outFileOptions
	InputPath string
	Libraries []string
	BaseURL   string
}

// Validates the options in context with arguments
func (ero *enrichrOptions) Validate() error {
	var errs = []error{}
	if err := ero.outFileOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	if ero.InputPath == "" {
		errs = append(errs, errors.New("path to the gene list not set"))
	}
	if len(ero.Libraries) == 0 {
		errs = append(errs, errors.New("no enrichr libraries selected"))
	}
	return errors.Join(errs...)
}

// AddFlags adds the subcommands flags
func (ero *enrichrOptions) AddFlags(cmd *cobra.Command) {
	ero.outFileOptions.AddFlags(cmd)
	cmd.PersistentFlags().StringVarP(
		&ero.InputPath, "input", "i", "", "path to the input gene list, one symbol per line",
	)
	cmd.PersistentFlags().StringSliceVar(
		&ero.Libraries, "library", enrichr.DefaultLibraries, "enrichr libraries to query",
	)
	cmd.PersistentFlags().StringVar(
		&ero.BaseURL, "base-url", enrichr.DefaultBaseURL, "base URL of the enrichr API",
	)
}

func addEnrichr(parentCmd *cobra.Command) {
	opts := &enrichrOptions{}
	enrichrCommand := &cobra.Command{
		Short:             "query the Enrichr web service with a gene list",
		Use:               "enrichr",
		Example:           fmt.Sprintf(`%s enrichr --input genes.txt --library GO_Biological_Process_2021`, appname),
		SilenceUsage:      false,
		SilenceErrors:     true,
		PersistentPreRunE: initLogging,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			// Validate the options
			if err := opts.Validate(); err != nil {
				return err
			}

			genes, err := enrich.ReadGeneList(opts.InputPath)
			if err != nil {
				return err
			}

			client, err := enrichr.New(enrichr.WithBaseURL(opts.BaseURL))
			if err != nil {
				return err
			}

			rows, err := client.Run(genes, opts.Libraries)
			if err != nil {
				return err
			}

			writer := &report.CSVWriter{Path: opts.OutPath}
			return writer.WriteEnrichr(rows)
		},
	}
	opts.AddFlags(enrichrCommand)
	parentCmd.AddCommand(enrichrCommand)
}
