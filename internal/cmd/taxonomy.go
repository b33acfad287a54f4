// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/biofrost-dev/biofrost/internal/config"
	"github.com/biofrost-dev/biofrost/pkg/parser/taxonomy"
	"github.com/biofrost-dev/biofrost/pkg/report"
)

type taxonomyOptions struct {
	outFileOptions
	NodesPath  string
	NamesPath  string
	ConfigPath string
	TaxIDs     []int
}

// Validates the options in context with arguments
func (to *taxonomyOptions) Validate() error {
	var errs = []error{}
	if err := to.outFileOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(to.TaxIDs) == 0 {
		errs = append(errs, errors.New("no taxonomy IDs specified"))
	}
	return errors.Join(errs...)
}

// AddFlags adds the subcommands flags
func (to *taxonomyOptions) AddFlags(cmd *cobra.Command) {
	to.outFileOptions.AddFlags(cmd)
	cmd.PersistentFlags().StringVar(
		&to.NodesPath, "nodes", "", "path to the taxdump nodes.dmp file",
	)
	cmd.PersistentFlags().StringVar(
		&to.NamesPath, "names", "", "path to the taxdump names.dmp file",
	)
	cmd.PersistentFlags().StringVar(
		&to.ConfigPath, "config", config.DefaultPath(), "path to the biofrost configuration file",
	)
}

func addTaxonomy(parentCmd *cobra.Command) {
	opts := &taxonomyOptions{}
	taxonomyCommand := &cobra.Command{
		Short:             "resolve NCBI taxonomy IDs to their canonical lineage",
		Use:               "taxonomy TAXID [TAXID...]",
		Example:           fmt.Sprintf(`%s taxonomy --nodes nodes.dmp --names names.dmp 9606 10090`, appname),
		SilenceUsage:      false,
		SilenceErrors:     true,
		PersistentPreRunE: initLogging,
		PreRunE: func(_ *cobra.Command, args []string) error {
			for _, arg := range args {
				taxID, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("parsing taxonomy ID %q: %w", arg, err)
				}
				opts.TaxIDs = append(opts.TaxIDs, taxID)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			// Validate the options
			if err := opts.Validate(); err != nil {
				return err
			}

			if opts.NodesPath == "" || opts.NamesPath == "" {
				cfg, err := config.Load(opts.ConfigPath)
				if err != nil {
					return err
				}
				if cfg == nil || cfg.Taxonomy.Nodes == "" || cfg.Taxonomy.Names == "" {
					return errors.New("taxdump files not set, use --nodes/--names or the configuration file")
				}
				opts.NodesPath = cfg.Taxonomy.Nodes
				opts.NamesPath = cfg.Taxonomy.Names
			}

			db, err := taxonomy.NewDB(opts.NodesPath, opts.NamesPath)
			if err != nil {
				return err
			}

			header := append([]string{"taxid"}, taxonomy.CanonicalRanks...)
			rows := [][]string{}
			for _, taxID := range opts.TaxIDs {
				lineage, err := db.Lineage(taxID, taxonomy.ScientificName, false)
				if err != nil {
					return err
				}
				byRank := map[string]string{}
				for _, level := range lineage {
					byRank[level.Rank] = level.Name
				}
				row := []string{strconv.Itoa(taxID)}
				for _, rank := range taxonomy.CanonicalRanks {
					row = append(row, byRank[rank])
				}
				rows = append(rows, row)
			}

			writer := &report.CSVWriter{Path: opts.OutPath}
			return writer.WriteTable(header, rows)
		},
	}
	opts.AddFlags(taxonomyCommand)
	parentCmd.AddCommand(taxonomyCommand)
}
