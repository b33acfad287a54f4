// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biofrost-dev/biofrost/internal/config"
	"github.com/biofrost-dev/biofrost/pkg/enrich"
	"github.com/biofrost-dev/biofrost/pkg/report"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
)

// supportedOrganisms are the species codes enrich understands.
var supportedOrganisms = []string{"Hs", "Mm"}

// supportedAnalyses are the enrichment flavors enrich understands.
var supportedAnalyses = []string{"GO", "KEGG"}

type enrichOptions struct {
	InputPath    string
	OutPath      string
	Organism     string
	IDType       string
	Analysis     string
	ConfigPath   string
	MappingPath  string
	GeneSets     []string
	PValueCutoff float64
	QValueCutoff float64
	NoCache      bool
}

// Validates the options in context with arguments
func (eo *enrichOptions) Validate() error {
	var errs = []error{}
	if eo.InputPath == "" {
		errs = append(errs, errors.New("path to the gene list not set"))
	}
	if eo.OutPath == "" {
		errs = append(errs, errors.New("path to the output file not set"))
	}
	if !slices.Contains(supportedOrganisms, eo.Organism) {
		errs = append(errs, fmt.Errorf(
			"unsupported organism %q, want one of %s", eo.Organism, strings.Join(supportedOrganisms, "/"),
		))
	}
	if !slices.Contains(api.KnownIDTypes, api.IDType(eo.IDType)) {
		errs = append(errs, fmt.Errorf("unknown identifier type %q", eo.IDType))
	}
	if !slices.Contains(supportedAnalyses, eo.Analysis) {
		errs = append(errs, fmt.Errorf(
			"unsupported analysis %q, want one of %s", eo.Analysis, strings.Join(supportedAnalyses, "/"),
		))
	}
	if _, err := parseGeneSets(eo.GeneSets); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// AddFlags adds the subcommands flags
func (eo *enrichOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(
		&eo.InputPath, "input", "i", "", "path to the input gene list, one identifier per line",
	)
	cmd.PersistentFlags().StringVarP(
		&eo.OutPath, "output", "o", "", "path to write the result table (CSV)",
	)
	cmd.PersistentFlags().StringVar(
		&eo.Organism, "db", "Hs", fmt.Sprintf("organism database, either %s", strings.Join(supportedOrganisms, "/")),
	)
	cmd.PersistentFlags().StringVar(
		&eo.IDType, "type", string(api.IDTypeSymbol), "identifier namespace of the gene list (SYMBOL/ENSEMBL/ENTREZID)",
	)
	cmd.PersistentFlags().StringVar(
		&eo.Analysis, "analysis", "GO", fmt.Sprintf("analysis to run, either %s", strings.Join(supportedAnalyses, "/")),
	)
	cmd.PersistentFlags().StringVar(
		&eo.ConfigPath, "config", config.DefaultPath(), "path to the biofrost configuration file",
	)
	cmd.PersistentFlags().StringVar(
		&eo.MappingPath, "mapping", "", "identifier mapping table (overrides the configured one)",
	)
	cmd.PersistentFlags().StringSliceVar(
		&eo.GeneSets, "gene-sets", []string{},
		"gene set libraries as NAME=PATH pairs in GMT format (overrides the configured ones)",
	)
	cmd.PersistentFlags().Float64Var(
		&eo.PValueCutoff, "pvalue-cutoff", 0.05, "adjusted p-value cutoff for reported sets",
	)
	cmd.PersistentFlags().Float64Var(
		&eo.QValueCutoff, "qvalue-cutoff", 0.2, "q-value cutoff for reported sets",
	)
	cmd.PersistentFlags().BoolVar(
		&eo.NoCache, "no-cache", false, "always recompute, ignoring cached results",
	)
}

// parseGeneSets splits --gene-sets values into name/path pairs.
func parseGeneSets(pairs []string) ([][2]string, error) {
	libs := [][2]string{}
	for _, pair := range pairs {
		name, path, ok := strings.Cut(pair, "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid gene set %q, want NAME=PATH", pair)
		}
		libs = append(libs, [2]string{name, path})
	}
	return libs, nil
}

// libraryFiles returns the GMT paths to test, keyed by ontology name.
// Libraries given through --gene-sets take precedence over the
// configured ones.
func (eo *enrichOptions) libraryFiles(org *config.Organism) ([][2]string, error) {
	if len(eo.GeneSets) > 0 {
		return parseGeneSets(eo.GeneSets)
	}
	switch eo.Analysis {
	case "GO":
		libs := [][2]string{
			{"BP", org.GO.BP}, {"CC", org.GO.CC}, {"MF", org.GO.MF},
		}
		for _, lib := range libs {
			if lib[1] == "" {
				return nil, fmt.Errorf("no GO %s library configured for %s", lib[0], eo.Organism)
			}
		}
		return libs, nil
	case "KEGG":
		if org.KEGG == "" {
			return nil, fmt.Errorf("no KEGG library configured for %s", eo.Organism)
		}
		return [][2]string{{"KEGG", org.KEGG}}, nil
	default:
		return nil, fmt.Errorf("unsupported analysis %q", eo.Analysis)
	}
}

func addEnrich(parentCmd *cobra.Command) {
	opts := &enrichOptions{}
	enrichCommand := &cobra.Command{
		Short:             "run enrichment analysis on a gene list",
		Use:               "enrich",
		Example:           fmt.Sprintf(`%s enrich --input genes.txt --output result.csv --db Hs --type SYMBOL --analysis GO`, appname),
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

			// --gene-sets runs fully self-contained, the config is
			// only consulted when libraries come from it
			var org *config.Organism
			if len(opts.GeneSets) == 0 {
				cfg, err := config.Load(opts.ConfigPath)
				if err != nil {
					return err
				}
				if org, err = cfg.Organism(opts.Organism); err != nil {
					return err
				}
			}

			libs, err := opts.libraryFiles(org)
			if err != nil {
				return err
			}

			funcs := []enrich.InitFunc{
				enrich.WithCutoffs(opts.PValueCutoff, opts.QValueCutoff),
			}
			for _, lib := range libs {
				funcs = append(funcs, enrich.WithLibraryFile(lib[0], lib[1]))
			}

			mappingPath := opts.MappingPath
			if mappingPath == "" && org != nil {
				mappingPath = org.Mapping
			}
			if mappingPath != "" {
				mapper, err := enrich.LoadMapper(mappingPath)
				if err != nil {
					return err
				}
				funcs = append(funcs, enrich.WithMapper(mapper))
			}

			if !opts.NoCache {
				funcs = append(funcs, enrich.WithCache(""))
			}

			mgr, err := enrich.New(funcs...)
			if err != nil {
				return err
			}

			res, err := mgr.Run(genes, api.IDType(opts.IDType), opts.Analysis, opts.Organism)
			if err != nil {
				return err
			}

			writer := &report.CSVWriter{Path: opts.OutPath}
			return writer.WriteResult(res)
		},
	}
	opts.AddFlags(enrichCommand)
	parentCmd.AddCommand(enrichCommand)
}
