// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/biofrost-dev/biofrost/pkg/sequence"
)

type seqstatsOptions struct {
	Paths []string
}

// Validates the options in context with arguments
func (sso *seqstatsOptions) Validate() error {
	if len(sso.Paths) == 0 {
		return errors.New("no sequence files specified")
	}
	return nil
}

// AddFlags adds the subcommands flags
func (sso *seqstatsOptions) AddFlags(cmd *cobra.Command) {
}

func addSeqstats(parentCmd *cobra.Command) {
	opts := &seqstatsOptions{}
	seqstatsCommand := &cobra.Command{
		Short:             "summarize FASTA/FASTQ files (counts, lengths, N50, GC)",
		Use:               "seqstats FILE [FILE...]",
		Example:           fmt.Sprintf(`%s seqstats reads.fq.gz assembly.fa`, appname),
		SilenceUsage:      false,
		SilenceErrors:     true,
		PersistentPreRunE: initLogging,
		PreRunE: func(_ *cobra.Command, args []string) error {
			opts.Paths = args
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			// Validate the options
			if err := opts.Validate(); err != nil {
				return err
			}

			purple := lipgloss.Color("99")
			gray := lipgloss.Color("245")
			lightGray := lipgloss.Color("241")

			headerStyle := lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
			cellStyle := lipgloss.NewStyle().Padding(0, 3)
			oddRowStyle := cellStyle.Foreground(gray)
			evenRowStyle := cellStyle.Foreground(lightGray)

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(purple)).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == table.HeaderRow:
						return headerStyle
					case row%2 == 0:
						return evenRowStyle
					default:
						return oddRowStyle
					}
				}).
				Headers("FILE", "RECORDS", "BASES", "MIN", "MAX", "MEAN", "N50", "GC%")

			for _, path := range opts.Paths {
				stats, err := sequence.Stats(path)
				if err != nil {
					return err
				}
				t.Row(
					stats.Path,
					strconv.Itoa(stats.Records), strconv.Itoa(stats.Bases),
					strconv.Itoa(stats.MinLen), strconv.Itoa(stats.MaxLen),
					fmt.Sprintf("%.1f", stats.MeanLen()), strconv.Itoa(stats.N50),
					fmt.Sprintf("%.2f", stats.GC*100),
				)
			}

			fmt.Println(t)

			return nil
		},
	}
	opts.AddFlags(seqstatsCommand)
	parentCmd.AddCommand(seqstatsCommand)
}
