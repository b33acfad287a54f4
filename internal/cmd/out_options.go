// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

type outFileOptions struct {
	OutPath string
}

// Validates the options in context with arguments
func (ofo *outFileOptions) Validate() error {
	return nil
}

// AddFlags adds the subcommands flags
func (ofo *outFileOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(
		&ofo.OutPath, "output", "o", "", "path to write output (defaults to STDOUT)",
	)
}
