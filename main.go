// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/biofrost-dev/biofrost/internal/cmd"

func main() {
	cmd.Execute()
}
