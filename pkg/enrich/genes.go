// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/biofrost-dev/biofrost/pkg/fileio"
)

// ReadGeneList loads a flat single-column gene identifier file,
// skipping blanks and duplicates while preserving order.
func ReadGeneList(path string) ([]string, error) {
	f, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	genes := []string{}
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		gene := strings.TrimSpace(scanner.Text())
		if gene == "" {
			continue
		}
		if _, dup := seen[gene]; dup {
			continue
		}
		seen[gene] = struct{}{}
		genes = append(genes, gene)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(genes) == 0 {
		return nil, fmt.Errorf("no gene identifiers found in %s", path)
	}
	return genes, nil
}
