// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package norm

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/biofrost-dev/biofrost/pkg/fileio"
)

// Matrix is a genes-by-samples count table.
type Matrix struct {
	Genes   []string
	Samples []string
	// Counts is indexed [gene][sample]
	Counts [][]float64
}

// Columns returns the matrix as per-sample columns, the layout the
// normalization routines work on.
func (m *Matrix) Columns() [][]float64 {
	cols := make([][]float64, len(m.Samples))
	for s := range m.Samples {
		cols[s] = make([]float64, len(m.Genes))
		for g := range m.Genes {
			cols[s][g] = m.Counts[g][s]
		}
	}
	return cols
}

// FromColumns replaces the matrix values from per-sample columns.
func (m *Matrix) FromColumns(cols [][]float64) {
	for g := range m.Genes {
		for s := range m.Samples {
			m.Counts[g][s] = cols[s][g]
		}
	}
}

// ReadCounts loads a TSV count matrix: a header line with sample
// names, then one row per gene with the gene identifier first.
func ReadCounts(path string) (*Matrix, error) {
	f, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("count matrix %s is empty", path)
	}

	header := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
	if len(header) < 2 {
		return nil, fmt.Errorf("count matrix header has no samples")
	}
	m := &Matrix{Samples: header[1:]}

	lineno := 1
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(m.Samples)+1 {
			return nil, fmt.Errorf("line %d: row has %d columns, want %d", lineno, len(fields), len(m.Samples)+1)
		}
		row := make([]float64, len(m.Samples))
		for i, raw := range fields[1:] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parsing count %q: %w", lineno, raw, err)
			}
			row[i] = v
		}
		m.Genes = append(m.Genes, fields[0])
		m.Counts = append(m.Counts, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(m.Genes) == 0 {
		return nil, fmt.Errorf("count matrix %s has no genes", path)
	}
	return m, nil
}
