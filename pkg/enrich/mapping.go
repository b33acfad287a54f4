// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/biofrost-dev/biofrost/pkg/fileio"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
)

// TableMapper translates gene identifiers using a TSV table with a
// header naming the namespaces (ENTREZID, SYMBOL, ENSEMBL).
type TableMapper struct {
	// columns: namespace -> column index
	columns map[api.IDType]int
	rows    [][]string
}

// LoadMapper reads an identifier mapping table from disk.
func LoadMapper(path string) (*TableMapper, error) {
	f, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	m, err := ParseMapper(f)
	if err != nil {
		return nil, fmt.Errorf("parsing mapping table %s: %w", path, err)
	}
	return m, nil
}

// ParseMapper parses a mapping table from a reader.
func ParseMapper(r io.Reader) (*TableMapper, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("mapping table is empty")
	}

	m := &TableMapper{columns: map[api.IDType]int{}}
	for i, name := range strings.Split(scanner.Text(), "\t") {
		idType := api.IDType(strings.ToUpper(strings.TrimSpace(name)))
		for _, known := range api.KnownIDTypes {
			if idType == known {
				m.columns[idType] = i
			}
		}
	}
	if len(m.columns) < 2 {
		return nil, fmt.Errorf("mapping table header names %d known namespaces, want at least 2", len(m.columns))
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		m.rows = append(m.rows, strings.Split(line, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Namespaces returns the identifier namespaces the table covers.
func (m *TableMapper) Namespaces() []api.IDType {
	types := make([]api.IDType, 0, len(m.columns))
	for t := range m.columns {
		types = append(types, t)
	}
	return types
}

// Map translates genes from one namespace to another, preserving input
// order. Identifiers without a translation are returned in dropped.
func (m *TableMapper) Map(genes []string, from, to api.IDType) ([]string, []string, error) {
	fromCol, ok := m.columns[from]
	if !ok {
		return nil, nil, fmt.Errorf("mapping table has no %s column", from)
	}
	toCol, ok := m.columns[to]
	if !ok {
		return nil, nil, fmt.Errorf("mapping table has no %s column", to)
	}

	index := map[string]string{}
	for _, row := range m.rows {
		if len(row) <= fromCol || len(row) <= toCol {
			continue
		}
		src, dst := strings.TrimSpace(row[fromCol]), strings.TrimSpace(row[toCol])
		if src == "" || dst == "" || dst == "-" {
			continue
		}
		if _, dup := index[src]; !dup {
			index[src] = dst
		}
	}

	mapped := []string{}
	dropped := []string{}
	seen := map[string]struct{}{}
	for _, gene := range genes {
		dst, ok := index[gene]
		if !ok {
			dropped = append(dropped, gene)
			continue
		}
		if _, dup := seen[dst]; dup {
			continue
		}
		seen[dst] = struct{}{}
		mapped = append(mapped, dst)
	}
	return mapped, dropped, nil
}
