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

// LoadLibrary reads a GMT gene-set library: one set per line, tab
// separated as name, description, member genes. The library is tagged
// with the given name (BP, CC, MF, KEGG, ...).
func LoadLibrary(name, path string) (*api.Library, error) {
	f, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	lib, err := ParseLibrary(name, f)
	if err != nil {
		return nil, fmt.Errorf("parsing gene set library %s: %w", path, err)
	}
	return lib, nil
}

// ParseLibrary parses GMT data from a reader.
func ParseLibrary(name string, r io.Reader) (*api.Library, error) {
	lib := &api.Library{Name: name}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: GMT record has %d fields, want at least 3", lineno, len(fields))
		}

		set := &api.GeneSet{
			ID:          fields[0],
			Description: fields[1],
		}
		seen := map[string]struct{}{}
		for _, gene := range fields[2:] {
			gene = strings.TrimSpace(gene)
			if gene == "" {
				continue
			}
			if _, dup := seen[gene]; dup {
				continue
			}
			seen[gene] = struct{}{}
			set.Genes = append(set.Genes, gene)
		}
		if len(set.Genes) == 0 {
			continue
		}
		lib.Sets = append(lib.Sets, set)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lib.Sets) == 0 {
		return nil, fmt.Errorf("no gene sets found")
	}
	return lib, nil
}
