// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package taxonomy

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/biofrost-dev/biofrost/pkg/fileio"
)

// SilvaTaxon is the taxonomy assignment of one SILVA sequence.
type SilvaTaxon struct {
	TaxID int
	Name  string
	// Path is the full ;-separated taxonomic path
	Path string
	Rank string
}

// Silva indexes the SILVA 16S/18S taxonomy release files:
// tax_slv_*.txt (rank designations), tax_slv_*.map (taxon names) and
// tax_slv_*.acc_taxid (sequence accession to taxid).
type Silva struct {
	paths map[int]struct{ path, rank string }
	names map[int]string
	accs  map[string]int
}

// NewSilva loads the three SILVA release files, gzipped or plain.
func NewSilva(txtPath, mapPath, accPath string) (*Silva, error) {
	s := &Silva{
		paths: map[int]struct{ path, rank string }{},
		names: map[int]string{},
		accs:  map[string]int{},
	}

	if err := eachTSV(txtPath, 3, func(fields []string) error {
		taxID, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("parsing SILVA taxid: %w", err)
		}
		s.paths[taxID] = struct{ path, rank string }{fields[0], fields[2]}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachTSV(mapPath, 2, func(fields []string) error {
		taxID, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("parsing SILVA taxid: %w", err)
		}
		s.names[taxID] = fields[1]
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachTSV(accPath, 2, func(fields []string) error {
		taxID, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("parsing SILVA acc taxid: %w", err)
		}
		s.accs[fields[0]] = taxID
		return nil
	}); err != nil {
		return nil, err
	}

	return s, nil
}

func eachTSV(path string, minFields int, fn func([]string) error) error {
	f, err := fileio.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < minFields {
			return fmt.Errorf("%s: row has %d fields, want at least %d", path, len(fields), minFields)
		}
		if err := fn(fields); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// SeqToTaxon resolves a SILVA sequence name (accession.start.stop) to
// its taxonomy assignment.
func (s *Silva) SeqToTaxon(sequence string) (*SilvaTaxon, error) {
	taxID, ok := s.accs[sequence]
	if !ok {
		return nil, fmt.Errorf("sequence %q not in SILVA accession map", sequence)
	}
	entry, ok := s.paths[taxID]
	if !ok {
		return nil, fmt.Errorf("taxid %d of sequence %q not in SILVA taxonomy", taxID, sequence)
	}
	return &SilvaTaxon{
		TaxID: taxID,
		Name:  s.names[taxID],
		Path:  entry.path,
		Rank:  entry.rank,
	}, nil
}
