// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package fastx parses FASTA and FASTQ files, compressed or not,
// detecting the format from the first record header.
package fastx

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/biofrost-dev/biofrost/pkg/fileio"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
)

// Scanner streams records off a FASTA/FASTQ reader.
type Scanner struct {
	r       *bufio.Reader
	fastq   bool
	rec     *api.Record
	pending *api.Record
	err     error
}

// NewScanner wraps a reader, sniffing the format from the first byte:
// '>' means FASTA, '@' means FASTQ, anything else is an error.
func NewScanner(r io.Reader) (*Scanner, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(1)
	if err != nil {
		return nil, fmt.Errorf("reading first record header: %w", err)
	}

	s := &Scanner{r: br}
	switch first[0] {
	case '>':
		s.fastq = false
	case '@':
		s.fastq = true
	default:
		return nil, fmt.Errorf("cannot determine FASTA/FASTQ format from leading byte %q", first[0])
	}
	return s, nil
}

// IsFastq reports whether the underlying stream carries qualities.
func (s *Scanner) IsFastq() bool {
	return s.fastq
}

// Scan advances to the next record. It returns false at the end of the
// stream or on error; check Err afterwards.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	var rec *api.Record
	var err error
	if s.fastq {
		rec, err = s.nextFastq()
	} else {
		rec, err = s.nextFasta()
	}
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		return false
	}
	s.rec = rec
	return true
}

// Record returns the record read by the last call to Scan.
func (s *Scanner) Record() *api.Record {
	return s.rec
}

// Err returns the first error hit while scanning, never io.EOF.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) readLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func headerRecord(line string) *api.Record {
	fields := strings.Fields(line[1:])
	rec := &api.Record{}
	if len(fields) > 0 {
		rec.ID = fields[0]
		rec.Header = fields[1:]
	}
	return rec
}

func (s *Scanner) nextFasta() (*api.Record, error) {
	if s.pending == nil {
		line, err := s.readLine()
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(line, ">") {
			return nil, fmt.Errorf("malformed FASTA record header: %q", line)
		}
		s.pending = headerRecord(line)
	}

	rec := s.pending
	var seq strings.Builder
	for {
		line, err := s.readLine()
		if err == io.EOF {
			rec.Seq = seq.String()
			s.pending = nil
			if rec.ID == "" && rec.Seq == "" {
				return nil, io.EOF
			}
			return rec, nil
		}
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(line, ">") {
			// Next record starts, hold its header for the next Scan
			rec.Seq = seq.String()
			s.pending = headerRecord(line)
			return rec, nil
		}
		seq.WriteString(line)
	}
}

func (s *Scanner) nextFastq() (*api.Record, error) {
	header, err := s.readLine()
	if err != nil {
		return nil, err
	}
	if header == "" {
		return nil, io.EOF
	}
	if !strings.HasPrefix(header, "@") {
		return nil, fmt.Errorf("malformed FASTQ record header: %q", header)
	}

	rec := headerRecord(header)
	if rec.Seq, err = s.readLine(); err != nil {
		return nil, fmt.Errorf("truncated FASTQ record %s: %w", rec.ID, err)
	}
	sep, err := s.readLine()
	if err != nil || !strings.HasPrefix(sep, "+") {
		return nil, fmt.Errorf("truncated FASTQ record %s: missing separator", rec.ID)
	}
	if rec.Qual, err = s.readLine(); err != nil {
		return nil, fmt.Errorf("truncated FASTQ record %s: %w", rec.ID, err)
	}
	if len(rec.Qual) != len(rec.Seq) {
		return nil, fmt.Errorf("FASTQ record %s: quality length %d != sequence length %d", rec.ID, len(rec.Qual), len(rec.Seq))
	}
	return rec, nil
}

// IsFastq sniffs a file on disk, compressed or not, and reports
// whether it is FASTQ.
func IsFastq(path string) (bool, error) {
	f, err := fileio.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close() //nolint:errcheck

	s, err := NewScanner(f)
	if err != nil {
		return false, err
	}
	return s.IsFastq(), nil
}

// ReadAll loads a FASTA/FASTQ file into a map keyed by record ID.
func ReadAll(path string) (map[string]*api.Record, error) {
	records := map[string]*api.Record{}
	if err := Each(path, func(rec *api.Record) error {
		records[rec.ID] = rec
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}

// Each streams a FASTA/FASTQ file record by record through fn.
func Each(path string, fn func(*api.Record) error) error {
	f, err := fileio.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	s, err := NewScanner(f)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", path, err)
	}
	for s.Scan() {
		if err := fn(s.Record()); err != nil {
			return err
		}
	}
	return s.Err()
}
