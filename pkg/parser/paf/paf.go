// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package paf parses minimap2 PAF alignment output: single records,
// streams, and per-query batches.
package paf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biofrost-dev/biofrost/pkg/fileio"
)

// Strand values as encoded in column 5.
const (
	StrandForward = 1
	StrandReverse = -1
	StrandUnknown = 0
)

// Record is one PAF alignment line.
type Record struct {
	// Query name and coordinates (0-based, end exclusive)
	Query      string
	QueryLen   int
	QueryStart int
	QueryEnd   int

	// Strand is +1 forward, -1 reverse, 0 unknown
	Strand int

	// Target name and coordinates
	Target      string
	TargetLen   int
	TargetStart int
	TargetEnd   int

	// Matches is the number of matching bases, BlockLen the total
	// alignment length including gaps
	Matches  int
	BlockLen int
	MapQ     int

	rawTags []string
}

// String renders the core columns, tab separated.
func (r *Record) String() string {
	strand := "."
	switch r.Strand {
	case StrandForward:
		strand = "+"
	case StrandReverse:
		strand = "-"
	}
	return strings.Join([]string{
		r.Query, strconv.Itoa(r.QueryLen), strconv.Itoa(r.QueryStart), strconv.Itoa(r.QueryEnd),
		strand,
		r.Target, strconv.Itoa(r.TargetLen), strconv.Itoa(r.TargetStart), strconv.Itoa(r.TargetEnd),
		strconv.Itoa(r.Matches), strconv.Itoa(r.BlockLen), strconv.Itoa(r.MapQ),
	}, "\t")
}

// Tags decodes the optional SAM-style tags (NM:i:0, cs:Z:..., de:f:...).
// Supported tag types are i (int), f (float), A and Z (string).
func (r *Record) Tags() (map[string]any, error) {
	tags := map[string]any{}
	for _, raw := range r.rawTags {
		if len(raw) < 6 || raw[2] != ':' || raw[4] != ':' {
			return nil, fmt.Errorf("malformed PAF tag: %q", raw)
		}
		name, typ, val := raw[:2], raw[3], raw[5:]
		switch typ {
		case 'i':
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("parsing int tag %q: %w", raw, err)
			}
			tags[name] = n
		case 'f':
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing float tag %q: %w", raw, err)
			}
			tags[name] = f
		case 'A', 'Z':
			tags[name] = val
		default:
			return nil, fmt.Errorf("unknown tag type in PAF: %q", raw)
		}
	}
	return tags, nil
}

// Parse builds a Record from one PAF line.
func Parse(line string) (*Record, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) < 12 {
		return nil, fmt.Errorf("PAF line has %d columns, want at least 12", len(fields))
	}

	rec := &Record{
		Query:   fields[0],
		Target:  fields[5],
		rawTags: fields[12:],
	}

	switch fields[4] {
	case "+":
		rec.Strand = StrandForward
	case "-":
		rec.Strand = StrandReverse
	case ".":
		rec.Strand = StrandUnknown
	default:
		return nil, fmt.Errorf("unknown strand %q", fields[4])
	}

	ints := []struct {
		dst *int
		col int
	}{
		{&rec.QueryLen, 1}, {&rec.QueryStart, 2}, {&rec.QueryEnd, 3},
		{&rec.TargetLen, 6}, {&rec.TargetStart, 7}, {&rec.TargetEnd, 8},
		{&rec.Matches, 9}, {&rec.BlockLen, 10}, {&rec.MapQ, 11},
	}
	for _, c := range ints {
		n, err := strconv.Atoi(fields[c.col])
		if err != nil {
			return nil, fmt.Errorf("parsing PAF column %d: %w", c.col+1, err)
		}
		*c.dst = n
	}
	return rec, nil
}

// Each streams a PAF file hit by hit through fn.
func Each(path string, fn func(*Record) error) error {
	f, err := fileio.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck
	return EachReader(f, fn)
}

// EachReader streams PAF lines off a reader.
func EachReader(r io.Reader, fn func(*Record) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rec, err := Parse(line)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// EachBatch groups consecutive hits of the same query and hands each
// group to fn, preserving file order. PAF output from minimap2 keeps a
// query's hits adjacent, so no global sort is needed.
func EachBatch(path string, fn func(query string, hits []*Record) error) error {
	var batch []*Record
	query := ""
	if err := Each(path, func(rec *Record) error {
		if rec.Query != query {
			if len(batch) > 0 {
				if err := fn(query, batch); err != nil {
					return err
				}
			}
			query = rec.Query
			batch = batch[:0:0]
		}
		batch = append(batch, rec)
		return nil
	}); err != nil {
		return err
	}
	if len(batch) > 0 {
		return fn(query, batch)
	}
	return nil
}

// ReadAll loads a whole PAF file into memory.
func ReadAll(path string) ([]*Record, error) {
	records := []*Record{}
	if err := Each(path, func(rec *Record) error {
		records = append(records, rec)
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}
