// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package gff parses GTF and GFF3 annotation files and builds a binned
// feature index for fast region queries.
package gff

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biofrost-dev/biofrost/pkg/fileio"
)

// Dialect selects the attribute syntax of the annotation file.
type Dialect int

const (
	// GTF uses `key "value"; key "value";` attributes
	GTF Dialect = iota
	// GFF3 uses `key=value;key=value` attributes
	GFF3
)

// Feature is one annotation line.
type Feature struct {
	Contig  string
	Source  string
	Type    string
	Start   int // 1-based, inclusive
	End     int // 1-based, inclusive
	Score   string
	Strand  string
	Frame   string
	Attribs map[string]string
}

// ID returns the identifier attribute of the feature for either dialect.
func (f *Feature) ID() string {
	if id, ok := f.Attribs["gene_id"]; ok {
		return id
	}
	return f.Attribs["ID"]
}

// Transcript returns the transcript identifier when present.
func (f *Feature) Transcript() string {
	if id, ok := f.Attribs["transcript_id"]; ok {
		return id
	}
	return f.Attribs["Parent"]
}

func parseAttributes(raw string, dialect Dialect) map[string]string {
	attribs := map[string]string{}
	for _, chunk := range strings.Split(raw, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		var key, val string
		if dialect == GFF3 {
			key, val, _ = strings.Cut(chunk, "=")
		} else {
			key, val, _ = strings.Cut(chunk, " ")
			val = strings.Trim(val, `"`)
		}
		if key != "" {
			attribs[strings.TrimSpace(key)] = val
		}
	}
	return attribs
}

// ParseLine builds a Feature from one non-comment annotation line.
func ParseLine(line string, dialect Dialect) (*Feature, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) != 9 {
		return nil, fmt.Errorf("annotation line has %d columns, want 9", len(fields))
	}

	start, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("parsing feature start: %w", err)
	}
	end, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("parsing feature end: %w", err)
	}

	return &Feature{
		Contig:  fields[0],
		Source:  fields[1],
		Type:    fields[2],
		Start:   start,
		End:     end,
		Score:   fields[5],
		Strand:  fields[6],
		Frame:   fields[7],
		Attribs: parseAttributes(fields[8], dialect),
	}, nil
}

// Each streams the features of a GTF/GFF file, skipping comments.
func Each(path string, dialect Dialect, fn func(*Feature) error) error {
	f, err := fileio.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck
	return EachReader(f, dialect, fn)
}

// EachReader streams features off a reader.
func EachReader(r io.Reader, dialect Dialect, fn func(*Feature) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		feat, err := ParseLine(line, dialect)
		if err != nil {
			return err
		}
		if err := fn(feat); err != nil {
			return err
		}
	}
	return scanner.Err()
}
