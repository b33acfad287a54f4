// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package blast wraps the NCBI blastn command line, running pairwise
// nucleotide searches and parsing the tabular (outfmt 6) output.
package blast

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"sigs.k8s.io/release-utils/command"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
)

// Tasks blastn accepts.
var Tasks = []string{"blastn", "blastn-short", "dc-megablast", "megablast", "rmblastn"}

// Hit is one row of blastn -outfmt 6.
type Hit struct {
	QueryID    string
	SubjectID  string
	Identity   float64
	Length     int
	Mismatches int
	GapOpens   int
	QueryStart int
	QueryEnd   int
	SubjStart  int
	SubjEnd    int
	EValue     float64
	BitScore   float64
}

// Runner executes blastn searches in a scratch directory.
type Runner struct {
	// Task selects the blastn task, megablast by default
	Task string

	// BinDir optionally points at the blast+ installation; empty
	// means the binaries are expected on PATH
	BinDir string
}

// New returns a Runner with the default task.
func New() *Runner {
	return &Runner{Task: "megablast"}
}

func (r *Runner) binary(name string) string {
	if r.BinDir == "" {
		return name
	}
	return filepath.Join(r.BinDir, name)
}

// Run searches the query records against the subject records and
// returns the parsed hits.
func (r *Runner) Run(queries, subjects []*api.Record) ([]*Hit, error) {
	if !slices.Contains(Tasks, r.Task) {
		return nil, fmt.Errorf("unknown blastn task %q, want one of %s", r.Task, strings.Join(Tasks, "/"))
	}
	if len(queries) == 0 || len(subjects) == 0 {
		return nil, fmt.Errorf("both query and subject sequences are required")
	}

	workDir := filepath.Join(os.TempDir(), "biofrost-blast-"+uuid.NewString())
	if err := os.MkdirAll(workDir, os.FileMode(0o755)); err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logrus.Error(err)
		}
	}()

	queryFa := filepath.Join(workDir, "queries.fa")
	subjectFa := filepath.Join(workDir, "subjects.fa")
	if err := writeFasta(queryFa, queries); err != nil {
		return nil, err
	}
	if err := writeFasta(subjectFa, subjects); err != nil {
		return nil, err
	}

	mkdb := command.NewWithWorkDir(workDir, r.binary("makeblastdb"), "-in", subjectFa, "-dbtype", "nucl")
	if _, err := mkdb.RunSilentSuccessOutput(); err != nil {
		return nil, fmt.Errorf("building blast database: %w", err)
	}

	run := command.NewWithWorkDir(
		workDir, r.binary("blastn"),
		"-query", queryFa, "-db", subjectFa, "-task", r.Task, "-outfmt", "6",
	)
	output, err := run.RunSilentSuccessOutput()
	if err != nil {
		return nil, fmt.Errorf("running blastn: %w", err)
	}
	return ParseTabular(output.Output())
}

func writeFasta(path string, records []*api.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck
	for _, rec := range records {
		if _, err := fmt.Fprintf(f, ">%s\n%s\n", rec.ID, rec.Seq); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// ParseTabular parses blastn -outfmt 6 output.
func ParseTabular(data string) ([]*Hit, error) {
	hits := []*Hit{}
	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 12 {
			return nil, fmt.Errorf("line %d: blast row has %d columns, want 12", i+1, len(fields))
		}

		hit := &Hit{QueryID: fields[0], SubjectID: fields[1]}
		var err error
		if hit.Identity, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, fmt.Errorf("line %d: parsing identity: %w", i+1, err)
		}
		ints := []struct {
			dst *int
			col int
		}{
			{&hit.Length, 3}, {&hit.Mismatches, 4}, {&hit.GapOpens, 5},
			{&hit.QueryStart, 6}, {&hit.QueryEnd, 7}, {&hit.SubjStart, 8}, {&hit.SubjEnd, 9},
		}
		for _, c := range ints {
			n, err := strconv.Atoi(fields[c.col])
			if err != nil {
				return nil, fmt.Errorf("line %d: parsing column %d: %w", i+1, c.col+1, err)
			}
			*c.dst = n
		}
		if hit.EValue, err = strconv.ParseFloat(fields[10], 64); err != nil {
			return nil, fmt.Errorf("line %d: parsing evalue: %w", i+1, err)
		}
		if hit.BitScore, err = strconv.ParseFloat(fields[11], 64); err != nil {
			return nil, fmt.Errorf("line %d: parsing bitscore: %w", i+1, err)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
