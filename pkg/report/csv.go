// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package report writes analysis results as CSV tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
	"github.com/biofrost-dev/biofrost/pkg/enrich/enrichr"
)

// enrichmentHeader matches the clusterProfiler column layout; the
// leading empty name is the write.csv row-name column.
var enrichmentHeader = []string{
	"", "ONTOLOGY", "ID", "Description", "GeneRatio", "BgRatio",
	"pvalue", "p.adjust", "qvalue", "geneID", "Count",
}

// CSVWriter writes result tables to a file, or stdout when Path is
// empty.
type CSVWriter struct {
	Path string
}

func (w *CSVWriter) open() (io.WriteCloser, error) {
	if w.Path == "" {
		return os.Stdout, nil
	}
	if dir := filepath.Dir(w.Path); dir != "." {
		if err := os.MkdirAll(dir, os.FileMode(0o755)); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(w.Path)
	if err != nil {
		return nil, fmt.Errorf("opening output file: %w", err)
	}
	return f, nil
}

func (w *CSVWriter) close(f io.WriteCloser) error {
	if f == os.Stdout {
		return nil
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// write opens the output, runs fn against a CSV writer and always
// closes the file, even when fn fails mid-write.
func (w *CSVWriter) write(fn func(cw *csv.Writer) error) error {
	f, err := w.open()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	err = fn(cw)
	if err == nil {
		cw.Flush()
		if ferr := cw.Error(); ferr != nil {
			err = fmt.Errorf("flushing output: %w", ferr)
		}
	}
	if cerr := w.close(f); cerr != nil && err == nil {
		err = fmt.Errorf("closing output: %w", cerr)
	}
	return err
}

// WriteResult writes a merged enrichment table.
func (w *CSVWriter) WriteResult(res *api.Result) error {
	err := w.write(func(cw *csv.Writer) error {
		if err := cw.Write(enrichmentHeader); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		for _, row := range res.Rows {
			record := []string{
				row.ID, row.Ontology, row.ID, row.Description,
				row.GeneRatio(), row.BgRatio(),
				formatFloat(row.PValue), formatFloat(row.AdjustedP), formatFloat(row.QValue),
				row.GeneID(), strconv.Itoa(row.QueryHits),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("writing row %s: %w", row.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if w.Path != "" {
		logrus.Debugf("%s results written to %s", res.Analysis, w.Path)
	}
	return nil
}

// enrichrHeader mirrors the table layout of the Enrichr API backend,
// indexed by rank.
var enrichrHeader = []string{
	"Rank", "Term", "p", "z", "CombinedScore", "Genes", "q", "old-p", "old-q", "Group",
}

// WriteEnrichr writes a merged Enrichr result table.
func (w *CSVWriter) WriteEnrichr(rows []*enrichr.Row) error {
	return w.write(func(cw *csv.Writer) error {
		if err := cw.Write(enrichrHeader); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		for _, row := range rows {
			record := []string{
				strconv.Itoa(row.Rank), row.Term,
				formatFloat(row.PValue), formatFloat(row.ZScore), formatFloat(row.CombinedScore),
				strings.Join(row.Genes, ";"),
				formatFloat(row.QValue), formatFloat(row.OldPValue), formatFloat(row.OldQValue),
				row.Group,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("writing row %q: %w", row.Term, err)
			}
		}
		return nil
	})
}

// WriteTable writes a generic table with a header and string rows.
func (w *CSVWriter) WriteTable(header []string, rows [][]string) error {
	return w.write(func(cw *csv.Writer) error {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("writing rows: %w", err)
		}
		return nil
	})
}
