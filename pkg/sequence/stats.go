// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package sequence

import (
	"fmt"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
	"github.com/biofrost-dev/biofrost/pkg/parser/fastx"
)

// FileStats summarizes the sequences of one FASTA/FASTQ file.
type FileStats struct {
	Path    string
	Records int
	Bases   int
	MinLen  int
	MaxLen  int
	N50     int
	// GC is the overall G+C fraction of all bases
	GC float64
}

// MeanLen returns the mean sequence length.
func (fs *FileStats) MeanLen() float64 {
	if fs.Records == 0 {
		return 0
	}
	return float64(fs.Bases) / float64(fs.Records)
}

// Stats streams a FASTA/FASTQ file and computes its summary.
func Stats(path string) (*FileStats, error) {
	stats := &FileStats{Path: path}
	lengths := []int{}
	gcBases := 0

	if err := fastx.Each(path, func(rec *api.Record) error {
		l := rec.Len()
		stats.Records++
		stats.Bases += l
		lengths = append(lengths, l)
		if stats.MinLen == 0 || l < stats.MinLen {
			stats.MinLen = l
		}
		if l > stats.MaxLen {
			stats.MaxLen = l
		}
		for i := 0; i < len(rec.Seq); i++ {
			switch rec.Seq[i] {
			case 'G', 'C', 'g', 'c':
				gcBases++
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if stats.Records == 0 {
		return nil, fmt.Errorf("no sequences found in %s", path)
	}
	stats.N50 = N50(lengths)
	if stats.Bases > 0 {
		stats.GC = float64(gcBases) / float64(stats.Bases)
	}
	return stats, nil
}
