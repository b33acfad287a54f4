// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package bed parses ENCODE narrowPeak files and the 20-column BED
// output of the IDR tool.
package bed

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/biofrost-dev/biofrost/pkg/fileio"
)

// Peak is one narrowPeak record (BED6+4).
type Peak struct {
	Chrom      string
	ChromStart int
	ChromEnd   int
	Name       string
	Score      int
	Strand     string

	// SignalValue is the overall enrichment of the region, PValue
	// and QValue are -log10 scaled, -1 when not assigned
	SignalValue float64
	PValue      float64
	QValue      float64

	// Summit is the peak point offset from ChromStart, -1 when not
	// called
	Summit int
}

// Replicate holds the per-replicate columns of an IDR peak.
type Replicate struct {
	ChromStart  int
	ChromEnd    int
	SignalValue float64
	Summit      int
}

// IDRPeak is one record of the IDR tool's 20-column narrowPeak
// output: a merged peak, its IDR values and the two replicates.
type IDRPeak struct {
	Peak

	// LocalIDR and GlobalIDR are -log10 scaled
	LocalIDR  float64
	GlobalIDR float64

	Rep1 Replicate
	Rep2 Replicate
}

// IDRScore recovers the global IDR from the scaled score column,
// score = min(int(-125 * log2(IDR)), 1000).
func (p *IDRPeak) IDRScore() float64 {
	return math.Exp2(float64(p.Score) / -125)
}

// ReadNarrowPeak loads a narrowPeak file, plain or gzipped.
func ReadNarrowPeak(path string) ([]*Peak, error) {
	peaks := []*Peak{}
	if err := eachLine(path, func(fields []string) error {
		if len(fields) != 10 {
			return fmt.Errorf("narrowPeak line has %d columns, want 10", len(fields))
		}
		peak, err := parsePeak(fields)
		if err != nil {
			return err
		}
		peaks = append(peaks, peak)
		return nil
	}); err != nil {
		return nil, err
	}
	return peaks, nil
}

// ReadIDR loads the 20-column output of the IDR tool.
func ReadIDR(path string) ([]*IDRPeak, error) {
	peaks := []*IDRPeak{}
	if err := eachLine(path, func(fields []string) error {
		if len(fields) != 20 {
			return fmt.Errorf("IDR line has %d columns, want 20", len(fields))
		}
		base, err := parsePeak(fields[:10])
		if err != nil {
			return err
		}
		peak := &IDRPeak{Peak: *base}

		floats := []struct {
			dst *float64
			col int
		}{
			{&peak.LocalIDR, 10}, {&peak.GlobalIDR, 11},
			{&peak.Rep1.SignalValue, 14}, {&peak.Rep2.SignalValue, 18},
		}
		for _, c := range floats {
			f, err := strconv.ParseFloat(fields[c.col], 64)
			if err != nil {
				return fmt.Errorf("parsing IDR column %d: %w", c.col+1, err)
			}
			*c.dst = f
		}

		ints := []struct {
			dst *int
			col int
		}{
			{&peak.Rep1.ChromStart, 12}, {&peak.Rep1.ChromEnd, 13}, {&peak.Rep1.Summit, 15},
			{&peak.Rep2.ChromStart, 16}, {&peak.Rep2.ChromEnd, 17}, {&peak.Rep2.Summit, 19},
		}
		for _, c := range ints {
			n, err := strconv.Atoi(fields[c.col])
			if err != nil {
				return fmt.Errorf("parsing IDR column %d: %w", c.col+1, err)
			}
			*c.dst = n
		}

		peaks = append(peaks, peak)
		return nil
	}); err != nil {
		return nil, err
	}
	return peaks, nil
}

func parsePeak(fields []string) (*Peak, error) {
	peak := &Peak{
		Chrom:  fields[0],
		Name:   fields[3],
		Strand: fields[5],
	}

	ints := []struct {
		dst *int
		col int
	}{
		{&peak.ChromStart, 1}, {&peak.ChromEnd, 2}, {&peak.Score, 4}, {&peak.Summit, 9},
	}
	for _, c := range ints {
		n, err := strconv.Atoi(fields[c.col])
		if err != nil {
			return nil, fmt.Errorf("parsing BED column %d: %w", c.col+1, err)
		}
		*c.dst = n
	}

	floats := []struct {
		dst *float64
		col int
	}{
		{&peak.SignalValue, 6}, {&peak.PValue, 7}, {&peak.QValue, 8},
	}
	for _, c := range floats {
		f, err := strconv.ParseFloat(fields[c.col], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing BED column %d: %w", c.col+1, err)
		}
		*c.dst = f
	}
	return peak, nil
}

func eachLine(path string, fn func(fields []string) error) error {
	f, err := fileio.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck
	return eachReaderLine(f, fn)
}

func eachReaderLine(r io.Reader, fn func(fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") {
			continue
		}
		if err := fn(strings.Split(line, "\t")); err != nil {
			return err
		}
	}
	return scanner.Err()
}
