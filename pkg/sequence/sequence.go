// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package sequence holds small sequence-level primitives: reverse
// complement, GC content, N50 and alignment block extraction.
package sequence

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var complement = map[byte]byte{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C',
	'a': 't', 't': 'a', 'c': 'g', 'g': 'c',
	'N': 'N', 'n': 'n', 'U': 'A', 'u': 'a',
}

// RevComp returns the reverse complement of a nucleotide sequence.
// Unknown characters are kept as they are.
func RevComp(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		b := seq[len(seq)-1-i]
		if c, ok := complement[b]; ok {
			out[i] = c
		} else {
			out[i] = b
		}
	}
	return string(out)
}

// GCContent returns the G+C fraction of a sequence, 0 for empty input.
func GCContent(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	gc := 0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C', 'g', 'c':
			gc++
		}
	}
	return float64(gc) / float64(len(seq))
}

// RotateBSJ rotates a sequence so it starts at the back-splice
// junction offset, the linear representation of a circRNA.
func RotateBSJ(seq string, bsj int) string {
	if len(seq) == 0 {
		return seq
	}
	bsj %= len(seq)
	if bsj < 0 {
		bsj += len(seq)
	}
	return seq[bsj:] + seq[:bsj]
}

// N50 returns the N50 of a set of sequence lengths: the length of the
// shortest sequence in the minimal set covering half the total bases.
func N50(lengths []int) int {
	if len(lengths) == 0 {
		return 0
	}
	sorted := append([]int(nil), lengths...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	total := 0
	for _, l := range sorted {
		total += l
	}
	target := float64(total) * 0.5

	soFar := 0
	for _, l := range sorted {
		soFar += l
		if float64(soFar) >= target {
			return l
		}
	}
	return 0
}

// Block is one reference-spanning segment of an alignment, split on
// skipped regions (CIGAR N, i.e. introns).
type Block struct {
	RefStart   int
	RefEnd     int
	QueryStart int
	QueryEnd   int
}

// Blocks splits a CIGAR string into reference blocks starting at
// refStart/queryStart. M/=/X consume both sequences, I the query,
// D the reference; N closes the current block; S and H are ignored.
func Blocks(cigar string, refStart, queryStart int) ([]Block, error) {
	blocks := []Block{}
	rSt, rEn := refStart, refStart
	qSt, qEn := queryStart, queryStart

	num := strings.Builder{}
	for i := 0; i < len(cigar); i++ {
		c := cigar[i]
		if c >= '0' && c <= '9' {
			num.WriteByte(c)
			continue
		}
		if num.Len() == 0 {
			return nil, fmt.Errorf("CIGAR operation %q has no length", c)
		}
		length, err := strconv.Atoi(num.String())
		if err != nil {
			return nil, fmt.Errorf("parsing CIGAR length: %w", err)
		}
		num.Reset()

		switch c {
		case 'M', '=', 'X':
			rEn += length
			qEn += length
		case 'I':
			qEn += length
		case 'D':
			rEn += length
		case 'N':
			blocks = append(blocks, Block{rSt, rEn, qSt, qEn})
			rSt = rEn + length
			rEn = rSt
			qSt = qEn
		case 'S', 'H':
			// clipping, nothing aligned
		default:
			return nil, fmt.Errorf("unknown CIGAR operation %q", c)
		}
	}
	if num.Len() != 0 {
		return nil, fmt.Errorf("CIGAR ends with a dangling length")
	}

	if rEn > rSt {
		blocks = append(blocks, Block{rSt, rEn, qSt, qEn})
	}
	return blocks, nil
}
