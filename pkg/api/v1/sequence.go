// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package v1

// Record is a single FASTA/FASTQ sequence record.
type Record struct {
	// ID is the first whitespace separated token of the header line
	ID string `json:"id"`

	// Header holds the remaining header fields
	Header []string `json:"header,omitempty"`

	// Seq is the nucleotide or protein sequence
	Seq string `json:"seq"`

	// Qual is the quality line, empty for FASTA input
	Qual string `json:"qual,omitempty"`
}

// Len returns the sequence length.
func (r *Record) Len() int {
	return len(r.Seq)
}

// IsFastq reports whether the record carries base qualities.
func (r *Record) IsFastq() bool {
	return r.Qual != ""
}
