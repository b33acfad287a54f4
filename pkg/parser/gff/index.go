// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package gff

import (
	"github.com/biofrost-dev/biofrost/pkg/intervals"
)

// binSize is the width of the genomic bins the index hashes features into.
const binSize = 500

// Intron is a gap between two consecutive exons of a transcript.
type Intron struct {
	Start  int
	End    int
	Strand string
}

// Index holds gene and exon features binned by position, plus the
// introns and splice sites derived from consecutive exons.
type Index struct {
	features    map[string]map[int][]*Feature
	introns     map[string][]Intron
	spliceSites map[string]map[int]string
}

type constructorFunc func(*Index) error

// New builds an annotation index from the given sources.
func New(funcs ...constructorFunc) (*Index, error) {
	ix := &Index{
		features:    map[string]map[int][]*Feature{},
		introns:     map[string][]Intron{},
		spliceSites: map[string]map[int]string{},
	}
	for _, fn := range funcs {
		if err := fn(ix); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// WithFile indexes the gene and exon features of an annotation file.
func WithFile(path string, dialect Dialect) constructorFunc {
	return func(ix *Index) error {
		var lastExon *Feature
		return Each(path, dialect, func(feat *Feature) error {
			lastExon = ix.add(feat, lastExon)
			return nil
		})
	}
}

// WithFeatures indexes an in-memory feature list.
func WithFeatures(feats []*Feature) constructorFunc {
	return func(ix *Index) error {
		var lastExon *Feature
		for _, feat := range feats {
			lastExon = ix.add(feat, lastExon)
		}
		return nil
	}
}

func (ix *Index) add(feat *Feature, lastExon *Feature) *Feature {
	// Only genes and exons participate in the index
	if feat.Type != "gene" && feat.Type != "exon" {
		return lastExon
	}

	if feat.Type == "exon" {
		if ix.spliceSites[feat.Contig] == nil {
			ix.spliceSites[feat.Contig] = map[int]string{}
		}
		ix.spliceSites[feat.Contig][feat.Start] = feat.Strand
		ix.spliceSites[feat.Contig][feat.End] = feat.Strand

		// Consecutive exons of one transcript delimit an intron
		if lastExon != nil && lastExon.Transcript() == feat.Transcript() {
			st, en := lastExon.End, feat.Start
			if st > en {
				st, en = feat.End, lastExon.Start
			}
			ix.introns[feat.Contig] = append(ix.introns[feat.Contig], Intron{
				Start:  st,
				End:    en,
				Strand: feat.Strand,
			})
		}
		lastExon = feat
	}

	if ix.features[feat.Contig] == nil {
		ix.features[feat.Contig] = map[int][]*Feature{}
	}
	for bin := feat.Start / binSize; bin <= feat.End/binSize; bin++ {
		ix.features[feat.Contig][bin] = append(ix.features[feat.Contig][bin], feat)
	}
	return lastExon
}

// Query returns the indexed features overlapping a region.
func (ix *Index) Query(contig string, start, end int) []*Feature {
	bins, ok := ix.features[contig]
	if !ok {
		return nil
	}
	seen := map[*Feature]struct{}{}
	hits := []*Feature{}
	for bin := start / binSize; bin <= end/binSize; bin++ {
		for _, feat := range bins[bin] {
			if _, dup := seen[feat]; dup {
				continue
			}
			if feat.Start <= end && feat.End >= start {
				seen[feat] = struct{}{}
				hits = append(hits, feat)
			}
		}
	}
	return hits
}

// IsSpliceSite reports whether a position is an annotated exon boundary.
func (ix *Index) IsSpliceSite(contig string, pos int) bool {
	sites, ok := ix.spliceSites[contig]
	if !ok {
		return false
	}
	_, hit := sites[pos]
	return hit
}

// IntronSpans returns the merged intron intervals of a contig, joining
// introns closer than gap.
func (ix *Index) IntronSpans(contig string, gap int) [][2]int {
	spans := [][2]int{}
	for _, intron := range ix.introns[contig] {
		spans = append(spans, [2]int{intron.Start, intron.End})
	}
	return intervals.Merge(spans, gap)
}
