// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package intervals clusters genomic positions and merges interval
// lists with a configurable gap tolerance.
package intervals

import (
	"slices"
	"sort"
)

// Cluster groups positions into [start, end] intervals, starting a new
// interval whenever the distance to the previous position exceeds gap.
// Input order does not matter.
func Cluster(positions []int, gap int) [][2]int {
	if len(positions) == 0 {
		return [][2]int{}
	}
	sorted := slices.Clone(positions)
	slices.Sort(sorted)

	clustered := [][2]int{{sorted[0], sorted[0]}}
	for _, pos := range sorted[1:] {
		last := &clustered[len(clustered)-1]
		if pos-last[1] > gap {
			clustered = append(clustered, [2]int{pos, pos})
		} else {
			last[1] = pos
		}
	}
	return clustered
}

// Merge joins intervals separated by at most gap into larger ones.
// Input order does not matter; the result is sorted by start.
func Merge(blocks [][2]int, gap int) [][2]int {
	if len(blocks) == 0 {
		return [][2]int{}
	}
	sorted := slices.Clone(blocks)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	merged := [][2]int{}
	last := sorted[0]
	for _, block := range sorted[1:] {
		if block[0] <= last[1]+gap {
			last[1] = max(last[1], block[1])
		} else {
			merged = append(merged, last)
			last = block
		}
	}
	return append(merged, last)
}
