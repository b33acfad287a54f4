// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package quant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEMUniqueOnly(t *testing.T) {
	t.Parallel()

	est, err := EM([]Assignment{
		{Read: "r1", Target: "A"},
		{Read: "r2", Target: "A"},
		{Read: "r3", Target: "B"},
		// duplicate pair counts once
		{Read: "r3", Target: "B"},
	}, nil)
	require.NoError(t, err)

	// with no ambiguity the estimate is the raw counts
	require.Equal(t, 1, est.Steps)
	require.InDelta(t, 2.0, est.Abundance["A"], 1e-12)
	require.InDelta(t, 1.0, est.Abundance["B"], 1e-12)
}

func TestEMAmbiguous(t *testing.T) {
	t.Parallel()

	// r1 anchors A; the ambiguous r2 should follow it
	est, err := EM([]Assignment{
		{Read: "r1", Target: "A"},
		{Read: "r2", Target: "A"},
		{Read: "r2", Target: "B"},
	}, nil)
	require.NoError(t, err)
	require.Greater(t, est.Steps, 1)
	require.InDelta(t, 1.0, est.Abundance["A"], 1e-6)
	require.InDelta(t, 0.0, est.Abundance["B"], 1e-6)

	// proportions sum to one
	total := 0.0
	for _, v := range est.Abundance {
		total += v
	}
	require.InDelta(t, 1.0, total, 1e-9)
}

func TestEMNoiseThreshold(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.NoiseThreshold = 0.3

	est, err := EM([]Assignment{
		{Read: "r1", Target: "A"},
		{Read: "r2", Target: "B"},
		{Read: "r2", Target: "C"},
	}, opts)
	require.NoError(t, err)

	// B and C split r2 below the threshold and get zeroed
	require.InDelta(t, 1.0, est.Abundance["A"], 1e-9)
	require.InDelta(t, 0.0, est.Abundance["B"], 1e-12)
	require.InDelta(t, 0.0, est.Abundance["C"], 1e-12)
}

func TestEMErrors(t *testing.T) {
	t.Parallel()

	_, err := EM(nil, nil)
	require.Error(t, err)
}
