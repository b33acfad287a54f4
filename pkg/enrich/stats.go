// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/combin"
)

// hypergeomTail returns P(X >= k) for a hypergeometric draw of n genes
// from a universe of N genes of which K belong to the set.
func hypergeomTail(n, bigN, bigK, k int) float64 {
	if k <= 0 {
		return 1
	}
	upper := min(bigK, n)
	if k > upper {
		return 0
	}

	logDenom := combin.LogGeneralizedBinomial(float64(bigN), float64(n))
	p := 0.0
	for i := k; i <= upper; i++ {
		// C(N-K, n-i) is zero when the non-members cannot fill the draw
		if n-i > bigN-bigK || n-i < 0 {
			continue
		}
		logP := combin.LogGeneralizedBinomial(float64(bigK), float64(i)) +
			combin.LogGeneralizedBinomial(float64(bigN-bigK), float64(n-i)) -
			logDenom
		p += math.Exp(logP)
	}
	return math.Min(p, 1)
}

// adjustBH returns Benjamini-Hochberg adjusted p-values in input order.
func adjustBH(pvalues []float64) []float64 {
	m := len(pvalues)
	if m == 0 {
		return []float64{}
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return pvalues[order[a]] < pvalues[order[b]]
	})

	adjusted := make([]float64, m)
	minSoFar := 1.0
	for rank := m - 1; rank >= 0; rank-- {
		idx := order[rank]
		adj := pvalues[idx] * float64(m) / float64(rank+1)
		if adj < minSoFar {
			minSoFar = adj
		}
		adjusted[idx] = minSoFar
	}
	return adjusted
}

// qvalueLambda is the Storey pi0 estimation threshold.
const qvalueLambda = 0.5

// qvalues computes Storey q-values from raw p-values, estimating the
// null proportion pi0 at a single lambda. A degenerate pi0 estimate
// (everything significant) falls back to 1, reducing to BH.
func qvalues(pvalues []float64) []float64 {
	m := len(pvalues)
	if m == 0 {
		return []float64{}
	}

	over := 0
	for _, p := range pvalues {
		if p > qvalueLambda {
			over++
		}
	}
	pi0 := float64(over) / (float64(m) * (1 - qvalueLambda))
	if pi0 <= 0 || pi0 > 1 {
		pi0 = 1
	}

	adjusted := adjustBH(pvalues)
	qs := make([]float64, m)
	for i, adj := range adjusted {
		qs[i] = math.Min(pi0*adj, 1)
	}
	return qs
}
