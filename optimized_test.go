// SPDX-License-Identifier: MIT

package kpm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spectralgo/kpm/lanczos"
	"github.com/spectralgo/kpm/sparse"
)

// chainCSR builds an n-site open chain with unit hopping: zero diagonal,
// +-1 neighbors on the off-diagonals. Spectrum 2cos(k*pi/(n+1)).
func chainCSR(t *testing.T, n int) *sparse.CSR[float64] {
	t.Helper()
	var rows, cols []int
	var vals []float64
	for i := 0; i < n-1; i++ {
		rows = append(rows, i, i+1)
		cols = append(cols, i+1, i)
		vals = append(vals, 1, 1)
	}
	m, err := sparse.NewCSR(n, n, rows, cols, vals)
	require.NoError(t, err)
	return m
}

func chainBounds(t *testing.T) lanczos.Bounds {
	t.Helper()
	b, err := lanczos.FromRange(-2.1, 2.1)
	require.NoError(t, err)
	return b
}

func TestBuildOptimized_SizesGrowBFSShells(t *testing.T) {
	m := chainCSR(t, 10)
	o, err := buildOptimized(m, []int{0}, chainBounds(t), true)
	require.NoError(t, err)

	// From one chain end each BFS shell adds exactly one site.
	require.Equal(t, 10, len(o.sizes))
	for k, s := range o.sizes {
		require.Equal(t, k+1, s)
	}
	require.Equal(t, 10, o.sizes[len(o.sizes)-1], "last shell covers the whole matrix")
}

func TestBuildOptimized_PermIsBijection(t *testing.T) {
	m := chainCSR(t, 16)
	o, err := buildOptimized(m, []int{7, 12}, chainBounds(t), true)
	require.NoError(t, err)

	seen := make([]bool, 16)
	for _, p := range o.perm {
		require.False(t, seen[p], "permutation must not repeat positions")
		seen[p] = true
	}
	// Seeds occupy the first shell.
	require.Less(t, o.perm[7], 2)
	require.Less(t, o.perm[12], 2)
}

func TestBuildOptimized_DisconnectedRemainderIsFinalShell(t *testing.T) {
	// Two disjoint dimers: {0,1} and {2,3}.
	m, err := sparse.NewCSR(4, 4,
		[]int{0, 1, 2, 3}, []int{1, 0, 3, 2}, []float64{1, 1, 1, 1})
	require.NoError(t, err)
	o, err := buildOptimized(m, []int{0}, chainBounds(t), true)
	require.NoError(t, err)

	last := o.sizes[len(o.sizes)-1]
	require.Equal(t, 4, last, "unreachable rows must still be covered")
	require.Equal(t, 2, o.sizes[len(o.sizes)-2], "reachable component has 2 sites")
}

func TestBuildOptimized_LevelZeroKeepsOrder(t *testing.T) {
	m := chainCSR(t, 6)
	o, err := buildOptimized(m, []int{3}, chainBounds(t), false)
	require.NoError(t, err)
	require.Equal(t, []int{6}, o.sizes)
	for i, p := range o.perm {
		require.Equal(t, i, p)
	}
}

func TestBuildOptimized_RejectsBadSeed(t *testing.T) {
	m := chainCSR(t, 4)
	_, err := buildOptimized(m, []int{4}, chainBounds(t), true)
	require.ErrorIs(t, err, ErrInvalidIndex)
	_, err = buildOptimized(m, []int{-1}, chainBounds(t), true)
	require.ErrorIs(t, err, ErrInvalidIndex)
}

func TestCacheKey_Canonicalizes(t *testing.T) {
	require.Equal(t, cacheKey(2, []int{3, 1, 2}), cacheKey(2, []int{2, 3, 1}))
	require.Equal(t, cacheKey(1, []int{5, 5, 5}), cacheKey(1, []int{5}))
	require.NotEqual(t, cacheKey(0, []int{1}), cacheKey(1, []int{1}), "level is part of the key")
	require.NotEqual(t, cacheKey(1, []int{1}), cacheKey(1, []int{2}))
}
