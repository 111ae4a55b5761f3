// SPDX-License-Identifier: MIT
// Package kpm: the optimized Hamiltonian. Rescales the bound matrix so
// its spectrum fits in [-1, 1] and reorders it so sites reachable from
// the seed set within k hops of the sparsity graph occupy the first
// sizes[k] rows. The moments recursion then confines each product to a
// growing active window instead of the full matrix: early moments only
// need the seed's immediate neighborhood, and the window grows by one
// sparsity shell per step.

package kpm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spectralgo/kpm/lanczos"
	"github.com/spectralgo/kpm/scalar"
	"github.com/spectralgo/kpm/sparse"
)

// optimized is the preprocessed form of the bound matrix for one seed
// set: built once, published read-only, reused for every moments run
// against that seed set.
type optimized[T scalar.Numeric] struct {
	matrix *sparse.CSR[T] // (H - b·I)/a, reordered unless level 0
	perm   []int          // original index -> reordered position (bijection)
	sizes  []int          // reachable sites after k shells; last == dim
	scaleA float64
	scaleB float64
}

// buildOptimized rescales m by bounds and, when reorder is set, runs a
// breadth-first sweep from the seed set over the sparsity graph: each
// BFS level becomes one contiguous block of the new ordering and one
// entry of the size sequence. Rows unreachable from the seeds are
// appended in original order as a final shell so the permutation stays
// a bijection.
func buildOptimized[T scalar.Numeric](m *sparse.CSR[T], seeds []int, b lanczos.Bounds, reorder bool) (*optimized[T], error) {
	n := m.Rows()
	for _, s := range seeds {
		if s < 0 || s >= n {
			return nil, fmt.Errorf("%w: seed %d for dimension %d", ErrInvalidIndex, s, n)
		}
	}
	scaled, err := m.Rescale(b.ScaleA, b.ScaleB)
	if err != nil {
		return nil, err
	}
	o := &optimized[T]{scaleA: b.ScaleA, scaleB: b.ScaleB}
	if !reorder {
		o.matrix = scaled
		o.perm = identity(n)
		o.sizes = []int{n}
		return o, nil
	}

	visited := make([]bool, n)
	order := make([]int, 0, n) // reordered position -> original index
	frontier := make([]int, 0, len(seeds))
	for _, s := range seeds {
		if !visited[s] {
			visited[s] = true
			frontier = append(frontier, s)
			order = append(order, s)
		}
	}
	sizes := []int{len(order)}
	for len(frontier) > 0 {
		var next []int
		for _, u := range frontier {
			cols, _ := scaled.Row(u)
			for _, v := range cols {
				if !visited[v] {
					visited[v] = true
					next = append(next, v)
					order = append(order, v)
				}
			}
		}
		if len(next) > 0 {
			sizes = append(sizes, len(order))
		}
		frontier = next
	}
	if len(order) < n {
		// Disconnected remainder: one final shell, original order.
		for i := 0; i < n; i++ {
			if !visited[i] {
				order = append(order, i)
			}
		}
		sizes = append(sizes, n)
	}

	perm := make([]int, n)
	for pos, orig := range order {
		perm[orig] = pos
	}
	o.perm = perm
	o.sizes = sizes
	if o.matrix, err = scaled.Permute(perm); err != nil {
		return nil, err
	}
	return o, nil
}

// window returns the active row bound for producing the k-th recursion
// vector: everything within k shells of the seeds.
func (o *optimized[T]) window(k int) int {
	if k >= len(o.sizes) {
		k = len(o.sizes) - 1
	}
	if k < 0 {
		k = 0
	}
	return o.sizes[k]
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// cacheKey canonicalizes a seed set (and the level, which changes the
// built artifacts) into the optimized-state cache key.
func cacheKey(level int, seeds []int) string {
	sorted := append([]int(nil), seeds...)
	sort.Ints(sorted)
	var b strings.Builder
	b.WriteString("l")
	b.WriteString(strconv.Itoa(level))
	last := -1
	for _, s := range sorted {
		if s == last {
			continue // duplicate seeds collapse
		}
		last = s
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s))
	}
	return b.String()
}
