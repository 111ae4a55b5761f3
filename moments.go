// SPDX-License-Identifier: MIT
// Package kpm: the Chebyshev moments engine. Implements the three-term
// recurrence T₀ = e_seed, T₁ = H̃·T₀, Tₙ = 2·H̃·Tₙ₋₁ − Tₙ₋₂ with every
// product confined to the optimized Hamiltonian's active window. The
// moment count is fixed before the recursion starts and never resized
// mid-computation.

package kpm

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/spectralgo/kpm/scalar"
)

// momentsRun carries the cost accounting of one recursion: nonzeros
// touched and working-vector bytes.
type momentsRun struct {
	ops         uint64
	vectorBytes uint64
}

// diagonalMoments computes num moments μₖ = ⟨e_site|Tₖ(H̃)|e_site⟩ via
// the doubling identities
//
//	μ₂ₖ   = 2⟨Tₖ, Tₖ⟩   − μ₀
//	μ₂ₖ₊₁ = 2⟨Tₖ₊₁, Tₖ⟩ − μ₁
//
// which need only ⌈num/2⌉ matrix products. site is an original index;
// the optimized state must have been built with it in the seed set.
func diagonalMoments[T scalar.Numeric](o *optimized[T], site, num int) ([]T, momentsRun, error) {
	n := o.matrix.Rows()
	if site < 0 || site >= n {
		return nil, momentsRun{}, fmt.Errorf("%w: site %d for dimension %d", ErrInvalidIndex, site, n)
	}
	if num < 1 {
		return nil, momentsRun{}, fmt.Errorf("%w: %d", ErrMomentCount, num)
	}
	run := momentsRun{vectorBytes: uint64(3*n) * uint64(scalar.TagOf[T]().Size())}
	mom := make([]T, num)
	mom[0] = scalar.FromReal[T](1) // ⟨T₀, T₀⟩ for a unit seed
	if num == 1 {
		return mom, run, nil
	}

	s := o.perm[site]
	two := scalar.FromReal[T](2)
	prev := make([]T, n) // T₀
	prev[s] = scalar.FromReal[T](1)
	hv := make([]T, n)
	lim := o.window(1)
	run.ops += uint64(o.matrix.MulVecWindow(hv, prev, lim))
	cur := make([]T, n) // T₁
	copy(cur[:lim], hv[:lim])
	mom[1] = cur[s]

	// prev = T₍ₖ₋₁₎, cur = Tₖ throughout; supports only grow here, so
	// no stale entries need zeroing.
	for k := 1; 2*k < num; k++ {
		w := o.window(k)
		mom[2*k] = two*scalar.DotC(cur[:w], cur[:w]) - mom[0]
		if 2*k+1 >= num {
			break
		}
		lim = o.window(k + 1)
		run.ops += uint64(o.matrix.MulVecWindow(hv, cur, lim))
		for i := 0; i < lim; i++ {
			prev[i] = two*hv[i] - prev[i]
		}
		prev, cur = cur, prev // cur = T₍ₖ₊₁₎ now
		mom[2*k+1] = two*scalar.DotC(cur[:lim], prev[:lim]) - mom[1]
	}
	return mom, run, nil
}

// generalMoments computes num moments μₖ = ⟨e_row|Tₖ(H̃)|e_col⟩ with the
// plain recurrence. With tailCap set (optimization level 2), the window
// at step k is additionally capped at window(num−1−k): components
// farther from the seeds than the remaining step count cannot propagate
// back to e_row before the expansion ends, so dropping them changes no
// moment. Both row and col must be in the optimized state's seed set.
func generalMoments[T scalar.Numeric](o *optimized[T], row, col, num int, tailCap bool) ([]T, momentsRun, error) {
	n := o.matrix.Rows()
	if row < 0 || row >= n || col < 0 || col >= n {
		return nil, momentsRun{}, fmt.Errorf("%w: (%d, %d) for dimension %d", ErrInvalidIndex, row, col, n)
	}
	if num < 1 {
		return nil, momentsRun{}, fmt.Errorf("%w: %d", ErrMomentCount, num)
	}
	run := momentsRun{vectorBytes: uint64(3*n) * uint64(scalar.TagOf[T]().Size())}
	pl, pr := o.perm[row], o.perm[col]
	mom := make([]T, num)

	prev := make([]T, n) // T₀
	prev[pr] = scalar.FromReal[T](1)
	mom[0] = prev[pl]
	if num == 1 {
		return mom, run, nil
	}

	two := scalar.FromReal[T](2)
	hv := make([]T, n)
	lim := o.window(1)
	if tailCap {
		if c := o.window(num - 2); c < lim {
			lim = c
		}
	}
	run.ops += uint64(o.matrix.MulVecWindow(hv, prev, lim))
	cur := make([]T, n) // T₁
	copy(cur[:lim], hv[:lim])
	mom[1] = cur[pl]

	supPrev, supCur := o.window(0), lim
	for k := 2; k < num; k++ {
		lim = o.window(k)
		if tailCap {
			if c := o.window(num - 1 - k); c < lim {
				lim = c
			}
		}
		run.ops += uint64(o.matrix.MulVecWindow(hv, cur, lim))
		for i := 0; i < lim; i++ {
			prev[i] = two*hv[i] - prev[i]
		}
		for i := lim; i < supPrev; i++ {
			prev[i] = 0 // stale tail from two steps back
		}
		prev, cur = cur, prev
		supPrev, supCur = supCur, lim
		mom[k] = cur[pl]
	}
	return mom, run, nil
}

// vectorMoments computes num moments μₖ[j] = ⟨e_row|Tₖ(H̃)|e_colⱼ⟩ for
// every requested column in one recursion seeded at e_row: Tₖ(H̃) is
// Hermitian, so ⟨row|Tₖ|col⟩ = conj(⟨col|Tₖ|row⟩) and a single sweep
// from the row covers all columns. row and every column must be in the
// optimized state's seed set.
func vectorMoments[T scalar.Numeric](o *optimized[T], row int, cols []int, num int) ([][]T, momentsRun, error) {
	n := o.matrix.Rows()
	if row < 0 || row >= n {
		return nil, momentsRun{}, fmt.Errorf("%w: row %d for dimension %d", ErrInvalidIndex, row, n)
	}
	for _, c := range cols {
		if c < 0 || c >= n {
			return nil, momentsRun{}, fmt.Errorf("%w: column %d for dimension %d", ErrInvalidIndex, c, n)
		}
	}
	if num < 1 {
		return nil, momentsRun{}, fmt.Errorf("%w: %d", ErrMomentCount, num)
	}
	run := momentsRun{vectorBytes: uint64(3*n) * uint64(scalar.TagOf[T]().Size())}
	pr := o.perm[row]
	pc := make([]int, len(cols))
	for j, c := range cols {
		pc[j] = o.perm[c]
	}
	mom := make([][]T, len(cols))
	for j := range mom {
		mom[j] = make([]T, num)
	}

	prev := make([]T, n) // T₀
	prev[pr] = scalar.FromReal[T](1)
	for j, p := range pc {
		mom[j][0] = scalar.Conj(prev[p])
	}
	if num == 1 {
		return mom, run, nil
	}

	two := scalar.FromReal[T](2)
	hv := make([]T, n)
	lim := o.window(1)
	run.ops += uint64(o.matrix.MulVecWindow(hv, prev, lim))
	cur := make([]T, n) // T₁
	copy(cur[:lim], hv[:lim])
	for j, p := range pc {
		mom[j][1] = scalar.Conj(cur[p])
	}

	// Windows only grow here (no tail cap: the extraction points span
	// the whole seed set every step), so no stale entries need zeroing.
	for k := 2; k < num; k++ {
		lim = o.window(k)
		run.ops += uint64(o.matrix.MulVecWindow(hv, cur, lim))
		for i := 0; i < lim; i++ {
			prev[i] = two*hv[i] - prev[i]
		}
		prev, cur = cur, prev
		for j, p := range pc {
			mom[j][k] = scalar.Conj(cur[p])
		}
	}
	return mom, run, nil
}

// traceMoments sums diagonal moments over the given sites (the DOS
// trace). The optimized state must have been built with every site in
// its seed set.
func traceMoments[T scalar.Numeric](o *optimized[T], sites []int, num int) ([]float64, momentsRun, error) {
	total := make([]float64, num)
	site := make([]float64, num)
	var run momentsRun
	for _, s := range sites {
		mom, r, err := diagonalMoments(o, s, num)
		if err != nil {
			return nil, momentsRun{}, err
		}
		for i, v := range mom {
			site[i] = scalar.RealPart(v) // diagonal moments are real for Hermitian H
		}
		floats.Add(total, site)
		run.ops += r.ops
		// Per-site runs reuse one working set; the peak is the cost,
		// not the sum.
		if r.vectorBytes > run.vectorBytes {
			run.vectorBytes = r.vectorBytes
		}
	}
	return total, run, nil
}
