// SPDX-License-Identifier: MIT

package kpm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spectralgo/kpm/lanczos"
	"github.com/spectralgo/kpm/sparse"
)

// The dimer H = [[0,1],[1,0]] rescaled by a=2 has eigenvalues +-1/2 =
// cos(60 deg), so its Chebyshev moments are exact cosine table lookups:
// mu_k(0,0) = (cos(60k) + cos(120k))/2 and mu_k(0,1) = (cos(60k) −
// cos(120k))/2 in degrees.
func dimerOptimized(t *testing.T, reorder bool) *optimized[float64] {
	t.Helper()
	m := chainCSR(t, 2)
	b, err := lanczos.FromRange(-2, 2)
	require.NoError(t, err)
	o, err := buildOptimized(m, []int{0, 1}, b, reorder)
	require.NoError(t, err)
	return o
}

func TestDiagonalMoments_DimerExactValues(t *testing.T) {
	o := dimerOptimized(t, true)
	mom, run, err := diagonalMoments(o, 0, 7)
	require.NoError(t, err)
	want := []float64{1, 0, -0.5, 0, -0.5, 0, 1}
	for k, w := range want {
		require.InDeltaf(t, w, mom[k], 1e-14, "moment %d", k)
	}
	require.Greater(t, run.ops, uint64(0))
	require.Greater(t, run.vectorBytes, uint64(0))
}

func TestGeneralMoments_DimerExactValues(t *testing.T) {
	o := dimerOptimized(t, true)
	mom, _, err := generalMoments(o, 0, 1, 7, false)
	require.NoError(t, err)
	want := []float64{0, 0.5, 0, -1, 0, 0.5, 0}
	for k, w := range want {
		require.InDeltaf(t, w, mom[k], 1e-14, "moment %d", k)
	}
}

// TestGeneralMoments_MatchesDiagonalDoubling cross-checks the doubling
// identities against the plain recurrence on the same diagonal element.
func TestGeneralMoments_MatchesDiagonalDoubling(t *testing.T) {
	m := chainCSR(t, 24)
	b, err := lanczos.FromRange(-2.1, 2.1)
	require.NoError(t, err)
	o, err := buildOptimized(m, []int{5}, b, true)
	require.NoError(t, err)

	const num = 40
	diag, _, err := diagonalMoments(o, 5, num)
	require.NoError(t, err)
	plain, _, err := generalMoments(o, 5, 5, num, false)
	require.NoError(t, err)
	for k := 0; k < num; k++ {
		require.InDeltaf(t, plain[k], diag[k], 1e-12, "moment %d", k)
	}
}

// TestGeneralMoments_TailCapIsExact verifies that the shrinking tail
// window changes no moment, only the operation count.
func TestGeneralMoments_TailCapIsExact(t *testing.T) {
	m := chainCSR(t, 48)
	b, err := lanczos.FromRange(-2.1, 2.1)
	require.NoError(t, err)
	o, err := buildOptimized(m, []int{0, 9}, b, true)
	require.NoError(t, err)

	const num = 32
	full, runFull, err := generalMoments(o, 0, 9, num, false)
	require.NoError(t, err)
	capped, runCapped, err := generalMoments(o, 0, 9, num, true)
	require.NoError(t, err)
	for k := 0; k < num; k++ {
		require.InDeltaf(t, full[k], capped[k], 1e-12, "moment %d", k)
	}
	require.Less(t, runCapped.ops, runFull.ops, "tail cap must skip work")
}

// TestVectorMoments_MatchesGeneral: one vector sweep reproduces the
// per-pair recurrence for every requested column, including the
// conjugation that flips ⟨col|Tₖ|row⟩ into ⟨row|Tₖ|col⟩.
func TestVectorMoments_MatchesGeneral(t *testing.T) {
	m := chainCSR(t, 16)
	b, err := lanczos.FromRange(-2.1, 2.1)
	require.NoError(t, err)
	cols := []int{2, 6, 11}
	o, err := buildOptimized(m, append([]int{2}, cols...), b, true)
	require.NoError(t, err)

	const num = 24
	vec, _, err := vectorMoments(o, 2, cols, num)
	require.NoError(t, err)
	require.Len(t, vec, len(cols))
	for j, col := range cols {
		want, _, err := generalMoments(o, 2, col, num, false)
		require.NoError(t, err)
		for k := 0; k < num; k++ {
			require.InDeltaf(t, want[k], vec[j][k], 1e-12, "column %d moment %d", col, k)
		}
	}
}

func TestVectorMoments_ComplexConjugation(t *testing.T) {
	m, err := sparse.NewCSR(2, 2,
		[]int{0, 1}, []int{1, 0}, []complex128{1i, -1i})
	require.NoError(t, err)
	b, err := lanczos.FromRange(-2, 2)
	require.NoError(t, err)
	o, err := buildOptimized(m, []int{0, 1}, b, true)
	require.NoError(t, err)

	const num = 6
	vec, _, err := vectorMoments(o, 0, []int{1}, num)
	require.NoError(t, err)
	want, _, err := generalMoments(o, 0, 1, num, false)
	require.NoError(t, err)
	for k := 0; k < num; k++ {
		require.InDeltaf(t, real(want[k]), real(vec[0][k]), 1e-14, "Re moment %d", k)
		require.InDeltaf(t, imag(want[k]), imag(vec[0][k]), 1e-14, "Im moment %d", k)
	}
}

func TestVectorMoments_Validation(t *testing.T) {
	o := dimerOptimized(t, false)
	_, _, err := vectorMoments(o, 5, []int{0}, 4)
	require.ErrorIs(t, err, ErrInvalidIndex)
	_, _, err = vectorMoments(o, 0, []int{9}, 4)
	require.ErrorIs(t, err, ErrInvalidIndex)
	_, _, err = vectorMoments(o, 0, []int{1}, 0)
	require.ErrorIs(t, err, ErrMomentCount)
}

// TestTraceMoments_ReportsPeakWorkingSet: per-site runs reuse the same
// three vectors, so the trace reports the peak working set, not a sum
// over sites.
func TestTraceMoments_ReportsPeakWorkingSet(t *testing.T) {
	o := dimerOptimized(t, true)
	_, single, err := diagonalMoments(o, 0, 5)
	require.NoError(t, err)
	_, trace, err := traceMoments(o, []int{0, 1}, 5)
	require.NoError(t, err)
	require.Equal(t, single.vectorBytes, trace.vectorBytes)
	require.Equal(t, 2*single.ops, trace.ops, "ops do accumulate across sites")
}

func TestTraceMoments_SumsSites(t *testing.T) {
	o := dimerOptimized(t, true)
	tr, _, err := traceMoments(o, []int{0, 1}, 5)
	require.NoError(t, err)
	// Both dimer sites have identical diagonal moments.
	want := []float64{2, 0, -1, 0, -1}
	for k, w := range want {
		require.InDeltaf(t, w, tr[k], 1e-14, "trace moment %d", k)
	}
}

func TestMoments_Validation(t *testing.T) {
	o := dimerOptimized(t, false)
	_, _, err := diagonalMoments(o, 5, 4)
	require.ErrorIs(t, err, ErrInvalidIndex)
	_, _, err = diagonalMoments(o, 0, 0)
	require.ErrorIs(t, err, ErrMomentCount)
	_, _, err = generalMoments(o, 0, 9, 4, false)
	require.ErrorIs(t, err, ErrInvalidIndex)
}
