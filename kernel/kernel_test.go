package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spectralgo/kpm/kernel"
)

// TestJackson_Coefficients checks g0 = 1 and decay of the tail to 0.
func TestJackson_Coefficients(t *testing.T) {
	const n = 64
	g, err := kernel.Jackson().Coefficients(n)
	require.NoError(t, err)
	require.Len(t, g, n)
	require.InDelta(t, 1.0, g[0], 1e-14, "g0 must be exactly 1")
	require.Less(t, g[n-1], 1e-2, "tail coefficient must vanish")
	for i := 1; i < n; i++ {
		require.Lessf(t, g[i], g[i-1], "Jackson factors must decrease at n=%d", i)
		require.Greater(t, g[i], 0.0)
	}
}

// TestLorentz_Coefficients checks g0 = 1, monotone decay, and λ validation.
func TestLorentz_Coefficients(t *testing.T) {
	k, err := kernel.Lorentz(4)
	require.NoError(t, err)
	g, err := k.Coefficients(32)
	require.NoError(t, err)
	require.InDelta(t, 1.0, g[0], 1e-14)
	for i := 1; i < len(g); i++ {
		require.Less(t, g[i], g[i-1])
	}
	// g_{N-1} = sinh(λ/N)/sinh(λ) — small but nonzero.
	require.Greater(t, g[len(g)-1], 0.0)

	_, err = kernel.Lorentz(0)
	require.ErrorIs(t, err, kernel.ErrLambda)
	_, err = kernel.Lorentz(-1)
	require.ErrorIs(t, err, kernel.ErrLambda)
}

// TestRequiredMoments maps broadening to moment counts.
func TestRequiredMoments(t *testing.T) {
	n, err := kernel.Jackson().RequiredMoments(0.01)
	require.NoError(t, err)
	require.Equal(t, 315, n) // ceil(π / 0.01)

	k, _ := kernel.Lorentz(4)
	n, err = k.RequiredMoments(0.01)
	require.NoError(t, err)
	require.Equal(t, 400, n)

	// Clamped to the minimum.
	n, err = kernel.Jackson().RequiredMoments(100)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = kernel.Jackson().RequiredMoments(0)
	require.ErrorIs(t, err, kernel.ErrBroadening)
}

// TestDamp multiplies in place across scalar kinds.
func TestDamp(t *testing.T) {
	k, _ := kernel.Lorentz(4)
	g, _ := k.Coefficients(3)

	real64 := []float64{2, 2, 2}
	require.NoError(t, kernel.Damp(k, real64))
	for i := range real64 {
		require.InDelta(t, 2*g[i], real64[i], 1e-14)
	}

	cplx := []complex128{1 + 1i, 1 + 1i, 1 + 1i}
	require.NoError(t, kernel.Damp(k, cplx))
	for i := range cplx {
		require.InDelta(t, g[i], real(cplx[i]), 1e-14)
		require.InDelta(t, g[i], imag(cplx[i]), 1e-14)
	}

	require.ErrorIs(t, kernel.Damp(k, []float64{}), kernel.ErrMomentCount)
}
