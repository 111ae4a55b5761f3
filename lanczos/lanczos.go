// SPDX-License-Identifier: MIT
// Package lanczos: spectral-bounds estimation.

package lanczos

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/spectralgo/kpm/scalar"
	"github.com/spectralgo/kpm/sparse"
)

// Defaults; the iteration cap is additionally clamped to the matrix
// dimension (the exact tridiagonalization terminates there).
const (
	// DefaultMaxIterations bounds the Lanczos loop.
	DefaultMaxIterations = 256

	// DefaultPrecision is the relative stabilization tolerance used when
	// callers have no preference (0.2%, fine enough for rescaling).
	DefaultPrecision = 0.002

	// paddingFraction widens each end of the estimated spectrum by this
	// fraction of the spread; Lanczos converges to the extremal values
	// from inside, so the true spectrum may exceed the raw estimates.
	paddingFraction = 0.01

	// betaTiny scales the invariant-subspace threshold: a residual below
	// betaTiny·max(1, |lo|, |hi|) means the Krylov space is exhausted
	// and the estimates are exact.
	betaTiny = 1e-10
)

// Sentinel errors.
var (
	// ErrNonConvergence is returned when the extremal estimates fail to
	// stabilize within the iteration budget.
	ErrNonConvergence = errors.New("lanczos: bounds did not converge within the iteration budget")

	// ErrDegenerateSpectrum is returned when the estimated spread is not
	// strictly positive and finite.
	ErrDegenerateSpectrum = errors.New("lanczos: degenerate spectrum, scale factor would not be positive")

	// ErrPrecision is returned for a non-positive precision tolerance.
	ErrPrecision = errors.New("lanczos: precision must be > 0")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("lanczos: invalid option supplied")

	// ErrBadRange is returned by FromRange when min >= max or either end
	// is non-finite.
	ErrBadRange = errors.New("lanczos: invalid energy range")
)

// Bounds holds the estimated spectral window of one matrix and the
// affine rescaling derived from it. A Bounds value is valid only for the
// matrix it was computed from.
type Bounds struct {
	MinEnergy float64
	MaxEnergy float64
	ScaleA    float64 // (max - min) / 2, strictly positive
	ScaleB    float64 // (max + min) / 2
}

// FromRange builds Bounds from an explicit energy window, for callers
// that already know the spectrum (or accept a manual override).
func FromRange(min, max float64) (Bounds, error) {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) || min >= max {
		return Bounds{}, fmt.Errorf("%w: [%g, %g]", ErrBadRange, min, max)
	}
	return Bounds{
		MinEnergy: min,
		MaxEnergy: max,
		ScaleA:    (max - min) / 2,
		ScaleB:    (max + min) / 2,
	}, nil
}

// Rescaled maps an energy into the Chebyshev variable x = (E − b)/a.
func (b Bounds) Rescaled(energy float64) float64 {
	return (energy - b.ScaleB) / b.ScaleA
}

// Option configures the estimation.
type Option func(*options)

type options struct {
	maxIterations int
	randomSeed    uint64
	randomStart   bool
	err           error
}

func defaultOptions() options {
	return options{maxIterations: DefaultMaxIterations}
}

// WithMaxIterations overrides the iteration cap (must be >= 2).
func WithMaxIterations(n int) Option {
	return func(o *options) {
		if n < 2 {
			o.err = fmt.Errorf("%w: max iterations %d", ErrOptionViolation, n)
			return
		}
		o.maxIterations = n
	}
}

// WithRandomStart replaces the deterministic start vector with a seeded
// Gaussian one. Useful when a structured matrix happens to be orthogonal
// to the default start.
func WithRandomStart(seed uint64) Option {
	return func(o *options) {
		o.randomStart = true
		o.randomSeed = seed
	}
}

// Estimate runs the Lanczos iteration against h until both extremal
// eigenvalue estimates move less than precision (relative to the
// spread) between steps, then returns padded Bounds.
func Estimate(h *sparse.Hermitian, precision float64, opts ...Option) (Bounds, error) {
	if h == nil {
		return Bounds{}, sparse.ErrNilMatrix
	}
	if math.IsNaN(precision) || precision <= 0 {
		return Bounds{}, fmt.Errorf("%w: %g", ErrPrecision, precision)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return Bounds{}, o.err
	}
	return scalar.Match(h.ValuesRef(), scalar.Table[Bounds]{
		F32:  func([]float32) (Bounds, error) { return estimate[float32](h, precision, o) },
		F64:  func([]float64) (Bounds, error) { return estimate[float64](h, precision, o) },
		CF32: func([]complex64) (Bounds, error) { return estimate[complex64](h, precision, o) },
		CF64: func([]complex128) (Bounds, error) { return estimate[complex128](h, precision, o) },
	})
}

func estimate[T scalar.Numeric](h *sparse.Hermitian, precision float64, o options) (Bounds, error) {
	m, err := sparse.As[T](h)
	if err != nil {
		return Bounds{}, err
	}
	n := m.Rows()
	budget := o.maxIterations
	if budget > n {
		budget = n
	}

	v := startVector[T](n, o)
	basis := [][]T{v}
	var (
		alphas, betas []float64
		lo, hi        float64
		prevLo        = math.Inf(1)
		prevHi        = math.Inf(-1)
		w             = make([]T, n)
		converged     bool
	)
	for it := 0; it < budget; it++ {
		if _, err := m.MulVec(w, v); err != nil {
			return Bounds{}, err
		}
		alphas = append(alphas, scalar.RealPart(scalar.DotC(v, w)))

		// Full reorthogonalization: project w off every kept basis
		// vector (this removes the alpha*v and beta*v_prev terms too).
		for _, u := range basis {
			c := scalar.DotC(u, w)
			axpy(-c, u, w)
		}
		beta := scalar.Norm(w)

		lo, hi = triExtremes(alphas, betas)
		spread := hi - lo
		tol := precision * math.Max(spread, math.Max(math.Abs(lo), math.Abs(hi)))
		if tol == 0 {
			tol = precision
		}
		if beta < betaTiny*math.Max(1, math.Max(math.Abs(lo), math.Abs(hi))) {
			// Krylov space exhausted: the estimates are exact.
			converged = true
			break
		}
		if it >= 2 && math.Abs(lo-prevLo) <= tol && math.Abs(hi-prevHi) <= tol {
			converged = true
			break
		}
		prevLo, prevHi = lo, hi

		betas = append(betas, beta)
		next := make([]T, n)
		scale := scalar.FromReal[T](1 / beta)
		for i := range w {
			next[i] = w[i] * scale
		}
		basis = append(basis, next)
		v = next
	}
	if !converged && budget < n {
		return Bounds{}, fmt.Errorf("%w: %d iterations at precision %g", ErrNonConvergence, budget, precision)
	}
	// budget == n means the tridiagonalization covered the whole space,
	// so the extremes are exact regardless of the stabilization test.

	spread := hi - lo
	if math.IsNaN(spread) || math.IsInf(spread, 0) || spread <= 0 {
		return Bounds{}, fmt.Errorf("%w: estimated window [%g, %g]", ErrDegenerateSpectrum, lo, hi)
	}
	pad := paddingFraction * spread
	b := Bounds{MinEnergy: lo - pad, MaxEnergy: hi + pad}
	b.ScaleA = (b.MaxEnergy - b.MinEnergy) / 2
	b.ScaleB = (b.MaxEnergy + b.MinEnergy) / 2
	if b.ScaleA <= 0 || math.IsNaN(b.ScaleA) || math.IsInf(b.ScaleA, 0) {
		return Bounds{}, fmt.Errorf("%w: scale a = %g", ErrDegenerateSpectrum, b.ScaleA)
	}
	return b, nil
}

// startVector builds the normalized initial Lanczos vector: a fixed,
// reproducible one by default, or seeded Gaussian noise on request. The
// deterministic choice never has a zero component, so it overlaps every
// eigenvector of diagonal and banded fixtures.
func startVector[T scalar.Numeric](n int, o options) []T {
	v := make([]T, n)
	if o.randomStart {
		rng := rand.New(rand.NewSource(o.randomSeed))
		for i := range v {
			v[i] = scalar.FromReal[T](rng.NormFloat64())
		}
	} else {
		for i := range v {
			v[i] = scalar.FromReal[T](math.Cos(float64(i)) + 1.1)
		}
	}
	norm := scalar.Norm(v)
	inv := scalar.FromReal[T](1 / norm)
	for i := range v {
		v[i] *= inv
	}
	return v
}

// triExtremes returns the smallest and largest eigenvalue of the
// symmetric tridiagonal matrix with diagonal alphas and off-diagonal
// betas (len(betas) == len(alphas)-1).
func triExtremes(alphas, betas []float64) (lo, hi float64) {
	k := len(alphas)
	if k == 1 {
		return alphas[0], alphas[0]
	}
	tri := mat.NewSymDense(k, nil)
	for i, a := range alphas {
		tri.SetSym(i, i, a)
	}
	for i, b := range betas {
		tri.SetSym(i, i+1, b)
	}
	var es mat.EigenSym
	if !es.Factorize(tri, false) {
		// Factorization of a small symmetric tridiagonal cannot fail in
		// practice; fall back to Gershgorin so callers still get a
		// conservative window.
		lo, hi = math.Inf(1), math.Inf(-1)
		for i, a := range alphas {
			r := 0.0
			if i > 0 {
				r += math.Abs(betas[i-1])
			}
			if i < len(betas) {
				r += math.Abs(betas[i])
			}
			lo = math.Min(lo, a-r)
			hi = math.Max(hi, a+r)
		}
		return lo, hi
	}
	vals := es.Values(nil)
	return vals[0], vals[len(vals)-1]
}

func axpy[T scalar.Numeric](a T, x, y []T) {
	for i := range x {
		y[i] += a * x[i]
	}
}
