// SPDX-License-Identifier: MIT
// Package kpm: the Greens engine. Lifecycle per logical session:
// Unbound (no matrix) -> Bound (matrix set, bounds computed lazily and
// cached) -> Ready (computations run, optimized states built and reused
// per seed set). Replacing the matrix swaps the cache wholesale:
// in-flight computations keep the snapshot they started with, new calls
// see only the new matrix.

package kpm

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"
	"time"

	"github.com/spectralgo/kpm/kernel"
	"github.com/spectralgo/kpm/lanczos"
	"github.com/spectralgo/kpm/scalar"
	"github.com/spectralgo/kpm/sparse"
)

// Greens computes Green's-function and density-of-states quantities of
// one bound sparse Hermitian matrix by Chebyshev moment expansion. Safe
// for concurrent use: the optimized-state cache is build-then-publish
// under the engine lock and the bound matrix is immutable.
type Greens struct {
	mu     sync.RWMutex
	opts   options
	h      *sparse.Hermitian
	bounds *lanczos.Bounds
	cache  map[string]any // cacheKey -> *optimized[T]
	stats  Stats
}

// snapshot pins the engine state one computation runs against.
type snapshot struct {
	h      *sparse.Hermitian
	cache  map[string]any
	bounds *lanczos.Bounds
}

// New builds an engine in the Unbound state.
func New(opts ...Option) (*Greens, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return &Greens{opts: o, cache: make(map[string]any)}, nil
}

// SetMatrix binds (or replaces) the matrix. All cached spectral bounds
// and optimized states are dropped; computations already in flight
// finish against the state they snapshotted.
func (g *Greens) SetMatrix(h *sparse.Hermitian) error {
	if h == nil {
		return sparse.ErrNilMatrix
	}
	g.mu.Lock()
	g.h = h
	g.bounds = nil
	g.cache = make(map[string]any)
	g.stats = Stats{}
	g.mu.Unlock()
	return nil
}

// Matrix returns the currently bound matrix, nil when Unbound.
func (g *Greens) Matrix() *sparse.Hermitian {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.h
}

// Stats returns a read-only copy of the most recent computation's cost.
func (g *Greens) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.stats
}

// Report renders the most recent Stats, one line when shortform is set.
func (g *Greens) Report(shortform bool) string {
	return g.Stats().report(shortform)
}

// Bounds returns the spectral bounds of the bound matrix, estimating
// them on first use (or derived from WithEnergyRange when given).
func (g *Greens) Bounds() (lanczos.Bounds, error) {
	sn, err := g.snapshotState()
	if err != nil {
		return lanczos.Bounds{}, err
	}
	return g.ensureBounds(&sn)
}

// LDOS computes the local density of states at one site over the given
// energies, damped by the engine's kernel at the given broadening.
func (g *Greens) LDOS(site int, energies []float64, broadening float64) ([]float64, error) {
	sn, err := g.snapshotState()
	if err != nil {
		return nil, err
	}
	if err := validateRequest(sn.h, energies, broadening, site); err != nil {
		return nil, err
	}
	b, err := g.ensureBounds(&sn)
	if err != nil {
		return nil, err
	}
	return dispatch(sn.h, scalarCase[[]float64]{
		f32:  func() ([]float64, error) { return ldosAs[float32](g, sn, b, site, energies, broadening) },
		f64:  func() ([]float64, error) { return ldosAs[float64](g, sn, b, site, energies, broadening) },
		cf32: func() ([]float64, error) { return ldosAs[complex64](g, sn, b, site, energies, broadening) },
		cf64: func() ([]float64, error) { return ldosAs[complex128](g, sn, b, site, energies, broadening) },
	})
}

// DOS computes the total density of states (the LDOS trace over every
// site) on the given energy grid.
func (g *Greens) DOS(energies []float64, broadening float64) ([]float64, error) {
	sn, err := g.snapshotState()
	if err != nil {
		return nil, err
	}
	if err := validateRequest(sn.h, energies, broadening); err != nil {
		return nil, err
	}
	b, err := g.ensureBounds(&sn)
	if err != nil {
		return nil, err
	}
	return dispatch(sn.h, scalarCase[[]float64]{
		f32:  func() ([]float64, error) { return dosAs[float32](g, sn, b, energies, broadening) },
		f64:  func() ([]float64, error) { return dosAs[float64](g, sn, b, energies, broadening) },
		cf32: func() ([]float64, error) { return dosAs[complex64](g, sn, b, energies, broadening) },
		cf64: func() ([]float64, error) { return dosAs[complex128](g, sn, b, energies, broadening) },
	})
}

// At computes the Green's function G(row, col; E) over the given
// energies. The result is complex regardless of the matrix kind;
// accumulation happens in double precision.
func (g *Greens) At(row, col int, energies []float64, broadening float64) ([]complex128, error) {
	sn, err := g.snapshotState()
	if err != nil {
		return nil, err
	}
	if err := validateRequest(sn.h, energies, broadening, row, col); err != nil {
		return nil, err
	}
	b, err := g.ensureBounds(&sn)
	if err != nil {
		return nil, err
	}
	return dispatch(sn.h, scalarCase[[]complex128]{
		f32:  func() ([]complex128, error) { return greensAs[float32](g, sn, b, row, col, energies, broadening) },
		f64:  func() ([]complex128, error) { return greensAs[float64](g, sn, b, row, col, energies, broadening) },
		cf32: func() ([]complex128, error) { return greensAs[complex64](g, sn, b, row, col, energies, broadening) },
		cf64: func() ([]complex128, error) { return greensAs[complex128](g, sn, b, row, col, energies, broadening) },
	})
}

// Vector computes the Green's functions G(row, col; E) for every
// requested column in one moments recursion seeded at row, instead of
// one At call per column. The result is indexed [column][energy].
func (g *Greens) Vector(row int, cols []int, energies []float64, broadening float64) ([][]complex128, error) {
	sn, err := g.snapshotState()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: empty column set", ErrInvalidIndex)
	}
	sites := append([]int{row}, cols...)
	if err := validateRequest(sn.h, energies, broadening, sites...); err != nil {
		return nil, err
	}
	b, err := g.ensureBounds(&sn)
	if err != nil {
		return nil, err
	}
	return dispatch(sn.h, scalarCase[[][]complex128]{
		f32:  func() ([][]complex128, error) { return vectorAs[float32](g, sn, b, row, cols, energies, broadening) },
		f64:  func() ([][]complex128, error) { return vectorAs[float64](g, sn, b, row, cols, energies, broadening) },
		cf32: func() ([][]complex128, error) { return vectorAs[complex64](g, sn, b, row, cols, energies, broadening) },
		cf64: func() ([][]complex128, error) { return vectorAs[complex128](g, sn, b, row, cols, energies, broadening) },
	})
}

// Moments returns num raw (undamped) Chebyshev trace moments over the
// given sites — every site when none are listed. Useful for fixtures
// and for callers who reconstruct with their own kernel.
func (g *Greens) Moments(num int, sites ...int) ([]float64, error) {
	sn, err := g.snapshotState()
	if err != nil {
		return nil, err
	}
	if num < 2 {
		return nil, fmt.Errorf("%w: %d", ErrMomentCount, num)
	}
	if len(sites) == 0 {
		sites = identity(sn.h.Dim())
	}
	for _, s := range sites {
		if s < 0 || s >= sn.h.Dim() {
			return nil, fmt.Errorf("%w: site %d for dimension %d", ErrInvalidIndex, s, sn.h.Dim())
		}
	}
	b, err := g.ensureBounds(&sn)
	if err != nil {
		return nil, err
	}
	return dispatch(sn.h, scalarCase[[]float64]{
		f32:  func() ([]float64, error) { return momentsAs[float32](g, sn, b, sites, num) },
		f64:  func() ([]float64, error) { return momentsAs[float64](g, sn, b, sites, num) },
		cf32: func() ([]float64, error) { return momentsAs[complex64](g, sn, b, sites, num) },
		cf64: func() ([]float64, error) { return momentsAs[complex128](g, sn, b, sites, num) },
	})
}

// DeferredLDOS packages an LDOS request as a zero-argument unit of work
// bound to the engine state at creation time. Invoking the thunk after
// SetMatrix still computes against the matrix captured here.
func (g *Greens) DeferredLDOS(site int, energies []float64, broadening float64) (*Thunk[[]float64], error) {
	sn, err := g.snapshotState()
	if err != nil {
		return nil, err
	}
	if err := validateRequest(sn.h, energies, broadening, site); err != nil {
		return nil, err
	}
	grid := append([]float64(nil), energies...)
	// The bound engine gets its own cache map: the live engine keeps
	// writing to sn.cache under its own lock, and two engines must not
	// share a mutable map across two mutexes.
	cache := make(map[string]any, len(sn.cache))
	g.mu.RLock()
	for k, v := range sn.cache {
		cache[k] = v
	}
	g.mu.RUnlock()
	bound := &Greens{opts: g.opts, h: sn.h, bounds: sn.bounds, cache: cache}
	return NewThunk(func() ([]float64, error) {
		return bound.LDOS(site, grid, broadening)
	}), nil
}

// --- internals ---------------------------------------------------------

// scalarCase is the per-kind continuation set one public operation
// dispatches into.
type scalarCase[R any] struct {
	f32, f64, cf32, cf64 func() (R, error)
}

// dispatch selects the continuation matching the matrix's scalar tag,
// going through the values view so the tag travels with the data.
func dispatch[R any](h *sparse.Hermitian, c scalarCase[R]) (R, error) {
	return scalar.Match(h.ValuesRef(), scalar.Table[R]{
		F32:  func([]float32) (R, error) { return c.f32() },
		F64:  func([]float64) (R, error) { return c.f64() },
		CF32: func([]complex64) (R, error) { return c.cf32() },
		CF64: func([]complex128) (R, error) { return c.cf64() },
	})
}

func (g *Greens) snapshotState() (snapshot, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.h == nil {
		return snapshot{}, ErrUnbound
	}
	return snapshot{h: g.h, cache: g.cache, bounds: g.bounds}, nil
}

func validateRequest(h *sparse.Hermitian, energies []float64, broadening float64, sites ...int) error {
	for _, s := range sites {
		if s < 0 || s >= h.Dim() {
			return fmt.Errorf("%w: site %d for dimension %d", ErrInvalidIndex, s, h.Dim())
		}
	}
	if len(energies) == 0 {
		return ErrNoEnergies
	}
	if math.IsNaN(broadening) || broadening <= 0 {
		return fmt.Errorf("%w: %g", ErrBroadening, broadening)
	}
	return nil
}

// ensureBounds returns the snapshot's bounds, estimating and publishing
// them on first use. A manual energy range bypasses Lanczos.
func (g *Greens) ensureBounds(sn *snapshot) (lanczos.Bounds, error) {
	if sn.bounds != nil {
		return *sn.bounds, nil
	}
	var (
		b   lanczos.Bounds
		err error
	)
	if g.opts.manualRange {
		b, err = lanczos.FromRange(g.opts.minEnergy, g.opts.maxEnergy)
	} else {
		b, err = lanczos.Estimate(sn.h, g.opts.lanczosPrecision)
	}
	if err != nil {
		return lanczos.Bounds{}, err
	}
	g.mu.Lock()
	if g.h == sn.h && g.bounds == nil {
		g.bounds = &b
	}
	g.mu.Unlock()
	sn.bounds = &b
	return b, nil
}

// optimizedFor returns the cached optimized state for the seed set,
// building and publishing it on a miss. The loser of a concurrent build
// race adopts the published winner.
func optimizedFor[T scalar.Numeric](g *Greens, sn snapshot, b lanczos.Bounds, seeds []int) (*optimized[T], error) {
	key := cacheKey(g.opts.optLevel, seeds)
	g.mu.RLock()
	st, ok := sn.cache[key]
	g.mu.RUnlock()
	if ok {
		return st.(*optimized[T]), nil
	}
	m, err := sparse.As[T](sn.h)
	if err != nil {
		return nil, err
	}
	o, err := buildOptimized(m, seeds, b, g.opts.optLevel >= 1)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	if st, ok := sn.cache[key]; ok {
		o = st.(*optimized[T])
	} else {
		sn.cache[key] = o
	}
	g.mu.Unlock()
	return o, nil
}

func (g *Greens) momentCount(b lanczos.Bounds, broadening float64) (int, error) {
	if g.opts.numMoments > 0 {
		return g.opts.numMoments, nil
	}
	return g.opts.kern.RequiredMoments(broadening / b.ScaleA)
}

func (g *Greens) setStats(num int, run momentsRun, matrixBytes uint64, elapsed time.Duration) {
	g.mu.Lock()
	g.stats = Stats{
		NumMoments:    num,
		NumOperations: run.ops,
		MatrixMemory:  matrixBytes,
		VectorMemory:  run.vectorBytes,
		Elapsed:       elapsed,
	}
	g.mu.Unlock()
}

func ldosAs[T scalar.Numeric](g *Greens, sn snapshot, b lanczos.Bounds, site int, energies []float64, broadening float64) ([]float64, error) {
	start := time.Now()
	o, err := optimizedFor[T](g, sn, b, []int{site})
	if err != nil {
		return nil, err
	}
	num, err := g.momentCount(b, broadening)
	if err != nil {
		return nil, err
	}
	momT, run, err := diagonalMoments(o, site, num)
	if err != nil {
		return nil, err
	}
	mom := make([]float64, num)
	for i, v := range momT {
		mom[i] = scalar.RealPart(v)
	}
	if err := kernel.Damp(g.opts.kern, mom); err != nil {
		return nil, err
	}
	out := reconstructDensity(mom, b, energies)
	g.setStats(num, run, o.matrix.MemoryBytes(), time.Since(start))
	return out, nil
}

func dosAs[T scalar.Numeric](g *Greens, sn snapshot, b lanczos.Bounds, energies []float64, broadening float64) ([]float64, error) {
	start := time.Now()
	sites := identity(sn.h.Dim())
	o, err := optimizedFor[T](g, sn, b, sites)
	if err != nil {
		return nil, err
	}
	num, err := g.momentCount(b, broadening)
	if err != nil {
		return nil, err
	}
	mom, run, err := traceMoments(o, sites, num)
	if err != nil {
		return nil, err
	}
	if err := kernel.Damp(g.opts.kern, mom); err != nil {
		return nil, err
	}
	out := reconstructDensity(mom, b, energies)
	g.setStats(num, run, o.matrix.MemoryBytes(), time.Since(start))
	return out, nil
}

func greensAs[T scalar.Numeric](g *Greens, sn snapshot, b lanczos.Bounds, row, col int, energies []float64, broadening float64) ([]complex128, error) {
	start := time.Now()
	seeds := []int{row, col}
	o, err := optimizedFor[T](g, sn, b, seeds)
	if err != nil {
		return nil, err
	}
	num, err := g.momentCount(b, broadening)
	if err != nil {
		return nil, err
	}
	var (
		momT []T
		run  momentsRun
	)
	if row == col {
		momT, run, err = diagonalMoments(o, row, num)
	} else {
		momT, run, err = generalMoments(o, row, col, num, g.opts.optLevel >= 2)
	}
	if err != nil {
		return nil, err
	}
	mom := make([]complex128, num)
	for i, v := range momT {
		mom[i] = scalar.Complex128(v)
	}
	if err := kernel.Damp(g.opts.kern, mom); err != nil {
		return nil, err
	}
	out := reconstructGreens(mom, b, energies)
	g.setStats(num, run, o.matrix.MemoryBytes(), time.Since(start))
	return out, nil
}

func vectorAs[T scalar.Numeric](g *Greens, sn snapshot, b lanczos.Bounds, row int, cols []int, energies []float64, broadening float64) ([][]complex128, error) {
	start := time.Now()
	seeds := append([]int{row}, cols...)
	o, err := optimizedFor[T](g, sn, b, seeds)
	if err != nil {
		return nil, err
	}
	num, err := g.momentCount(b, broadening)
	if err != nil {
		return nil, err
	}
	momT, run, err := vectorMoments(o, row, cols, num)
	if err != nil {
		return nil, err
	}
	out := make([][]complex128, len(cols))
	mom := make([]complex128, num)
	for j := range cols {
		for i, v := range momT[j] {
			mom[i] = scalar.Complex128(v)
		}
		if err := kernel.Damp(g.opts.kern, mom); err != nil {
			return nil, err
		}
		out[j] = reconstructGreens(mom, b, energies)
	}
	g.setStats(num, run, o.matrix.MemoryBytes(), time.Since(start))
	return out, nil
}

func momentsAs[T scalar.Numeric](g *Greens, sn snapshot, b lanczos.Bounds, sites []int, num int) ([]float64, error) {
	start := time.Now()
	o, err := optimizedFor[T](g, sn, b, sites)
	if err != nil {
		return nil, err
	}
	mom, run, err := traceMoments(o, sites, num)
	if err != nil {
		return nil, err
	}
	g.setStats(num, run, o.matrix.MemoryBytes(), time.Since(start))
	return mom, nil
}

// reconstructDensity evaluates the cosine series
//
//	f(E) = [g₀μ₀ + 2·Σ gₙμₙ·cos(n·arccos x)] / (π·a·√(1−x²))
//
// per energy, with x = (E−b)/a. Energies outside the spectral window
// reconstruct to 0. cos(nθ) runs on its own three-term recurrence.
func reconstructDensity(damped []float64, b lanczos.Bounds, energies []float64) []float64 {
	out := make([]float64, len(energies))
	for i, e := range energies {
		x := b.Rescaled(e)
		if x <= -1 || x >= 1 {
			continue
		}
		// cos(n·arccos x) satisfies the same recurrence as Tₙ(x).
		c0, c1 := 1.0, x
		sum := damped[0]
		for n := 1; n < len(damped); n++ {
			sum += 2 * damped[n] * c1
			c0, c1 = c1, 2*x*c1-c0
		}
		out[i] = sum / (math.Pi * b.ScaleA * math.Sqrt(1-x*x))
	}
	return out
}

// reconstructGreens evaluates the retarded Green's function series
//
//	G(E) = −2i·[g₀μ₀/2 + Σ gₙμₙ·e^(−inθ)] / (a·√(1−x²)), θ = arccos x.
//
// Its imaginary part reproduces −π times the density reconstruction.
// Energies outside the spectral window yield 0.
func reconstructGreens(damped []complex128, b lanczos.Bounds, energies []float64) []complex128 {
	out := make([]complex128, len(energies))
	for i, e := range energies {
		x := b.Rescaled(e)
		if x <= -1 || x >= 1 {
			continue
		}
		theta := math.Acos(x)
		w := cmplx.Exp(complex(0, -theta))
		sum := damped[0] / 2
		z := w
		for n := 1; n < len(damped); n++ {
			sum += damped[n] * z
			z *= w
		}
		out[i] = sum * complex(0, -2) / complex(b.ScaleA*math.Sqrt(1-x*x), 0)
	}
	return out
}
