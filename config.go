// SPDX-License-Identifier: MIT
// Package kpm: functional configuration for the Greens engine. Defaults
// are named constants (single source of truth); invalid option values
// are recorded internally and surfaced as ErrOptionViolation from New.

package kpm

import (
	"fmt"
	"math"

	"github.com/spectralgo/kpm/kernel"
)

// Defaults.
const (
	// DefaultLanczosPrecision is the relative stabilization tolerance
	// for the spectral-bounds estimation (0.2%).
	DefaultLanczosPrecision = 0.002

	// DefaultOptimizationLevel applies every optimization whose results
	// are indistinguishable from the reference path.
	DefaultOptimizationLevel = MaxOptimizationLevel

	// MaxOptimizationLevel is the highest level understood:
	//   0 — reference: no reordering, full-size products every step;
	//   1 — seed reordering + a growing active window;
	//   2 — level 1 plus the shrinking tail window on off-diagonal
	//       recursions (entries that cannot propagate back to the seeds
	//       within the remaining steps are dropped).
	// Levels change Stats, never results.
	MaxOptimizationLevel = 2
)

// Option configures a Greens engine.
type Option func(*options)

type options struct {
	kern             kernel.Kernel
	optLevel         int
	lanczosPrecision float64
	minEnergy        float64
	maxEnergy        float64
	manualRange      bool
	numMoments       int // 0: derive from broadening and kernel
	err              error
}

func defaultOptions() options {
	// The Lorentz kernel is the default because the engine's primary
	// product is Green's functions, whose Lorentzian broadening it
	// preserves; pass WithKernel(kernel.Jackson()) for plain DOS work.
	lorentz, _ := kernel.Lorentz(kernel.DefaultLambda)
	return options{
		kern:             lorentz,
		optLevel:         DefaultOptimizationLevel,
		lanczosPrecision: DefaultLanczosPrecision,
	}
}

// WithKernel selects the damping kernel.
func WithKernel(k kernel.Kernel) Option {
	return func(o *options) { o.kern = k }
}

// WithOptimizationLevel selects the preprocessing strategy, 0 through
// MaxOptimizationLevel.
func WithOptimizationLevel(level int) Option {
	return func(o *options) {
		if level < 0 || level > MaxOptimizationLevel {
			o.err = fmt.Errorf("%w: optimization level %d", ErrOptionViolation, level)
			return
		}
		o.optLevel = level
	}
}

// WithLanczosPrecision sets the bounds-estimation tolerance (> 0).
func WithLanczosPrecision(p float64) Option {
	return func(o *options) {
		if math.IsNaN(p) || p <= 0 {
			o.err = fmt.Errorf("%w: lanczos precision %g", ErrOptionViolation, p)
			return
		}
		o.lanczosPrecision = p
	}
}

// WithEnergyRange supplies the spectral window manually, skipping the
// Lanczos estimation entirely. The window must contain the true
// spectrum; energies outside it reconstruct to zero.
func WithEnergyRange(min, max float64) Option {
	return func(o *options) {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) || min >= max {
			o.err = fmt.Errorf("%w: energy range [%g, %g]", ErrOptionViolation, min, max)
			return
		}
		o.minEnergy, o.maxEnergy, o.manualRange = min, max, true
	}
}

// WithNumMoments fixes the expansion length instead of deriving it from
// the requested broadening (>= 2).
func WithNumMoments(n int) Option {
	return func(o *options) {
		if n < 2 {
			o.err = fmt.Errorf("%w: %d", ErrMomentCount, n)
			return
		}
		o.numMoments = n
	}
}
