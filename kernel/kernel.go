// SPDX-License-Identifier: MIT
// Package kernel: Jackson and Lorentz damping kernels.

package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/spectralgo/kpm/scalar"
)

// DefaultLambda is the Lorentz sharpness used when no preference exists;
// the common compromise between resolution and noise.
const DefaultLambda = 4.0

// Sentinel errors.
var (
	// ErrLambda is returned for a non-positive or non-finite Lorentz λ.
	ErrLambda = errors.New("kernel: lambda must be finite and > 0")

	// ErrMomentCount is returned when a coefficient set is requested for
	// fewer than one moment.
	ErrMomentCount = errors.New("kernel: moment count must be >= 1")

	// ErrBroadening is returned for a non-positive scaled broadening.
	ErrBroadening = errors.New("kernel: scaled broadening must be > 0")
)

type kind uint8

const (
	jackson kind = iota
	lorentz
)

// Kernel is a closed damping-kernel variant: Jackson or Lorentz.
// The zero value is the Jackson kernel.
type Kernel struct {
	kind   kind
	lambda float64
}

// Jackson returns the Jackson kernel.
func Jackson() Kernel { return Kernel{kind: jackson} }

// Lorentz returns the Lorentz kernel with sharpness lambda.
func Lorentz(lambda float64) (Kernel, error) {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda <= 0 {
		return Kernel{}, fmt.Errorf("%w: %g", ErrLambda, lambda)
	}
	return Kernel{kind: lorentz, lambda: lambda}, nil
}

// String names the kernel variant.
func (k Kernel) String() string {
	if k.kind == lorentz {
		return fmt.Sprintf("Lorentz(λ=%g)", k.lambda)
	}
	return "Jackson"
}

// Coefficients returns the damping factors g₀..g₍ₙ₋₁₎ for an n-moment
// expansion. g₀ = 1 always.
func (k Kernel) Coefficients(n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrMomentCount, n)
	}
	g := make([]float64, n)
	switch k.kind {
	case lorentz:
		norm := math.Sinh(k.lambda)
		for i := 0; i < n; i++ {
			g[i] = math.Sinh(k.lambda*(1-float64(i)/float64(n))) / norm
		}
	default:
		np1 := float64(n + 1)
		cot := math.Cos(math.Pi/np1) / math.Sin(math.Pi/np1)
		for i := 0; i < n; i++ {
			x := math.Pi * float64(i) / np1
			g[i] = (float64(n-i+1)*math.Cos(x) + math.Sin(x)*cot) / np1
		}
	}
	return g, nil
}

// RequiredMoments derives the moment count that resolves a broadening
// given in rescaled spectral units (σ divided by the scale factor a).
// Jackson resolves π/N, Lorentz λ/N; both are clamped to at least 2.
func (k Kernel) RequiredMoments(scaledBroadening float64) (int, error) {
	if math.IsNaN(scaledBroadening) || scaledBroadening <= 0 {
		return 0, fmt.Errorf("%w: %g", ErrBroadening, scaledBroadening)
	}
	var n int
	if k.kind == lorentz {
		n = int(math.Ceil(k.lambda / scaledBroadening))
	} else {
		n = int(math.Ceil(math.Pi / scaledBroadening))
	}
	if n < 2 {
		n = 2
	}
	return n, nil
}

// Damp multiplies moments by the kernel's coefficients in place.
func Damp[T scalar.Numeric](k Kernel, moments []T) error {
	g, err := k.Coefficients(len(moments))
	if err != nil {
		return err
	}
	for i := range moments {
		moments[i] *= scalar.FromReal[T](g[i])
	}
	return nil
}
