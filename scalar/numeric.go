// SPDX-License-Identifier: MIT
// Package scalar: the generic Numeric constraint and the small capability
// set (conjugate, absolute value, real part, embedding of reals) the rest
// of the pipeline is written against, so downstream algorithms never
// branch on tags after the initial dispatch.

package scalar

import "math"

// Numeric is the closed constraint over the four scalar kinds the KPM
// pipeline computes with. The set is intentionally exact (no ~): dispatch
// tables and views name these very types.
type Numeric interface {
	float32 | float64 | complex64 | complex128
}

// TagOf returns the Tag of the concrete type T.
func TagOf[T Numeric]() Tag {
	var v T
	switch any(v).(type) {
	case float32:
		return F32
	case float64:
		return F64
	case complex64:
		return CF32
	default:
		return CF64
	}
}

// Conj returns the complex conjugate of v; for real kinds it is v itself.
func Conj[T Numeric](v T) T {
	switch x := any(v).(type) {
	case complex64:
		return any(complex(real(x), -imag(x))).(T)
	case complex128:
		return any(complex(real(x), -imag(x))).(T)
	default:
		return v
	}
}

// Abs returns |v| as a float64.
func Abs[T Numeric](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return math.Abs(float64(x))
	case float64:
		return math.Abs(x)
	case complex64:
		return math.Hypot(float64(real(x)), float64(imag(x)))
	default:
		c := any(v).(complex128)
		return math.Hypot(real(c), imag(c))
	}
}

// RealPart returns the real part of v as a float64.
func RealPart[T Numeric](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	case complex64:
		return float64(real(x))
	default:
		return real(any(v).(complex128))
	}
}

// Complex128 widens v to a complex128.
func Complex128[T Numeric](v T) complex128 {
	switch x := any(v).(type) {
	case float32:
		return complex(float64(x), 0)
	case float64:
		return complex(x, 0)
	case complex64:
		return complex(float64(real(x)), float64(imag(x)))
	default:
		return any(v).(complex128)
	}
}

// FromReal embeds the real number x into the scalar kind T.
func FromReal[T Numeric](x float64) T {
	var v T
	switch any(v).(type) {
	case float32:
		return any(float32(x)).(T)
	case float64:
		return any(x).(T)
	case complex64:
		return any(complex(float32(x), 0)).(T)
	default:
		return any(complex(x, 0)).(T)
	}
}

// DotC returns the Hermitian inner product ⟨a, b⟩ = Σ conj(aᵢ)·bᵢ over
// the first min(len(a), len(b)) elements. For real kinds this is the
// ordinary dot product.
func DotC[T Numeric](a, b []T) T {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum T
	for i := 0; i < n; i++ {
		sum += Conj(a[i]) * b[i]
	}
	return sum
}

// Norm returns the Euclidean norm of v as a float64.
func Norm[T Numeric](v []T) float64 {
	var sum float64
	for _, x := range v {
		a := Abs(x)
		sum += a * a
	}
	return math.Sqrt(sum)
}
