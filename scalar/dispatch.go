// SPDX-License-Identifier: MIT
// Package scalar: the Match combinators. A Table holds one typed function
// per numeric tag; Match invokes the entry matching the view's actual tag
// with the concrete slice. Nil entries define the declared set: a view
// whose tag has no entry is a contract violation (ErrNoMatch).

package scalar

import "fmt"

// Table binds one generic operation, instantiated per scalar kind, to a
// result type R. Entries left nil exclude the corresponding kind from the
// declared set.
type Table[R any] struct {
	F32  func([]float32) (R, error)
	F64  func([]float64) (R, error)
	CF32 func([]complex64) (R, error)
	CF64 func([]complex128) (R, error)
}

// Match selects the Table entry matching v's tag and invokes it with the
// concrete slice bound to v's memory. Returns ErrNoMatch when the tag has
// no entry; that is a programming error at the call site, not a condition
// to branch on.
func Match[R any](v View, t Table[R]) (R, error) {
	ref := v.Ref()
	switch ref.tag {
	case F32:
		if t.F32 != nil {
			return t.F32(ref.data.([]float32))
		}
	case F64:
		if t.F64 != nil {
			return t.F64(ref.data.([]float64))
		}
	case CF32:
		if t.CF32 != nil {
			return t.CF32(ref.data.([]complex64))
		}
	case CF64:
		if t.CF64 != nil {
			return t.CF64(ref.data.([]complex128))
		}
	}
	var zero R
	return zero, fmt.Errorf("%w: tag %s", ErrNoMatch, ref.tag)
}

// Table2 covers the Cartesian product of two numeric tag sets. Field
// names read left-kind then right-kind. Entries left nil exclude the
// corresponding pair.
type Table2[R any] struct {
	F32F32   func([]float32, []float32) (R, error)
	F32F64   func([]float32, []float64) (R, error)
	F32CF32  func([]float32, []complex64) (R, error)
	F32CF64  func([]float32, []complex128) (R, error)
	F64F32   func([]float64, []float32) (R, error)
	F64F64   func([]float64, []float64) (R, error)
	F64CF32  func([]float64, []complex64) (R, error)
	F64CF64  func([]float64, []complex128) (R, error)
	CF32F32  func([]complex64, []float32) (R, error)
	CF32F64  func([]complex64, []float64) (R, error)
	CF32CF32 func([]complex64, []complex64) (R, error)
	CF32CF64 func([]complex64, []complex128) (R, error)
	CF64F32  func([]complex128, []float32) (R, error)
	CF64F64  func([]complex128, []float64) (R, error)
	CF64CF32 func([]complex128, []complex64) (R, error)
	CF64CF64 func([]complex128, []complex128) (R, error)
}

// Match2 selects the Table2 entry matching the tag pair (a, b) and
// invokes it with both concrete slices. ErrNoMatch mirrors Match.
func Match2[R any](a, b View, t Table2[R]) (R, error) {
	ra, rb := a.Ref(), b.Ref()
	switch ra.tag {
	case F32:
		x := ra.data.([]float32)
		switch rb.tag {
		case F32:
			if t.F32F32 != nil {
				return t.F32F32(x, rb.data.([]float32))
			}
		case F64:
			if t.F32F64 != nil {
				return t.F32F64(x, rb.data.([]float64))
			}
		case CF32:
			if t.F32CF32 != nil {
				return t.F32CF32(x, rb.data.([]complex64))
			}
		case CF64:
			if t.F32CF64 != nil {
				return t.F32CF64(x, rb.data.([]complex128))
			}
		}
	case F64:
		x := ra.data.([]float64)
		switch rb.tag {
		case F32:
			if t.F64F32 != nil {
				return t.F64F32(x, rb.data.([]float32))
			}
		case F64:
			if t.F64F64 != nil {
				return t.F64F64(x, rb.data.([]float64))
			}
		case CF32:
			if t.F64CF32 != nil {
				return t.F64CF32(x, rb.data.([]complex64))
			}
		case CF64:
			if t.F64CF64 != nil {
				return t.F64CF64(x, rb.data.([]complex128))
			}
		}
	case CF32:
		x := ra.data.([]complex64)
		switch rb.tag {
		case F32:
			if t.CF32F32 != nil {
				return t.CF32F32(x, rb.data.([]float32))
			}
		case F64:
			if t.CF32F64 != nil {
				return t.CF32F64(x, rb.data.([]float64))
			}
		case CF32:
			if t.CF32CF32 != nil {
				return t.CF32CF32(x, rb.data.([]complex64))
			}
		case CF64:
			if t.CF32CF64 != nil {
				return t.CF32CF64(x, rb.data.([]complex128))
			}
		}
	case CF64:
		x := ra.data.([]complex128)
		switch rb.tag {
		case F32:
			if t.CF64F32 != nil {
				return t.CF64F32(x, rb.data.([]float32))
			}
		case F64:
			if t.CF64F64 != nil {
				return t.CF64F64(x, rb.data.([]float64))
			}
		case CF32:
			if t.CF64CF32 != nil {
				return t.CF64CF32(x, rb.data.([]complex64))
			}
		case CF64:
			if t.CF64CF64 != nil {
				return t.CF64CF64(x, rb.data.([]complex128))
			}
		}
	}
	var zero R
	return zero, fmt.Errorf("%w: tag pair (%s, %s)", ErrNoMatch, ra.tag, rb.tag)
}

// Match2SamePrecision behaves like Match2 but only considers pairs whose
// real-valued precision agrees, rejecting single/double mixtures that a
// numeric pipeline cannot combine meaningfully.
func Match2SamePrecision[R any](a, b View, t Table2[R]) (R, error) {
	ra, rb := a.Ref(), b.Ref()
	if ra.tag.Precision() != rb.tag.Precision() {
		var zero R
		return zero, fmt.Errorf("%w: mixed precision pair (%s, %s)", ErrNoMatch, ra.tag, rb.tag)
	}
	return Match2(a, b, t)
}
