// SPDX-License-Identifier: MIT
// Package scalar: non-owning array views and their tag-restricted
// variants. A view never copies or owns its buffer; it records the tag,
// the layout, and the shape, and hands the concrete slice back out only
// through Data or a dispatch table.

package scalar

import (
	"errors"
	"fmt"
)

// Sentinel errors for view construction and dispatch.
var (
	// ErrTypeMismatch is returned when a view's tag falls outside the
	// tag set a restricted view or operation accepts. It signals a
	// programming-contract violation and is never silently coerced.
	ErrTypeMismatch = errors.New("scalar: array tag outside accepted type set")

	// ErrNoMatch is returned by Match/Match2 when no table entry covers
	// the view's actual tag (or tag pair).
	ErrNoMatch = errors.New("scalar: no matching type in dispatch table")

	// ErrBadShape is returned when rows/cols disagree with the buffer.
	ErrBadShape = errors.New("scalar: shape does not cover the buffer")
)

// ArrayConstRef is a read-only, non-owning reference to a 1D or 2D
// numeric buffer. Read-only is a contract, not an enforcement: holders
// of an ArrayConstRef must not mutate the underlying slice.
type ArrayConstRef struct {
	tag      Tag
	rowMajor bool
	data     any // the concrete slice, e.g. []float64
	rows     int
	cols     int
}

// ArrayRef is the mutable counterpart of ArrayConstRef.
type ArrayRef struct {
	tag      Tag
	rowMajor bool
	data     any
	rows     int
	cols     int
}

// MakeConstRef wraps a 1D slice as a read-only row-major view (1×len).
func MakeConstRef[T Numeric](v []T) ArrayConstRef {
	return ArrayConstRef{tag: TagOf[T](), rowMajor: true, data: v, rows: 1, cols: len(v)}
}

// MakeRef wraps a 1D slice as a mutable row-major view (1×len).
func MakeRef[T Numeric](v []T) ArrayRef {
	return ArrayRef{tag: TagOf[T](), rowMajor: true, data: v, rows: 1, cols: len(v)}
}

// MakeConstRef2D wraps a flat buffer as a read-only rows×cols view.
func MakeConstRef2D[T Numeric](v []T, rows, cols int, rowMajor bool) (ArrayConstRef, error) {
	if rows < 0 || cols < 0 || rows*cols != len(v) {
		return ArrayConstRef{}, fmt.Errorf("%w: %dx%d over %d elements", ErrBadShape, rows, cols, len(v))
	}
	return ArrayConstRef{tag: TagOf[T](), rowMajor: rowMajor, data: v, rows: rows, cols: cols}, nil
}

// MakeRef2D wraps a flat buffer as a mutable rows×cols view.
func MakeRef2D[T Numeric](v []T, rows, cols int, rowMajor bool) (ArrayRef, error) {
	if rows < 0 || cols < 0 || rows*cols != len(v) {
		return ArrayRef{}, fmt.Errorf("%w: %dx%d over %d elements", ErrBadShape, rows, cols, len(v))
	}
	return ArrayRef{tag: TagOf[T](), rowMajor: rowMajor, data: v, rows: rows, cols: cols}, nil
}

// Tag returns the scalar kind of the referenced buffer.
func (r ArrayConstRef) Tag() Tag { return r.tag }

// RowMajor reports the element layout of a 2D view.
func (r ArrayConstRef) RowMajor() bool { return r.rowMajor }

// Rows returns the row count (1 for 1D views).
func (r ArrayConstRef) Rows() int { return r.rows }

// Cols returns the column count.
func (r ArrayConstRef) Cols() int { return r.cols }

// Len returns the total element count.
func (r ArrayConstRef) Len() int { return r.rows * r.cols }

// Ref returns the view itself; it exists so restricted views and plain
// views satisfy the same dispatch entry point.
func (r ArrayConstRef) Ref() ArrayConstRef { return r }

// Tag returns the scalar kind of the referenced buffer.
func (r ArrayRef) Tag() Tag { return r.tag }

// RowMajor reports the element layout of a 2D view.
func (r ArrayRef) RowMajor() bool { return r.rowMajor }

// Rows returns the row count (1 for 1D views).
func (r ArrayRef) Rows() int { return r.rows }

// Cols returns the column count.
func (r ArrayRef) Cols() int { return r.cols }

// Len returns the total element count.
func (r ArrayRef) Len() int { return r.rows * r.cols }

// Const converts a mutable view into a read-only one. There is no
// conversion in the other direction.
func (r ArrayRef) Const() ArrayConstRef {
	return ArrayConstRef{tag: r.tag, rowMajor: r.rowMajor, data: r.data, rows: r.rows, cols: r.cols}
}

// Ref returns the read-only form of the view for dispatch.
func (r ArrayRef) Ref() ArrayConstRef { return r.Const() }

// Data extracts the concrete slice of a read-only view. The tag must
// equal TagOf[T]; otherwise ErrTypeMismatch is returned.
func Data[T Numeric](r ArrayConstRef) ([]T, error) {
	if r.tag != TagOf[T]() {
		return nil, fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, r.tag, TagOf[T]())
	}
	return r.data.([]T), nil
}

// MutData extracts the concrete slice of a mutable view.
func MutData[T Numeric](r ArrayRef) ([]T, error) {
	if r.tag != TagOf[T]() {
		return nil, fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, r.tag, TagOf[T]())
	}
	return r.data.([]T), nil
}

// View is the common surface of plain and restricted read-only views,
// consumed by the Match combinators.
type View interface {
	Ref() ArrayConstRef
}

// RealConstRef is an ArrayConstRef restricted to {F32, F64}.
type RealConstRef struct{ ArrayConstRef }

// ComplexConstRef is an ArrayConstRef restricted to the full numeric set
// {F32, F64, CF32, CF64}. The name follows the widest member: a real
// array is always acceptable where a complex one is.
type ComplexConstRef struct{ ArrayConstRef }

// RealRef is the mutable counterpart of RealConstRef.
type RealRef struct{ ArrayRef }

// ComplexRef is the mutable counterpart of ComplexConstRef.
type ComplexRef struct{ ArrayRef }

// Real restricts r to the real kinds {F32, F64}.
func Real(r ArrayConstRef) (RealConstRef, error) {
	if r.tag != F32 && r.tag != F64 {
		return RealConstRef{}, fmt.Errorf("%w: %s is not a real kind", ErrTypeMismatch, r.tag)
	}
	return RealConstRef{r}, nil
}

// Complex restricts r to the numeric kinds {F32, F64, CF32, CF64}.
func Complex(r ArrayConstRef) (ComplexConstRef, error) {
	if !r.tag.IsNumeric() {
		return ComplexConstRef{}, fmt.Errorf("%w: %s is not a numeric kind", ErrTypeMismatch, r.tag)
	}
	return ComplexConstRef{r}, nil
}

// RealMut restricts a mutable r to the real kinds {F32, F64}.
func RealMut(r ArrayRef) (RealRef, error) {
	if r.tag != F32 && r.tag != F64 {
		return RealRef{}, fmt.Errorf("%w: %s is not a real kind", ErrTypeMismatch, r.tag)
	}
	return RealRef{r}, nil
}

// ComplexMut restricts a mutable r to the numeric kinds.
func ComplexMut(r ArrayRef) (ComplexRef, error) {
	if !r.tag.IsNumeric() {
		return ComplexRef{}, fmt.Errorf("%w: %s is not a numeric kind", ErrTypeMismatch, r.tag)
	}
	return ComplexRef{r}, nil
}
