// SPDX-License-Identifier: MIT

// Package scalar provides the runtime scalar-type machinery shared by the
// whole KPM pipeline: type tags, non-owning array views, tag-restricted
// views, and dispatch tables that bind a generic algorithm to the concrete
// element type of a view — selected once, at the single point of entry.
//
// What
//
//   - Tag: a closed enumeration of scalar kinds (float32/64, complex64/128,
//     plus auxiliary bool/int kinds used for index and mask arrays).
//   - ArrayConstRef / ArrayRef: non-owning descriptions of a 1D or 2D
//     buffer (tag, row-major flag, data handle, rows, cols). A mutable ref
//     converts freely to a read-only one; the reverse is not provided.
//   - RealConstRef / ComplexConstRef (and mutable counterparts): views
//     statically restricted to a closed subset of tags; construction fails
//     with ErrTypeMismatch when the underlying tag is outside the set.
//   - Match / Match2 / Match2SamePrecision: dispatch combinators. Given a
//     view and a table with one typed function per numeric tag, the entry
//     matching the view's actual tag is invoked with the concrete slice.
//     A missing entry is a programming-contract violation (ErrNoMatch),
//     never a recoverable runtime condition.
//   - Numeric: the generic constraint (float32 | float64 | complex64 |
//     complex128) plus the capability helpers (Conj, Abs, RealPart,
//     FromReal, DotC) that let downstream algorithms be written once and
//     never re-check tags mid-pipeline.
//
// Why
//
//	Spectral algorithms must run identically over real/complex matrices in
//	single or double precision. Tables of generic instantiations keyed by
//	Tag replace per-type code duplication: the caller builds a Table whose
//	four fields are instantiations of one generic function, and Match picks
//	the right one at run time.
//
// Usage
//
//	ref := scalar.MakeConstRef([]float64{1, 2, 3})
//	view, err := scalar.Real(ref) // restricted to {F32, F64}
//	if err != nil { ... }
//	sum, err := scalar.Match(view, scalar.Table[float64]{
//		F32: func(v []float32) (float64, error) { return sum32(v), nil },
//		F64: func(v []float64) (float64, error) { return sum64(v), nil },
//	})
package scalar
