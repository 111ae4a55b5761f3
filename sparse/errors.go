// SPDX-License-Identifier: MIT
// Package sparse: sentinel error set. Algorithms return these sentinels
// and tests match them via errors.Is; context is added with %w wrapping
// at facade boundaries only.

package sparse

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid (rows or
	// cols <= 0) or a dense buffer does not cover it.
	ErrBadShape = errors.New("sparse: invalid shape")

	// ErrBadTriplets is returned when coordinate arrays disagree in
	// length.
	ErrBadTriplets = errors.New("sparse: triplet arrays of unequal length")

	// ErrOutOfRange indicates a row or column index outside the matrix.
	ErrOutOfRange = errors.New("sparse: index out of range")

	// ErrNaNInf signals a non-finite value at ingestion.
	ErrNaNInf = errors.New("sparse: NaN or Inf encountered")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("sparse: matrix is not square")

	// ErrNotHermitian signals that A[i,j] != conj(A[j,i]) beyond the
	// configured tolerance.
	ErrNotHermitian = errors.New("sparse: matrix is not Hermitian within eps")

	// ErrDimensionMismatch indicates an operand vector or permutation of
	// the wrong length.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrNilMatrix indicates a nil receiver or argument.
	ErrNilMatrix = errors.New("sparse: nil matrix")

	// ErrBadPermutation indicates a permutation that is not a bijection
	// over the matrix indices.
	ErrBadPermutation = errors.New("sparse: permutation is not a bijection")

	// ErrBadScale indicates a non-positive or non-finite rescale factor.
	ErrBadScale = errors.New("sparse: scale factor must be finite and > 0")
)
