// SPDX-License-Identifier: MIT

// Package sparse provides the immutable compressed-sparse-row matrices
// the KPM pipeline consumes: a generic CSR over the closed scalar set and
// a tagged Hermitian wrapper that carries the runtime scalar.Tag.
//
// What
//
//   - CSR[T]: Values / ColIdx / RowPtr storage, built from coordinate
//     triplets (duplicates summed, columns sorted per row) or from a
//     dense row-major buffer. Once built, a CSR is never mutated;
//     derivations (Rescale, Permute) return new matrices.
//   - Windowed products: MulVecWindow computes rows [0, limit) only and
//     reports the number of nonzeros touched, which is how the moments
//     recursion confines work to the active submatrix.
//   - Hermitian: a closed tagged union over the four numeric CSR
//     instantiations, validated square and Hermitian at wrap time, with
//     a scalar.ArrayConstRef export of its values for dispatch.
//
// Why
//
//	Chebyshev moment recursion is nothing but repeated sparse mat-vec;
//	CSR keeps each row's nonzeros contiguous so the active-window trick
//	(rows below a growing bound) is a single loop-bound change.
//
// Determinism
//
//	Triplet assembly sorts columns within each row and sums duplicates,
//	so identical input sets produce identical storage regardless of
//	triplet order.
package sparse
