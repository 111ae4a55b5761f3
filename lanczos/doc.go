// SPDX-License-Identifier: MIT

// Package lanczos estimates the extremal eigenvalues of a sparse
// Hermitian matrix and derives the affine rescaling that maps its
// spectrum into [-1, 1], as Chebyshev expansions require.
//
// What
//
//   - Estimate(h, precision, opts...) runs a Lanczos tridiagonalization
//     from a deterministic start vector (or a seeded random one via
//     WithRandomStart) until the smallest and largest eigenvalue
//     estimates stabilize within precision, then widens both ends by a
//     1% safety margin. Underestimating the spectral radius makes the
//     Chebyshev recursion diverge, so the padding always errs outward.
//   - Bounds carries {MinEnergy, MaxEnergy, ScaleA, ScaleB} with
//     ScaleA = (max−min)/2 and ScaleB = (max+min)/2; FromRange builds
//     the same thing from a user-supplied energy window, skipping the
//     iteration entirely.
//
// Stability policy
//
//	Every new Lanczos vector is reorthogonalized against the full kept
//	basis. Without reorthogonalization, lost orthogonality manufactures
//	spurious copies of converged eigenvalues ("ghosts") for long runs;
//	since the basis is retained for the tridiagonal assembly anyway and
//	the iteration cap is min(dim, 256), the full sweep is affordable and
//	removes ghosts entirely. Exceeding the cap without stabilizing is
//	reported as ErrNonConvergence, never silently accepted.
//
// Failure modes
//
//   - ErrNonConvergence: the iteration budget ran out; retry with a
//     coarser precision if approximate bounds are acceptable.
//   - ErrDegenerateSpectrum: the estimated spread collapsed to a point
//     (or went non-finite); a one-point spectrum cannot be rescaled.
package lanczos
