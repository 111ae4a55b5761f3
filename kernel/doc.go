// SPDX-License-Identifier: MIT

// Package kernel provides the damping kernels applied to raw Chebyshev
// moments before spectral reconstruction. Truncating the expansion at N
// moments produces Gibbs oscillations; a kernel trades resolution for
// their suppression.
//
// What
//
//   - Jackson(): the optimal general-purpose kernel,
//     gₙ = [(N−n+1)·cos(πn/(N+1)) + sin(πn/(N+1))·cot(π/(N+1))]/(N+1).
//   - Lorentz(λ): gₙ = sinh(λ(1−n/N))/sinh(λ), the kernel of choice for
//     Green's functions (it preserves the Lorentzian broadening shape);
//     larger λ sharpens the reconstruction but admits more noise.
//   - Coefficients(N): the damping factors for an N-moment expansion,
//     g₀ = 1 for both kernels.
//   - Damp: multiplies a moment slice by the factors in place, generic
//     over the four scalar kinds.
//   - RequiredMoments: the moment count needed to resolve a broadening
//     expressed in rescaled units (σ/a): ⌈π/σ̃⌉ for Jackson, ⌈λ/σ̃⌉ for
//     Lorentz.
//
// Both kernels are pure functions of (n, N, λ); nothing is retained
// between calls.
package kernel
