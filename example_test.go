// SPDX-License-Identifier: MIT

package kpm_test

import (
	"fmt"

	"github.com/spectralgo/kpm"
	"github.com/spectralgo/kpm/kernel"
	"github.com/spectralgo/kpm/sparse"
)

// ExampleGreens computes the local density of states of a two-site
// dimer, whose eigenvalues sit at -1 and +1.
func ExampleGreens() {
	m, err := sparse.NewCSR(2, 2,
		[]int{0, 1}, []int{1, 0}, []float64{1, 1})
	if err != nil {
		panic(err)
	}
	h, err := sparse.Wrap(m, sparse.HermitianEps)
	if err != nil {
		panic(err)
	}

	g, err := kpm.New(kpm.WithKernel(kernel.Jackson()), kpm.WithEnergyRange(-2, 2))
	if err != nil {
		panic(err)
	}
	if err := g.SetMatrix(h); err != nil {
		panic(err)
	}

	ldos, err := g.LDOS(0, []float64{-1, 0, 1}, 0.05)
	if err != nil {
		panic(err)
	}
	fmt.Printf("peak at -1 exceeds midpoint: %v\n", ldos[0] > ldos[1])
	fmt.Printf("peak at +1 exceeds midpoint: %v\n", ldos[2] > ldos[1])
	// Output:
	// peak at -1 exceeds midpoint: true
	// peak at +1 exceeds midpoint: true
}
