//go:build gmp

// GMP-backed calculator, compiled only with -tags=gmp. It needs libgmp on the
// host and cgo enabled.

package fibonacci

import (
	"context"
	"math/big"
	"math/bits"

	"github.com/ncw/gmp"
)

// AlgoGMP is the registry key of the GMP calculator.
const AlgoGMP = "gmp"

func init() {
	registerOptional(AlgoGMP, func() Calculator { return GMPCalculator{} })
}

// GMPCalculator computes F(n) by fast doubling on GMP integers. With -algo
// all it serves as an independent cross-check of the tree result.
type GMPCalculator struct{}

// Name returns the calculator's display name.
func (GMPCalculator) Name() string { return "GMP Fast Doubling" }

// Calculate computes F(n). The budget is ignored.
func (GMPCalculator) Calculate(_ context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, _ Options) (*big.Int, error) {
	report := newProgressCallback(progressChan, calcIndex)
	report(0)

	a, b := gmp.NewInt(0), gmp.NewInt(1)
	t1, t2 := gmp.NewInt(0), gmp.NewInt(0)
	steps := bits.Len64(n)
	for i := steps - 1; i >= 0; i-- {
		// (F(k), F(k+1)) -> (F(2k), F(2k+1))
		t1.MulUint32(b, 2)
		t1.Sub(t1, a)
		t1.Mul(a, t1)
		t2.Mul(a, a)
		a.Mul(b, b)
		t2.Add(t2, a)
		a.Set(t1)
		b.Set(t2)

		if (n>>uint(i))&1 == 1 {
			t1.Add(a, b)
			a.Set(b)
			b.Set(t1)
		}
		report(float64(steps-i) / float64(steps))
	}

	report(1)
	return new(big.Int).SetBytes(a.Bytes()), nil
}
