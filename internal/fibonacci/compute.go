package fibonacci

import (
	"math"
	"math/big"
)

// Compute returns F(index) using the iterative recurrence: starting from the
// pair (0, 1), it advances (a, b) to (b, a+b) exactly index times and returns
// a. It performs O(index) big-integer additions with two live values, runs on
// the calling goroutine and never starts concurrent work.
//
// Indices up to MaxUint64Index take a word-sized path that yields the same
// values without allocating intermediate big integers.
func Compute(index uint64) *big.Int {
	if index <= MaxUint64Index {
		return new(big.Int).SetUint64(computeSmall(index))
	}

	a, b := new(big.Int), big.NewInt(1)
	for i := uint64(0); i < index; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}

// computeSmall is the uint64 form of Compute. The caller guarantees
// index <= MaxUint64Index.
func computeSmall(index uint64) uint64 {
	var a, b uint64 = 0, 1
	for i := uint64(0); i < index; i++ {
		a, b = b, a+b
	}
	return a
}

// Digits returns the number of decimal digits of x, ignoring the sign.
// Zero has one digit.
func Digits(x *big.Int) int {
	if x == nil {
		return 0
	}
	s := x.Text(10)
	if len(s) > 0 && s[0] == '-' {
		return len(s) - 1
	}
	return len(s)
}

// EstimateDigits approximates the decimal digit count of F(n) from Binet's
// formula without computing it. The estimate is exact for all n >= 2 except
// within rounding of a power of ten.
func EstimateDigits(n uint64) int {
	if n < 2 {
		return 1
	}
	d := float64(n)*Log10Phi - Log10Sqrt5
	return int(math.Floor(d)) + 1
}
