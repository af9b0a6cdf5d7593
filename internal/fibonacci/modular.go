package fibonacci

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
)

var errBadModulus = errors.New("modulus must be positive")

// FastDoublingMod returns F(n) mod m. Only values below m are ever held, so
// the cost is O(log n) multiplications of log(m)-bit numbers however large
// F(n) is. Moduli below 2^63 run entirely on machine words.
//
// Each step maps (F(k), F(k+1)) to (F(2k), F(2k+1)) with
//
//	F(2k)   = F(k) * (2*F(k+1) - F(k))
//	F(2k+1) = F(k)^2 + F(k+1)^2
//
// and then advances by one when the next bit of n is set.
func FastDoublingMod(n uint64, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, errBadModulus
	}
	if m.IsUint64() && m.Uint64() < 1<<63 {
		return new(big.Int).SetUint64(fibModWord(n, m.Uint64())), nil
	}
	return fibModBig(n, m), nil
}

// fibModWord is FastDoublingMod for m < 2^63, where a+b never overflows.
func fibModWord(n, m uint64) uint64 {
	mulmod := func(a, b uint64) uint64 {
		hi, lo := bits.Mul64(a, b)
		_, rem := bits.Div64(hi, lo, m)
		return rem
	}
	a, b := uint64(0), 1%m
	for i := bits.Len64(n) - 1; i >= 0; i-- {
		twoB := (2 * b) % m
		c := mulmod(a, (twoB+m-a)%m)
		d := (mulmod(a, a) + mulmod(b, b)) % m
		a, b = c, d
		if n>>uint(i)&1 == 1 {
			a, b = b, (a+b)%m
		}
	}
	return a
}

func fibModBig(n uint64, m *big.Int) *big.Int {
	a, b := new(big.Int), big.NewInt(1)
	c, d := new(big.Int), new(big.Int)
	for i := bits.Len64(n) - 1; i >= 0; i-- {
		c.Lsh(b, 1).Sub(c, a).Mod(c, m) // Mod is Euclidean, so c >= 0
		c.Mul(c, a).Mod(c, m)
		d.Mul(b, b)
		d.Add(d, a.Mul(a, a)).Mod(d, m)
		a, c = c, a
		b, d = d, b
		if n>>uint(i)&1 == 1 {
			c.Add(a, b).Mod(c, m)
			a, b, c = b, c, a
		}
	}
	return a
}

// VerifyLastDigits compares the last k decimal digits of result with
// F(n) mod 10^k computed independently by FastDoublingMod.
func VerifyLastDigits(n uint64, result *big.Int, k int) error {
	switch {
	case result == nil:
		return errors.New("no result to verify")
	case k <= 0:
		return fmt.Errorf("digit count must be positive, got %d", k)
	}

	mod := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(k)), nil)
	want, err := FastDoublingMod(n, mod)
	if err != nil {
		return err
	}
	if got := new(big.Int).Mod(result, mod); got.Cmp(want) != 0 {
		return fmt.Errorf("last %d digits of F(%d) differ: got %s, fast doubling gives %s", k, n, got, want)
	}
	return nil
}
