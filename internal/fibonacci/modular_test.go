package fibonacci

import (
	"math/big"
	"testing"
)

func TestFastDoublingMod_AgainstCompute(t *testing.T) {
	t.Parallel()
	moduli := []*big.Int{
		big.NewInt(1),
		big.NewInt(2),
		big.NewInt(10),
		big.NewInt(1_000_000_007),
		new(big.Int).SetUint64(1<<63 - 25), // largest word-path modulus in use
		new(big.Int).SetUint64(1 << 63),    // first modulus on the big path
		new(big.Int).Exp(big.NewInt(10), big.NewInt(DefaultVerifyDigits), nil),
	}
	for _, n := range []uint64{0, 1, 2, 3, 10, 93, 94, 100, 1000, 4097} {
		full := Compute(n)
		for _, m := range moduli {
			got, err := FastDoublingMod(n, m)
			if err != nil {
				t.Fatalf("FastDoublingMod(%d, %s): %v", n, m, err)
			}
			if want := new(big.Int).Mod(full, m); got.Cmp(want) != 0 {
				t.Errorf("FastDoublingMod(%d, %s) = %s, want %s", n, m, got, want)
			}
		}
	}
}

// TestFastDoublingMod_PathsAgree runs both arithmetic paths on the same
// modulus for indices far beyond what Compute can reach quickly.
func TestFastDoublingMod_PathsAgree(t *testing.T) {
	t.Parallel()
	const m = 998_244_353
	bm := big.NewInt(m)
	for _, n := range []uint64{1 << 20, 1<<40 + 7, 1<<63 + 12345, ^uint64(0)} {
		word := fibModWord(n, m)
		if slow := fibModBig(n, bm); slow.Uint64() != word {
			t.Errorf("n=%d: word path %d, big path %s", n, word, slow)
		}
	}
}

func TestFastDoublingMod_PisanoPeriod(t *testing.T) {
	t.Parallel()
	// F(n) mod 10 repeats with period 60.
	ten := big.NewInt(10)
	for n := uint64(0); n < 120; n++ {
		a, _ := FastDoublingMod(n, ten)
		b, _ := FastDoublingMod(n+60, ten)
		if a.Cmp(b) != 0 {
			t.Fatalf("F(%d) mod 10 = %s but F(%d) mod 10 = %s", n, a, n+60, b)
		}
	}
}

func TestFastDoublingMod_RejectsModulus(t *testing.T) {
	t.Parallel()
	for _, m := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		if _, err := FastDoublingMod(10, m); err == nil {
			t.Errorf("modulus %v accepted", m)
		}
	}
}

func TestVerifyLastDigits(t *testing.T) {
	t.Parallel()
	good := Compute(2000)
	tests := []struct {
		name    string
		n       uint64
		value   *big.Int
		k       int
		wantErr bool
	}{
		{"correct value", 2000, good, DefaultVerifyDigits, false},
		{"more digits than the value has", 10, big.NewInt(55), 10, false},
		{"off by one", 2000, new(big.Int).Add(good, big.NewInt(1)), DefaultVerifyDigits, true},
		{"wrong index", 1999, good, 8, true},
		{"nil value", 10, nil, 4, true},
		{"zero digits", 10, big.NewInt(55), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := VerifyLastDigits(tt.n, tt.value, tt.k)
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifyLastDigits error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
