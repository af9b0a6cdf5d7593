// Command generate-golden writes the reference Fibonacci values used by the
// golden-file tests. The values come from a plain iterative oracle that
// shares no code with the calculators under test.
//
// With -check it compares an existing file against the oracle instead and
// exits non-zero when they differ.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

var goldenIndices = []uint64{0, 1, 2, 3, 10, 20, 50, 92, 93, 94, 100, 500, 1000, 2500, 5000}

type goldenEntry struct {
	N     uint64 `json:"n"`
	Value string `json:"value"`
}

type goldenFile struct {
	Description string        `json:"description"`
	Values      []goldenEntry `json:"values"`
}

// fibBig computes F(n) by iterating the recurrence.
func fibBig(n uint64) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for i := uint64(0); i < n; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}

// render returns the file contents for indices.
func render(indices []uint64) ([]byte, error) {
	g := goldenFile{Description: "Reference Fibonacci values generated by cmd/generate-golden"}
	for _, n := range indices {
		g.Values = append(g.Values, goldenEntry{N: n, Value: fibBig(n).String()})
	}
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// check reports whether the file at path is exactly what render produces.
func check(path string, indices []uint64) error {
	want, err := render(indices)
	if err != nil {
		return err
	}
	got, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%s is stale; rerun generate-golden", path)
	}
	return nil
}

func run(path string, verify bool) error {
	if verify {
		return check(path, goldenIndices)
	}
	data, err := render(goldenIndices)
	if err != nil {
		return fmt.Errorf("encoding golden values: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %d values to %s\n", len(goldenIndices), path)
	return nil
}

func main() {
	out := flag.String("o", filepath.Join("internal", "fibonacci", "testdata", "fibonacci_golden.json"), "Output path.")
	verify := flag.Bool("check", false, "Compare the file with the oracle instead of writing it.")
	flag.Parse()

	if err := run(*out, *verify); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
