package fibonacci

const (
	// MaxUint64Index is the largest index whose Fibonacci number fits in a
	// uint64. F(93) = 12200160415121876738.
	MaxUint64Index = 93

	// DefaultIndex is the index computed when none is given on the command
	// line. F(400,000) has 83,595 decimal digits.
	DefaultIndex = 400_000

	// CalibrationN is the index used by budget calibration runs. It is large
	// enough for leaf arithmetic to dominate goroutine overhead while keeping
	// a full sweep within a few seconds.
	CalibrationN = 100_000

	// DefaultVerifyDigits is the number of trailing decimal digits compared
	// against modular fast doubling when verification is enabled.
	DefaultVerifyDigits = 64
)

const (
	// Log10Phi is log10 of the golden ratio. F(n) has roughly n*Log10Phi
	// decimal digits.
	Log10Phi = 0.20898764024997873

	// Log10Sqrt5 is log10(sqrt(5)), the constant term of Binet's formula in
	// log space.
	Log10Sqrt5 = 0.3494850021680094
)
