package orchestration

import (
	"github.com/agbru/fibtree/internal/fibonacci"
)

// GetCalculatorsToRun resolves an algorithm name to the calculators to
// execute. fibonacci.AlgoAll selects every registered calculator in the
// factory's sorted order; an unknown name yields nil.
func GetCalculatorsToRun(algo string, factory fibonacci.CalculatorFactory) []fibonacci.Calculator {
	if algo == fibonacci.AlgoAll {
		keys := factory.List()
		calculators := make([]fibonacci.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(algo); err == nil {
		return []fibonacci.Calculator{calc}
	}
	return nil
}
