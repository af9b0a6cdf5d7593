package fibonacci

import (
	"sort"
	"strings"

	apperrors "github.com/agbru/fibtree/internal/errors"
	"github.com/agbru/fibtree/internal/logging"
)

// Calculator registry keys.
const (
	AlgoTree      = "tree"
	AlgoIterative = "iterative"
	// AlgoAll selects every registered calculator for a comparison run.
	AlgoAll = "all"
)

// optionalCalculators holds calculators compiled in behind build tags, keyed
// by registry name.
var optionalCalculators = map[string]func() Calculator{}

// registerOptional adds a build-tag calculator to every default factory. It
// is meant to be called from init.
func registerOptional(name string, ctor func() Calculator) {
	optionalCalculators[name] = ctor
}

// CalculatorFactory looks up calculators by name.
type CalculatorFactory interface {
	// Get returns the calculator registered under name.
	Get(name string) (Calculator, error)
	// MustGet is like Get but panics on unknown names.
	MustGet(name string) Calculator
	// List returns the registered names in sorted order.
	List() []string
}

// DefaultFactory is an immutable name-to-calculator registry.
type DefaultFactory struct {
	calculators map[string]Calculator
}

// Verify interface compliance.
var _ CalculatorFactory = (*DefaultFactory)(nil)

// NewFactory creates a factory over the given calculators.
func NewFactory(calculators map[string]Calculator) *DefaultFactory {
	m := make(map[string]Calculator, len(calculators))
	for k, v := range calculators {
		m[k] = v
	}
	return &DefaultFactory{calculators: m}
}

// NewDefaultFactory registers the tree and iterative calculators, sharing
// the given logger and instrumentation, plus any calculator enabled by build
// tags. Either argument may be nil.
func NewDefaultFactory(logger logging.Logger, instr Instrumentation) *DefaultFactory {
	calcs := map[string]Calculator{
		AlgoTree:      &TreeCalculator{Logger: logger, Instrumentation: instr},
		AlgoIterative: IterativeCalculator{},
	}
	for name, ctor := range optionalCalculators {
		calcs[name] = ctor()
	}
	return NewFactory(calcs)
}

// Get returns the calculator registered under name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	calc, ok := f.calculators[name]
	if !ok {
		return nil, apperrors.NewConfigError("unknown algorithm %q (available: %s)",
			name, strings.Join(f.List(), ", "))
	}
	return calc, nil
}

// MustGet returns the calculator registered under name and panics if there
// is none. It is intended for tests and static wiring.
func (f *DefaultFactory) MustGet(name string) Calculator {
	calc, err := f.Get(name)
	if err != nil {
		panic(err)
	}
	return calc
}

// List returns the registered names in sorted order.
func (f *DefaultFactory) List() []string {
	keys := make([]string, 0, len(f.calculators))
	for k := range f.calculators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
