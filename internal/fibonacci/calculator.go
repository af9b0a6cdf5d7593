package fibonacci

import (
	"context"
	"math/big"
	"sync"

	"github.com/agbru/fibtree/internal/logging"
)

// progressBufferLimit caps the leaf-completion buffer of a TreeCalculator so
// that very large budgets do not allocate one slot per leaf up front.
const progressBufferLimit = 1024

// Options configures a calculation.
type Options struct {
	// Budget is the parallelism hint passed to Build. Zero or one evaluates
	// a single leaf.
	Budget uint64
	// SequentialThreshold folds subtrees of at most this many leaves into
	// sequential evaluation. Zero disables folding.
	SequentialThreshold uint64
}

// ProgressUpdate carries the progress of one calculator to the presentation
// layer.
type ProgressUpdate struct {
	// CalculatorIndex identifies the calculator among those running
	// concurrently.
	CalculatorIndex int
	// Value is the normalized progress, from 0.0 to 1.0.
	Value float64
}

// ProgressCallback receives normalized progress values.
type ProgressCallback func(progress float64)

// Calculator computes F(n) and reports progress on a channel.
type Calculator interface {
	// Calculate computes F(n). Progress updates are sent on progressChan,
	// tagged with calcIndex; the channel may be nil, and if it is not, the
	// caller must keep draining it until Calculate returns.
	Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (*big.Int, error)

	// Name returns a human-readable name for the calculator.
	Name() string
}

// TreeObserver is implemented by instrumentation that also records the
// shape of the trees a TreeCalculator builds.
type TreeObserver interface {
	TreeBuilt(leaves uint64, depth int)
}

func newProgressCallback(progressChan chan<- ProgressUpdate, calcIndex int) ProgressCallback {
	if progressChan == nil {
		return func(float64) {}
	}
	return func(v float64) {
		progressChan <- ProgressUpdate{CalculatorIndex: calcIndex, Value: v}
	}
}

// TreeCalculator builds a decomposition tree from the budget and evaluates
// it with fork-join concurrency.
type TreeCalculator struct {
	Logger          logging.Logger
	Instrumentation Instrumentation
}

// Name returns the calculator's display name.
func (c *TreeCalculator) Name() string { return "Decomposition Tree" }

// Calculate builds the tree for (n, opts.Budget) and evaluates it. Progress
// is the fraction of leaves completed. A budget that cannot be honoured for n
// fails with apperrors.DomainError before any arithmetic starts.
func (c *TreeCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, opts Options) (*big.Int, error) {
	logger := c.logger().With(logging.Uint64("n", n), logging.Uint64("budget", opts.Budget))

	tree, err := Build(n, opts.Budget)
	if err != nil {
		logger.Error("decomposition rejected", err)
		return nil, err
	}

	leaves, depth := Size(tree), Depth(tree)
	if obs, ok := c.Instrumentation.(TreeObserver); ok {
		obs.TreeBuilt(leaves, depth)
	}
	logger.Debug("decomposition tree built", logging.Uint64("leaves", leaves), logging.Int("depth", depth))

	report := newProgressCallback(progressChan, calcIndex)
	report(0)

	done := make(chan uint64, min(leaves, progressBufferLimit))
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var completed uint64
		for range done {
			completed++
			report(float64(completed) / float64(leaves))
		}
	}()

	evaluator := Evaluator{
		SequentialThreshold: opts.SequentialThreshold,
		OnLeaf:              func(index uint64) { done <- index },
		Instrumentation:     c.Instrumentation,
	}
	result, err := evaluator.Evaluate(ctx, tree)
	close(done)
	wg.Wait()

	if err != nil {
		logger.Error("tree evaluation failed", err)
		return nil, err
	}
	logger.Debug("tree evaluation finished", logging.Int("bits", result.BitLen()))
	return result, nil
}

func (c *TreeCalculator) logger() logging.Logger {
	if c.Logger == nil {
		return logging.Nop()
	}
	return c.Logger
}

// IterativeCalculator computes F(n) with Compute on a single goroutine. It
// is the sequential reference the tree result can be compared against.
type IterativeCalculator struct{}

// Name returns the calculator's display name.
func (IterativeCalculator) Name() string { return "Sequential Iteration" }

// Calculate computes F(n) directly. The budget is ignored.
func (IterativeCalculator) Calculate(_ context.Context, progressChan chan<- ProgressUpdate, calcIndex int, n uint64, _ Options) (*big.Int, error) {
	report := newProgressCallback(progressChan, calcIndex)
	report(0)
	result := Compute(n)
	report(1)
	return result, nil
}
