package fibonacci

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/fibtree/internal/errors"
)

const tracerName = "github.com/agbru/fibtree/internal/fibonacci"

// Instrumentation receives evaluation events. Implementations must be safe
// for concurrent use; the evaluator calls them from every task.
type Instrumentation interface {
	// PairForked is called when a pair starts its second concurrent unit.
	PairForked()
	// PairJoined is called when both halves of a forked pair have finished.
	PairJoined()
	// LeafEvaluated is called after a leaf has been computed.
	LeafEvaluated(index uint64, elapsed time.Duration)
	// Evaluated is called once per Evaluate call with the outcome.
	Evaluated(leaves uint64, elapsed time.Duration, err error)
}

type nopInstrumentation struct{}

func (nopInstrumentation) PairForked()                            {}
func (nopInstrumentation) PairJoined()                            {}
func (nopInstrumentation) LeafEvaluated(uint64, time.Duration)    {}
func (nopInstrumentation) Evaluated(uint64, time.Duration, error) {}

// Evaluator walks a decomposition tree with structured fork-join
// concurrency. The zero value is ready to use.
//
// At a leaf it calls Compute on the current goroutine. At a pair it runs the
// left subtree on a new goroutine and the right subtree on the current one,
// then waits for the left before adding. Every pair therefore creates exactly
// one goroutine, and no goroutine outlives the pair that started it.
//
// Evaluation is never cancelled; ctx only carries trace spans.
type Evaluator struct {
	// SequentialThreshold folds any subtree with at most this many leaves
	// into sequential evaluation on the current goroutine. Zero disables
	// folding.
	SequentialThreshold uint64

	// OnLeaf, if set, is called after each leaf completes. It may be called
	// concurrently.
	OnLeaf func(index uint64)

	// Instrumentation receives evaluation events. Nil means none.
	Instrumentation Instrumentation

	// Tracer creates the evaluation spans. Nil uses the global provider.
	Tracer trace.Tracer
}

// Evaluate computes the value of t with a default Evaluator.
func Evaluate(ctx context.Context, t Tree) (*big.Int, error) {
	var e Evaluator
	return e.Evaluate(ctx, t)
}

// Evaluate computes the Fibonacci value represented by t. Any failure in a
// subtree aborts the whole evaluation with an apperrors.EvaluationError and
// a nil result; sibling tasks are still joined before Evaluate returns.
func (e *Evaluator) Evaluate(ctx context.Context, t Tree) (*big.Int, error) {
	leaves := Size(t)
	ctx, span := e.tracer().Start(ctx, "fibonacci.Evaluate",
		trace.WithAttributes(attribute.Int64("fib.leaves", int64(leaves))))
	defer span.End()

	start := time.Now()
	result, err := e.guarded(ctx, t, false)
	if err != nil {
		result = nil
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	e.instrumentation().Evaluated(leaves, time.Since(start), err)
	return result, err
}

// guarded evaluates t and converts a panic in this task into an
// EvaluationError.
func (e *Evaluator) guarded(ctx context.Context, t Tree, folded bool) (result *big.Int, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = apperrors.EvaluationError{Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	return e.eval(ctx, t, folded)
}

func (e *Evaluator) eval(ctx context.Context, t Tree, folded bool) (*big.Int, error) {
	switch n := t.(type) {
	case *Leaf:
		if n == nil {
			break
		}
		return e.evalLeaf(ctx, n), nil
	case *Pair:
		if n == nil {
			break
		}
		if !folded && e.SequentialThreshold > 0 && Size(n) <= e.SequentialThreshold {
			folded = true
		}
		if folded {
			return e.evalSequential(ctx, n)
		}
		return e.fork(ctx, n)
	}
	return nil, apperrors.EvaluationError{Cause: apperrors.ErrMalformedTree}
}

// fork evaluates both halves of p concurrently and joins them.
func (e *Evaluator) fork(ctx context.Context, p *Pair) (*big.Int, error) {
	ctx, span := e.tracer().Start(ctx, "fibonacci.pair")
	defer span.End()

	instr := e.instrumentation()
	instr.PairForked()

	var g errgroup.Group
	var left *big.Int
	g.Go(func() error {
		var err error
		left, err = e.guarded(ctx, p.Left, false)
		return err
	})
	right, rightErr := e.guarded(ctx, p.Right, false)
	leftErr := g.Wait()
	instr.PairJoined()

	if leftErr != nil {
		return nil, leftErr
	}
	if rightErr != nil {
		return nil, rightErr
	}
	return left.Add(left, right), nil
}

func (e *Evaluator) evalSequential(ctx context.Context, p *Pair) (*big.Int, error) {
	left, err := e.eval(ctx, p.Left, true)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(ctx, p.Right, true)
	if err != nil {
		return nil, err
	}
	return left.Add(left, right), nil
}

func (e *Evaluator) evalLeaf(ctx context.Context, l *Leaf) *big.Int {
	_, span := e.tracer().Start(ctx, "fibonacci.leaf",
		trace.WithAttributes(attribute.Int64("fib.index", int64(l.Index))))
	defer span.End()

	start := time.Now()
	v := Compute(l.Index)
	e.instrumentation().LeafEvaluated(l.Index, time.Since(start))
	if e.OnLeaf != nil {
		e.OnLeaf(l.Index)
	}
	return v
}

func (e *Evaluator) instrumentation() Instrumentation {
	if e.Instrumentation == nil {
		return nopInstrumentation{}
	}
	return e.Instrumentation
}

func (e *Evaluator) tracer() trace.Tracer {
	if e.Tracer == nil {
		return otel.Tracer(tracerName)
	}
	return e.Tracer
}
