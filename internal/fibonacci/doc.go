// Package fibonacci computes Fibonacci numbers by decomposing one
// computation into a binary tree of independent sub-computations and
// evaluating that tree with fork-join concurrency.
//
// The building blocks are:
//
//   - Compute, the iterative base case used at every leaf.
//   - Build, which splits F(n) into F(n-1) + F(n-2) recursively until the
//     parallelism budget is spent, and Size/Depth to inspect the result.
//   - Evaluator, which forks one goroutine per pair and joins it before
//     adding the two halves.
//
// Decomposition deliberately recomputes overlapping values in separate
// leaves: total work grows with the budget in exchange for wall-clock time.
package fibonacci
