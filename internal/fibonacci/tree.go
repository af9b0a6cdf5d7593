package fibonacci

import (
	"strconv"
	"strings"

	apperrors "github.com/agbru/fibtree/internal/errors"
)

// Tree is a decomposition of one Fibonacci computation into independently
// computable pieces. It is either a *Leaf or a *Pair; the set is closed.
//
// A Tree is immutable once built. Each child is owned by exactly one parent,
// so a tree has no shared nodes and no cycles.
type Tree interface {
	// String renders the tree as nested Leaf(...) and Pair(...) terms.
	String() string

	node()
}

// Leaf computes F(Index) directly with Compute.
type Leaf struct {
	Index uint64
}

// Pair evaluates Left and Right independently and adds the results. When
// built from index n, Left is the subtree for n-1 and Right for n-2.
type Pair struct {
	Left  Tree
	Right Tree
}

func (*Leaf) node() {}
func (*Pair) node() {}

func (l *Leaf) String() string {
	return "Leaf(" + strconv.FormatUint(l.Index, 10) + ")"
}

func (p *Pair) String() string {
	var sb strings.Builder
	writeTree(&sb, p)
	return sb.String()
}

func writeTree(sb *strings.Builder, t Tree) {
	switch n := t.(type) {
	case *Leaf:
		sb.WriteString(n.String())
	case *Pair:
		sb.WriteString("Pair(")
		writeTree(sb, n.Left)
		sb.WriteString(", ")
		writeTree(sb, n.Right)
		sb.WriteString(")")
	default:
		sb.WriteString("<nil>")
	}
}

// Build decomposes F(index) into a tree whose shape is driven by budget, the
// desired number of leaves.
//
// A budget of at most one yields a single leaf. Otherwise the node splits
// into Build(index-1, budget/2) and Build(index-2, budget/2): both branches
// receive the same halved budget, so every path has the same number of
// levels and the leaf count is a power of two that may differ from budget.
//
// Splitting a node whose index is below two would leave the non-negative
// domain; Build reports it as apperrors.DomainError rather than wrapping.
func Build(index, budget uint64) (Tree, error) {
	if budget <= 1 {
		return &Leaf{Index: index}, nil
	}
	if index < 2 {
		// index-1 already underflows at 0; at 1 it is index-2 that does.
		return nil, apperrors.DomainError{Index: index, Offset: index + 1, Budget: budget}
	}

	half := budget / 2
	left, err := Build(index-1, half)
	if err != nil {
		return nil, err
	}
	right, err := Build(index-2, half)
	if err != nil {
		return nil, err
	}
	return &Pair{Left: left, Right: right}, nil
}

// Size returns the number of leaves in t. A nil tree has no leaves.
func Size(t Tree) uint64 {
	switch n := t.(type) {
	case *Leaf:
		return 1
	case *Pair:
		if n == nil {
			return 0
		}
		return Size(n.Left) + Size(n.Right)
	default:
		return 0
	}
}

// Depth returns the number of pair levels on the longest root-to-leaf path.
// A single leaf has depth zero.
func Depth(t Tree) int {
	p, ok := t.(*Pair)
	if !ok || p == nil {
		return 0
	}
	return 1 + max(Depth(p.Left), Depth(p.Right))
}

// LevelCount returns how many times budget can be halved before it drops to
// one or below. It is the depth of any tree Build produces for that budget.
func LevelCount(budget uint64) int {
	levels := 0
	for budget > 1 {
		budget /= 2
		levels++
	}
	return levels
}

// FitBudget returns the largest budget obtained from budget by repeated
// halving for which Build(index, budget) succeeds. The smallest index split
// at level k is index-2k, so a tree with L levels is valid when
// index >= 2L. The result is at least min(budget, 1).
func FitBudget(index, budget uint64) uint64 {
	for budget > 1 && index < 2*uint64(LevelCount(budget)) {
		budget /= 2
	}
	return budget
}
