package fgk

import (
	"fmt"
	"math"
	"sort"
)

// CheckInvariants verifies parent/weight consistency, that exactly one
// NYT leaf exists and holds the minimal num, and the sibling property,
// in that order. It is meant for tests and for Options.Paranoid, not
// for the hot path.
func (t *Tree) CheckInvariants() error {
	if err := t.checkParentConsistency(); err != nil {
		return err
	}
	if err := t.checkUniqueNYT(); err != nil {
		return err
	}
	return t.checkSiblingProperty()
}

func (t *Tree) checkParentConsistency() error {
	for i, n := range t.nodes {
		if n.left == noIndex && n.right == noIndex {
			continue
		}
		if n.left == noIndex || n.right == noIndex {
			return &InvariantViolationError{Msg: fmt.Sprintf("node %d has exactly one child", i)}
		}
		lw, rw := t.nodes[n.left].weight, t.nodes[n.right].weight
		if n.weight != lw+rw {
			return &InvariantViolationError{Msg: fmt.Sprintf("node %d weight %d != children weights %d+%d", i, n.weight, lw, rw)}
		}
		if t.nodes[n.left].parent != int32(i) || t.nodes[n.right].parent != int32(i) {
			return &InvariantViolationError{Msg: fmt.Sprintf("node %d's children do not point back to it", i)}
		}
	}
	return nil
}

func (t *Tree) checkUniqueNYT() error {
	var nytIdx int32 = noIndex
	count := 0
	minNum := math.MaxInt
	for i, n := range t.nodes {
		if n.num < minNum {
			minNum = n.num
		}
		if n.symbol == symbolNYT {
			count++
			nytIdx = int32(i)
		}
	}
	if count != 1 {
		return &InvariantViolationError{Msg: fmt.Sprintf("expected exactly one NYT leaf, found %d", count)}
	}
	if t.nodes[nytIdx].weight != 0 {
		return &InvariantViolationError{Msg: "NYT leaf has nonzero weight"}
	}
	if t.nodes[nytIdx].num != minNum {
		return &InvariantViolationError{Msg: "NYT leaf does not have the minimal num"}
	}
	return nil
}

// checkSiblingProperty is O(N log N) in the arena size: it ranks every
// non-root node by (weight, num) and checks that rank-adjacent pairs
// share a parent.
func (t *Tree) checkSiblingProperty() error {
	type ranked struct {
		idx    int32
		weight int
		num    int
	}
	ranks := make([]ranked, 0, len(t.nodes)-1)
	for i, n := range t.nodes {
		if int32(i) == t.root {
			continue
		}
		ranks = append(ranks, ranked{int32(i), n.weight, n.num})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].weight != ranks[j].weight {
			return ranks[i].weight < ranks[j].weight
		}
		return ranks[i].num < ranks[j].num
	})
	for i := 1; i < len(ranks); i++ {
		if ranks[i].num <= ranks[i-1].num {
			return &InvariantViolationError{Msg: "num is not strictly increasing in (weight, num) order"}
		}
	}
	for i := 0; i+1 < len(ranks); i += 2 {
		a, b := ranks[i], ranks[i+1]
		if t.nodes[a.idx].parent != t.nodes[b.idx].parent {
			return &InvariantViolationError{Msg: fmt.Sprintf("nodes %d and %d are adjacent in rank but not siblings", a.idx, b.idx)}
		}
	}
	return nil
}
