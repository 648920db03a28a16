package fgk

// Update restores the sibling property after symbol has been searched
// (Search) or decoded (Descend). first must be the same
// first-appearance flag Search/the decoder observed for symbol.
//
// The NYT split's own weight-0-to-1 transition skips the generic
// maxNumInBlock/exchange check: a node created this instant cannot yet
// be out of order, and checking would require exchange to tolerate the
// brand-new node as one of its own arguments.
func (t *Tree) Update(symbol int, first bool) error {
	var current int32 = noIndex
	for {
		if first {
			idx, err := t.splitNYT(symbol)
			if err != nil {
				return err
			}
			current = idx
		} else {
			if current == noIndex {
				idx, ok := t.index[symbol]
				if !ok {
					return &InvariantViolationError{Msg: "node_of_symbol: no leaf for the given symbol"}
				}
				current = idx
			}
			if max := t.maxNumInBlock(t.nodes[current].weight); max != current && max != t.nodes[current].parent {
				t.exchange(current, max)
				current = max
			}
			t.nodes[current].weight++
		}

		parent := t.nodes[current].parent
		if parent == noIndex {
			break
		}
		current = parent
		first = false
	}
	return nil
}

// splitNYT turns the current NYT leaf into an internal node with two
// new children: a right leaf holding symbol (weight 1) and a new NYT
// leaf on the left (weight 0). It returns the arena index of the
// former NYT leaf, now internal, at which the update walk continues.
func (t *Tree) splitNYT(symbol int) (int32, error) {
	q := t.nyt
	if q == noIndex {
		return noIndex, &InvariantViolationError{Msg: "no NYT leaf present to split"}
	}
	qNum := t.nodes[q].num

	right := t.newNode(1, qNum-1, symbol)
	left := t.newNode(0, qNum-2, symbolNYT)

	t.nodes[q].left = left
	t.nodes[q].right = right
	t.nodes[left].parent = q
	t.nodes[right].parent = q
	t.nodes[q].symbol = symbolInternal
	t.nodes[q].weight = 1

	t.nyt = left
	t.index[symbol] = right

	return q, nil
}

// maxNumInBlock returns the arena index of the node with the largest
// num among all nodes of the given weight. Scanning the whole arena is
// a correctness-first choice; it is O(alphabet size) per call, which is
// fine up to a few hundred symbols.
func (t *Tree) maxNumInBlock(weight int) int32 {
	best := int32(-1)
	bestNum := -1
	for i := range t.nodes {
		if t.nodes[i].weight == weight && t.nodes[i].num > bestNum {
			bestNum = t.nodes[i].num
			best = int32(i)
		}
	}
	return best
}

// exchange swaps the structural positions of x and y: num and parent
// stay with the slot (position), while weight, symbol and the child
// pointers move with it (num travels with position, not with node
// identity). Children of the moved subtrees are re-parented, and the
// symbol index is updated for any leaf involved.
//
// Precondition (enforced by the only call site, Update): x and y are
// distinct, neither is the root, and neither is an ancestor of the
// other.
func (t *Tree) exchange(x, y int32) {
	nx, ny := t.nodes[x], t.nodes[y]

	nx.weight, ny.weight = ny.weight, nx.weight
	nx.symbol, ny.symbol = ny.symbol, nx.symbol
	nx.left, ny.left = ny.left, nx.left
	nx.right, ny.right = ny.right, nx.right

	t.nodes[x] = nx
	t.nodes[y] = ny

	t.reparentChildren(x)
	t.reparentChildren(y)
	t.reindexSymbol(x)
	t.reindexSymbol(y)
}

func (t *Tree) reparentChildren(idx int32) {
	n := t.nodes[idx]
	if n.left != noIndex {
		t.nodes[n.left].parent = idx
	}
	if n.right != noIndex {
		t.nodes[n.right].parent = idx
	}
}

func (t *Tree) reindexSymbol(idx int32) {
	if s := t.nodes[idx].symbol; s >= 0 {
		t.index[s] = idx
	}
}
