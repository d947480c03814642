package state

import (
	"fmt"
	"slices"
)

func (n *Node) needList(op string) error {
	if n.kind != ListKind {
		return fmt.Errorf("%w: %s needs a List, got a %s", ErrNotACollection, op, n.kind)
	}
	return nil
}

// Push appends vs and returns the list holding them.
func (n *Node) Push(vs ...any) (*Node, error) {
	if err := n.needList("push"); err != nil {
		return nil, err
	}
	tx, err := n.liveTx()
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return n, nil
	}
	c := n.cloneFor(tx)
	for _, v := range vs {
		c.l = append(c.l, convert(v, tx))
	}
	c.touch()
	return c, nil
}

// Unshift prepends vs, keeping their order.
func (n *Node) Unshift(vs ...any) (*Node, error) {
	if err := n.needList("unshift"); err != nil {
		return nil, err
	}
	tx, err := n.liveTx()
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return n, nil
	}
	c := n.cloneFor(tx)
	head := make([]any, len(vs))
	for i, v := range vs {
		head[i] = convert(v, tx)
	}
	c.l = slices.Insert(c.l, 0, head...)
	c.touch()
	return c, nil
}

// Insert places vs before index i, shifting later elements up. i may
// equal the length, which appends, and negative i counts from the end.
func (n *Node) Insert(i int, vs ...any) (*Node, error) {
	if err := n.needList("insert"); err != nil {
		return nil, err
	}
	key, err := n.writeKey(i)
	if err != nil {
		return nil, err
	}
	tx, err := n.liveTx()
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return n, nil
	}
	c := n.cloneFor(tx)
	mid := make([]any, len(vs))
	for j, v := range vs {
		mid[j] = convert(v, tx)
	}
	c.l = slices.Insert(c.l, key.(int), mid...)
	c.touch()
	return c, nil
}

// Pop removes the last element. It returns the list, not the element.
func (n *Node) Pop() (*Node, error) {
	if err := n.needList("pop"); err != nil {
		return nil, err
	}
	return n.Remove(-1)
}

// Shift removes the first element.
func (n *Node) Shift() (*Node, error) {
	if err := n.needList("shift"); err != nil {
		return nil, err
	}
	return n.Remove(0)
}

// Slice returns a new List with the elements in [start, end). Negative
// bounds count from the end and out of range bounds are clamped. end is
// optional.
func (n *Node) Slice(start int, end ...int) (*Node, error) {
	if err := n.needList("slice"); err != nil {
		return nil, err
	}
	size := len(n.l)
	clamp := func(i int) int {
		if i < 0 {
			i += size
		}
		return max(0, min(i, size))
	}
	s, e := clamp(start), size
	if len(end) > 0 {
		e = clamp(end[0])
	}
	res := newNode(ListKind, nil)
	if s < e {
		res.l = slices.Clone(n.l[s:e])
	}
	return res, nil
}

// FindIndex returns the index of the first element f accepts, or -1.
func (n *Node) FindIndex(f func(value any, index int, coll *Node) bool) int {
	if n.kind != ListKind {
		return -1
	}
	for i, v := range n.l {
		if f(v, i, n) {
			return i
		}
	}
	return -1
}
