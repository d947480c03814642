package state

import (
	"fmt"

	"github.com/tianjianchn/stas/debug"
)

// MergeFunc combines the receiver's value with the incoming one for a
// single top-level key. key is a string for Maps and an int for Lists.
type MergeFunc func(prev, next any, key any) any

type mergeStrategy struct {
	deep bool
	fn   MergeFunc
}

func parseStrategy(s any) (mergeStrategy, error) {
	switch x := s.(type) {
	case bool:
		return mergeStrategy{deep: x}, nil
	case MergeFunc:
		if x != nil {
			return mergeStrategy{fn: x}, nil
		}
	case func(prev, next any, key any) any:
		if x != nil {
			return mergeStrategy{fn: x}, nil
		}
	}
	return mergeStrategy{}, fmt.Errorf("%w: want bool or MergeFunc, got %T", ErrInvalidMergeStrategy, s)
}

// Merge overwrites the receiver's entries with those of value.
func (n *Node) Merge(value any) (*Node, error) {
	return n.MergeWith(false, value)
}

// MergeDeep merges recursively wherever both sides hold nodes of the same
// kind and overwrites everywhere else.
func (n *Node) MergeDeep(value any) (*Node, error) {
	return n.MergeWith(true, value)
}

// MergeWith merges value into n using strategy: false for a shallow
// overwrite, true for a deep merge, or a MergeFunc applied per key of
// value. value must convert to a node of the same kind as n.
func (n *Node) MergeWith(strategy any, value any) (*Node, error) {
	strat, err := parseStrategy(strategy)
	if err != nil {
		return nil, err
	}
	other, ok := convert(value, nil).(*Node)
	if !ok {
		return nil, fmt.Errorf("%w: %T cannot be converted to a collection", ErrIncompatibleMergeType, value)
	}
	if other.kind != n.kind {
		return nil, fmt.Errorf("%w: cannot merge a %s into a %s", ErrIncompatibleMergeType, other.kind, n.kind)
	}
	tx, err := n.liveTx()
	if err != nil {
		return nil, err
	}
	if debug.Merge() {
		debug.Logf("merge (deep=%t fn=%t) in tx %d: %s\n", strat.deep, strat.fn != nil, tx.id, other)
	}
	return n.merge(tx, strat, other), nil
}

func (n *Node) merge(tx *Tx, strat mergeStrategy, other *Node) *Node {
	var c *Node
	other.each(func(key any, next any) {
		cur := n
		if c != nil {
			cur = c
		}
		prev, present := cur.entry(key)
		v := next
		switch {
		case strat.fn != nil:
			v = convert(strat.fn(prev, next, key), tx)
		case strat.deep:
			pn, pok := prev.(*Node)
			nn, nok := next.(*Node)
			if pok && nok && pn.kind == nn.kind {
				v = pn.merge(tx, strat, nn)
			}
		}
		if present && identical(prev, v) {
			return
		}
		if c == nil {
			c = n.cloneFor(tx)
		}
		c.put(key, v)
	})
	if c == nil {
		return n
	}
	c.touch()
	return c
}

// each visits entries in key order with resolved keys.
func (n *Node) each(f func(key any, v any)) {
	if n.kind == ListKind {
		for i, v := range n.l {
			f(i, v)
		}
		return
	}
	for _, k := range n.Keys() {
		f(k, n.m[k])
	}
}
