package state

import (
	"fmt"
	"reflect"

	"github.com/tianjianchn/stas/debug"
)

// Updater computes a new value from the old one. Old child nodes are
// handed over already cloned into the running transaction, so the updater
// may edit them in place.
type Updater func(old any) (any, error)

func asUpdater(v any) (Updater, bool) {
	switch f := v.(type) {
	case Updater:
		return f, f != nil
	case func(any) (any, error):
		return f, f != nil
	case func(any) any:
		if f == nil {
			return nil, false
		}
		return func(old any) (any, error) { return f(old), nil }, true
	}
	return nil, false
}

// Set writes value at path and returns the node holding the result, which
// is n itself since n must already belong to the live transaction. value
// may be an Updater. Missing or nil intermediate values are replaced by
// empty Maps.
func (n *Node) Set(path any, value any) (*Node, error) {
	p, err := toPath(path)
	if err != nil {
		return nil, err
	}
	tx, err := n.liveTx()
	if err != nil {
		return nil, err
	}
	if debug.Path() {
		debug.Logf("set %s in tx %d\n", p, tx.id)
	}
	return n.setIn(tx, p, value)
}

// setIn may be called on any node reachable from a transaction's root. It
// clones n only if the write changes something.
func (n *Node) setIn(tx *Tx, p Path, value any) (*Node, error) {
	key, err := n.writeKey(p[0])
	if err != nil {
		return nil, err
	}
	old, present := n.entry(key)
	var next any
	if len(p) > 1 {
		child, err := n.childForWrite(tx, key, old, present, p[0])
		if err != nil {
			return nil, err
		}
		next, err = child.setIn(tx, p[1:], value)
		if err != nil {
			return nil, err
		}
	} else {
		next, err = tx.resolve(old, value)
		if err != nil {
			return nil, err
		}
	}
	if present && identical(old, next) {
		return n, nil
	}
	c := n.cloneFor(tx)
	c.put(key, next)
	c.touch()
	return c, nil
}

// childForWrite returns the node to descend into below key, synthesizing
// an empty Map for absent or nil values.
func (n *Node) childForWrite(tx *Tx, key, old any, present bool, rawKey any) (*Node, error) {
	if !present || old == nil {
		return newNode(MapKind, tx), nil
	}
	child, ok := old.(*Node)
	if !ok {
		return nil, fmt.Errorf("%w: value of key %s is %T", ErrNotACollection, mapKey(rawKey), old)
	}
	return child, nil
}

// resolve computes the value to store given the current one.
func (tx *Tx) resolve(old any, value any) (any, error) {
	up, ok := asUpdater(value)
	if !ok {
		return convert(value, tx), nil
	}
	arg := old
	var clone *Node
	if on, ok := old.(*Node); ok {
		clone = on.cloneFor(tx)
		arg = clone
	}
	res, err := up(arg)
	if err != nil {
		return nil, err
	}
	if rn, ok := res.(*Node); ok && clone != nil && rn == clone && !clone.dirty && clone != old {
		// untouched clone: keep the original
		return old, nil
	}
	return convert(res, tx), nil
}

// Select clones every node along path into the transaction, installs the
// clones in their parents and returns the last one for direct editing.
// Missing or nil values along the path become empty Maps.
func (n *Node) Select(path any) (*Node, error) {
	p, err := toPath(path)
	if err != nil {
		return nil, err
	}
	tx, err := n.liveTx()
	if err != nil {
		return nil, err
	}
	cur := n
	for _, k := range p {
		key, err := cur.writeKey(k)
		if err != nil {
			return nil, err
		}
		old, present := cur.entry(key)
		child, err := cur.childForWrite(tx, key, old, present, k)
		if err != nil {
			return nil, err
		}
		child = child.cloneFor(tx)
		if !present || !identical(old, child) {
			cur.put(key, child)
			cur.touch()
		}
		cur = child
	}
	return cur, nil
}

// identical is reference equality for nodes and == for comparable
// scalars.
func identical(a, b any) bool {
	an, aok := a.(*Node)
	bn, bok := b.(*Node)
	if aok || bok {
		return aok && bok && an == bn
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
