package state

import (
	"fmt"
	"slices"

	"github.com/tianjianchn/stas/debug"
)

// Remove deletes the entry at path. Removing from a List shifts the
// following elements down. An absent key leaves n unchanged.
func (n *Node) Remove(path any) (*Node, error) {
	p, err := toPath(path)
	if err != nil {
		return nil, err
	}
	tx, err := n.liveTx()
	if err != nil {
		return nil, err
	}
	if debug.Path() {
		debug.Logf("remove %s in tx %d\n", p, tx.id)
	}
	return n.removeIn(tx, p)
}

// Delete is an alias of Remove.
func (n *Node) Delete(path any) (*Node, error) {
	return n.Remove(path)
}

func (n *Node) removeIn(tx *Tx, p Path) (*Node, error) {
	if len(p) == 1 {
		return n.removeKey(tx, p[0])
	}
	key, ok := n.readKey(p[0])
	if !ok {
		if _, isIndex := parseIndex(p[0]); n.kind == ListKind && !isIndex {
			return nil, fmt.Errorf("%w: list key %q is not a number", ErrInvalidKeyType, mapKey(p[0]))
		}
		return n, nil
	}
	old, present := n.entry(key)
	if !present || old == nil {
		return n, nil
	}
	child, isNode := old.(*Node)
	if !isNode {
		return nil, fmt.Errorf("%w: value of key %s is %T", ErrNotACollection, mapKey(p[0]), old)
	}
	next, err := child.removeIn(tx, p[1:])
	if err != nil {
		return nil, err
	}
	if next == child {
		return n, nil
	}
	c := n.cloneFor(tx)
	c.put(key, next)
	c.touch()
	return c, nil
}

func (n *Node) removeKey(tx *Tx, k any) (*Node, error) {
	if n.kind == MapKind {
		key := mapKey(k)
		if _, ok := n.m[key]; !ok {
			return n, nil
		}
		c := n.cloneFor(tx)
		delete(c.m, key)
		c.touch()
		return c, nil
	}
	i, ok := parseIndex(k)
	if !ok {
		return nil, fmt.Errorf("%w: list key %q is not a number", ErrInvalidKeyType, mapKey(k))
	}
	if i < 0 {
		i += len(n.l)
	}
	if i < 0 || i >= len(n.l) {
		return n, nil
	}
	c := n.cloneFor(tx)
	c.l = slices.Delete(c.l, i, i+1)
	c.touch()
	return c, nil
}
