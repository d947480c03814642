package state

// The traversal helpers never modify the receiver. Map keys are visited in
// sorted order; the key passed to callbacks is a string for Maps and an
// int for Lists.

func (n *Node) ForEach(f func(value any, key any, coll *Node)) {
	n.each(func(k, v any) {
		f(v, k, n)
	})
}

// Map returns a node of the same kind holding f's results.
func (n *Node) Map(f func(value any, key any, coll *Node) any) *Node {
	res := newNode(n.kind, nil)
	if n.kind == ListKind {
		res.l = make([]any, 0, len(n.l))
	}
	n.each(func(k, v any) {
		res.put(k, convert(f(v, k, n), nil))
	})
	return res
}

// Filter returns a node of the same kind holding the entries f accepts.
// Lists are compacted.
func (n *Node) Filter(f func(value any, key any, coll *Node) bool) *Node {
	res := newNode(n.kind, nil)
	n.each(func(k, v any) {
		if !f(v, k, n) {
			return
		}
		if n.kind == ListKind {
			res.l = append(res.l, v)
			return
		}
		res.m[k.(string)] = v
	})
	return res
}

// Find returns the first value f accepts.
func (n *Node) Find(f func(value any, key any, coll *Node) bool) (any, bool) {
	k, ok := n.FindKey(f)
	if !ok {
		return nil, false
	}
	v, _ := n.entry(k)
	return v, true
}

// FindKey returns the key of the first value f accepts.
func (n *Node) FindKey(f func(value any, key any, coll *Node) bool) (any, bool) {
	if n.kind == ListKind {
		for i, v := range n.l {
			if f(v, i, n) {
				return i, true
			}
		}
		return nil, false
	}
	for _, k := range n.Keys() {
		if f(n.m[k], k, n) {
			return k, true
		}
	}
	return nil, false
}

func (n *Node) Reduce(f func(acc, value any, key any, coll *Node) any, init any) any {
	acc := init
	n.each(func(k, v any) {
		acc = f(acc, v, k, n)
	})
	return acc
}
