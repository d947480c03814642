package state

import (
	"encoding/json"
	"fmt"
)

// cachedView returns the cached projection if it is still valid.
func (n *Node) cachedView() *view {
	v := n.view.Load()
	if v == nil {
		return nil
	}
	if n.tx != nil && v.gen != n.tx.gen {
		return nil
	}
	return v
}

// ToJSON returns the plain projection of n: map[string]any for Maps and
// []any for Lists, with child nodes projected recursively. The result is
// cached and the same value is returned until n changes; callers must not
// modify it.
func (n *Node) ToJSON() any {
	return n.project(nil)
}

// ToJS is an alias of ToJSON.
func (n *Node) ToJS() any {
	return n.ToJSON()
}

// project builds the projection. seen holds the containers being built so
// a node reached again through a cycle yields its partial container.
func (n *Node) project(seen map[*Node]any) any {
	if v := n.cachedView(); v != nil {
		return v.v
	}
	if p, ok := seen[n]; ok {
		return p
	}
	if seen == nil {
		seen = map[*Node]any{}
	}
	var gen uint64
	if n.tx != nil {
		gen = n.tx.gen
	}
	var res any
	switch n.kind {
	case ListKind:
		l := make([]any, len(n.l))
		seen[n] = l
		for i, v := range n.l {
			l[i] = projectValue(v, seen)
		}
		res = l
	default:
		m := make(map[string]any, len(n.m))
		seen[n] = m
		for k, v := range n.m {
			m[k] = projectValue(v, seen)
		}
		res = m
	}
	delete(seen, n)
	old := n.view.Load()
	nv := &view{v: res, gen: gen}
	if n.view.CompareAndSwap(old, nv) {
		return res
	}
	if v := n.cachedView(); v != nil {
		return v.v
	}
	return res
}

func projectValue(v any, seen map[*Node]any) any {
	if c, ok := v.(*Node); ok {
		return c.project(seen)
	}
	return v
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToJSON())
}

// UnmarshalJSON replaces n's content with the decoded document, which must
// be an object or an array. n must not be shared yet.
func (n *Node) UnmarshalJSON(d []byte) error {
	var raw any
	if err := json.Unmarshal(d, &raw); err != nil {
		return err
	}
	res, ok := convert(raw, nil).(*Node)
	if !ok {
		return fmt.Errorf("%w: JSON %T is neither an object nor an array", ErrInvalidInitialData, raw)
	}
	n.kind = res.kind
	n.m = res.m
	n.l = res.l
	n.tx = nil
	n.dirty = false
	n.view.Store(nil)
	return nil
}

// FromJSON decodes a committed node from JSON text.
func FromJSON(d []byte) (*Node, error) {
	n := &Node{}
	if err := n.UnmarshalJSON(d); err != nil {
		return nil, err
	}
	return n, nil
}
