package state

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"sync/atomic"
)

type Node struct {
	kind Kind
	m    map[string]any
	l    []any

	tx    *Tx
	dirty bool
	view  atomic.Pointer[view]
}

// view is a cached plain projection of a node.
type view struct {
	v   any
	gen uint64
}

// NewMap builds a committed Map from a string keyed map, converting nested
// maps and slices into child nodes. Empty input (nil, false, 0, "") yields
// an empty Map.
func NewMap(data any) (*Node, error) {
	if isEmptyInput(data) {
		return newNode(MapKind, nil), nil
	}
	if n, ok := data.(*Node); ok {
		if n.kind != MapKind {
			return nil, fmt.Errorf("%w: cannot make a map from a %s", ErrInvalidInitialData, n.kind)
		}
		return n, nil
	}
	n, ok := convert(data, nil).(*Node)
	if !ok || n.kind != MapKind {
		return nil, fmt.Errorf("%w: cannot make a map from %T", ErrInvalidInitialData, data)
	}
	return n, nil
}

// NewList is like NewMap for slices and arrays.
func NewList(data any) (*Node, error) {
	if isEmptyInput(data) {
		return newNode(ListKind, nil), nil
	}
	if n, ok := data.(*Node); ok {
		if n.kind != ListKind {
			return nil, fmt.Errorf("%w: cannot make a list from a %s", ErrInvalidInitialData, n.kind)
		}
		return n, nil
	}
	n, ok := convert(data, nil).(*Node)
	if !ok || n.kind != ListKind {
		return nil, fmt.Errorf("%w: cannot make a list from %T", ErrInvalidInitialData, data)
	}
	return n, nil
}

func MustMap(data any) *Node {
	n, err := NewMap(data)
	if err != nil {
		panic(err)
	}
	return n
}

func MustList(data any) *Node {
	n, err := NewList(data)
	if err != nil {
		panic(err)
	}
	return n
}

// FromValue converts v into a value storable in a node: string keyed maps
// become Maps, slices and arrays become Lists (recursively), nodes and
// scalars are returned as they are.
func FromValue(v any) any {
	return convert(v, nil)
}

func isEmptyInput(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case *Node:
		return x == nil
	}
	if isNumber(v) {
		f, _ := toFloat(v)
		return f == 0
	}
	return false
}

func newNode(k Kind, tx *Tx) *Node {
	n := &Node{kind: k, tx: tx}
	if k == MapKind {
		n.m = map[string]any{}
	}
	return n
}

// convert deep-converts raw input. Nodes it creates are tagged with tx so
// the transaction can keep writing into them without cloning.
func convert(v any, tx *Tx) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *Node:
		if x == nil {
			return nil
		}
		return x
	case map[string]any:
		n := &Node{kind: MapKind, tx: tx, m: make(map[string]any, len(x))}
		for k, vv := range x {
			n.m[k] = convert(vv, tx)
		}
		return n
	case []any:
		n := &Node{kind: ListKind, tx: tx, l: make([]any, len(x))}
		for i, vv := range x {
			n.l[i] = convert(vv, tx)
		}
		return n
	case string, bool, int, int64, float64, []byte:
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		n := &Node{kind: ListKind, tx: tx, l: make([]any, rv.Len())}
		for i := range rv.Len() {
			n.l[i] = convert(rv.Index(i).Interface(), tx)
		}
		return n
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		n := &Node{kind: MapKind, tx: tx, m: make(map[string]any, rv.Len())}
		iter := rv.MapRange()
		for iter.Next() {
			n.m[iter.Key().String()] = convert(iter.Value().Interface(), tx)
		}
		return n
	}
	return v
}

// cloneFor returns n itself when it already belongs to tx, otherwise a
// shallow copy owned by tx. Children are shared with the original.
func (n *Node) cloneFor(tx *Tx) *Node {
	if n.tx == tx {
		return n
	}
	c := &Node{kind: n.kind, tx: tx}
	switch n.kind {
	case MapKind:
		c.m = maps.Clone(n.m)
		if c.m == nil {
			c.m = map[string]any{}
		}
	case ListKind:
		c.l = slices.Clone(n.l)
	}
	if v := n.cachedView(); v != nil {
		c.view.Store(&view{v: v.v, gen: tx.gen})
	}
	return c
}

// touch records a write into n, which must belong to a live transaction.
func (n *Node) touch() {
	n.dirty = true
	n.tx.gen++
	n.view.Store(nil)
}

// liveTx returns the transaction n was minted in, provided it is still
// live.
func (n *Node) liveTx() (*Tx, error) {
	if n.tx == nil || !n.tx.Live() {
		return nil, fmt.Errorf("%w: node belongs to a committed snapshot; edit it through Select or an Updater on the transaction's root", ErrNotInTransaction)
	}
	return n.tx, nil
}

func (n *Node) Kind() Kind {
	return n.kind
}

func (n *Node) IsMap() bool {
	return n.kind == MapKind
}

func (n *Node) IsList() bool {
	return n.kind == ListKind
}

// Dirty reports whether a value has been written into this clone.
func (n *Node) Dirty() bool {
	return n.dirty
}

// TxID returns the id of the transaction n was minted in, 0 for nodes
// built outside any transaction.
func (n *Node) TxID() uint32 {
	if n.tx == nil {
		return 0
	}
	return n.tx.id
}

func (n *Node) Size() int {
	if n.kind == ListKind {
		return len(n.l)
	}
	return len(n.m)
}

func (n *Node) Len() int {
	return n.Size()
}

// Keys returns the Map keys in sorted order, or the List indices as
// strings.
func (n *Node) Keys() []string {
	if n.kind == ListKind {
		res := make([]string, len(n.l))
		for i := range n.l {
			res[i] = strconv.Itoa(i)
		}
		return res
	}
	res := make([]string, 0, len(n.m))
	for k := range n.m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// entry returns the value under a resolved key: a string for Maps, an int
// for Lists.
func (n *Node) entry(key any) (any, bool) {
	if n.kind == ListKind {
		i := key.(int)
		if i < 0 || i >= len(n.l) {
			return nil, false
		}
		return n.l[i], true
	}
	v, ok := n.m[key.(string)]
	return v, ok
}

// put stores v under a resolved key. A List index equal to the length
// appends.
func (n *Node) put(key any, v any) {
	if n.kind == ListKind {
		i := key.(int)
		if i == len(n.l) {
			n.l = append(n.l, v)
			return
		}
		n.l[i] = v
		return
	}
	n.m[key.(string)] = v
}

func (n *Node) String() string {
	d, err := n.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s: %v>", n.kind, err)
	}
	return string(d)
}
