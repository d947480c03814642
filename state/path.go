package state

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Path is an ordered list of keys. A key is a string or a number; Lists
// also accept numeric strings.
type Path []any

// P builds a Path.
func P(keys ...any) Path {
	return Path(keys)
}

func (p Path) String() string {
	var b strings.Builder
	for i, k := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%v", k)
	}
	return b.String()
}

// toPath normalizes the path argument accepted by the node operations: a
// single key, a Path, or a slice of keys.
func toPath(path any) (Path, error) {
	var p Path
	switch x := path.(type) {
	case nil:
		return nil, fmt.Errorf("%w: no keys", ErrInvalidPath)
	case Path:
		p = x
	case []any:
		p = Path(x)
	case []string:
		p = make(Path, len(x))
		for i, k := range x {
			p[i] = k
		}
	case []int:
		p = make(Path, len(x))
		for i, k := range x {
			p[i] = k
		}
	case string:
		if x == "" {
			return nil, fmt.Errorf("%w: empty key", ErrInvalidPath)
		}
		p = Path{x}
	case bool:
		if !x {
			return nil, fmt.Errorf("%w: no keys", ErrInvalidPath)
		}
		return nil, fmt.Errorf("%w: %T", ErrInvalidKeyType, x)
	default:
		if !isKey(x) {
			return nil, fmt.Errorf("%w: %T", ErrInvalidKeyType, x)
		}
		p = Path{x}
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: no keys", ErrInvalidPath)
	}
	for _, k := range p {
		if !isKey(k) {
			return nil, fmt.Errorf("%w: %T in path %v", ErrInvalidKeyType, k, p)
		}
	}
	return p, nil
}

func isKey(k any) bool {
	if k == nil {
		return false
	}
	if _, ok := k.(string); ok {
		return true
	}
	if reflect.TypeOf(k).Kind() == reflect.String {
		return true
	}
	return isNumber(k)
}

func isNumber(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// mapKey renders a key the way a Map stores it.
func mapKey(k any) string {
	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	return fmt.Sprint(k)
}

// parseIndex reads a List key with truncate-toward-zero semantics. Strings
// contribute their leading integer, if any.
func parseIndex(k any) (int, bool) {
	rv := reflect.ValueOf(k)
	switch rv.Kind() {
	case reflect.String:
		return parseIntPrefix(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, false
		}
		return int(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(math.Trunc(f)), true
	}
	return 0, false
}

func parseIntPrefix(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	i, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return i, true
}

// readKey resolves k for reading. ok is false when k cannot name an
// existing entry.
func (n *Node) readKey(k any) (any, bool) {
	if n.kind == MapKind {
		return mapKey(k), true
	}
	i, ok := parseIndex(k)
	if !ok {
		return nil, false
	}
	if i < 0 {
		i += len(n.l)
	}
	if i < 0 || i >= len(n.l) {
		return nil, false
	}
	return i, true
}

// writeKey resolves k for a write. List indices may address one past the
// end, which appends.
func (n *Node) writeKey(k any) (any, error) {
	if n.kind == MapKind {
		return mapKey(k), nil
	}
	i, ok := parseIndex(k)
	if !ok {
		return nil, fmt.Errorf("%w: list key %q is not a number", ErrInvalidKeyType, mapKey(k))
	}
	if i < 0 {
		i += len(n.l)
	}
	if i < 0 || i > len(n.l) {
		return nil, fmt.Errorf("%w: list index %v out of range for length %d", ErrInvalidKeyType, k, len(n.l))
	}
	return i, nil
}

// Get returns the value at path, or nil when any key along it is absent
// or nil.
func (n *Node) Get(path any) (any, error) {
	v, _, err := n.Lookup(path)
	return v, err
}

// Lookup is like Get but also reports whether the value is present, which
// separates an absent key from a key holding nil.
func (n *Node) Lookup(path any) (any, bool, error) {
	p, err := toPath(path)
	if err != nil {
		return nil, false, err
	}
	cur := n
	for i, k := range p {
		key, ok := cur.readKey(k)
		if !ok {
			return nil, false, nil
		}
		v, ok := cur.entry(key)
		if !ok {
			return nil, false, nil
		}
		if i == len(p)-1 {
			return v, true, nil
		}
		if v == nil {
			return nil, false, nil
		}
		next, isNode := v.(*Node)
		if !isNode {
			return nil, false, fmt.Errorf("%w: value at %v is %T", ErrNotACollection, p[:i+1], v)
		}
		cur = next
	}
	return nil, false, nil
}

func (n *Node) Has(path any) (bool, error) {
	_, ok, err := n.Lookup(path)
	return ok, err
}

// GetNode returns the node at path; it is an error for a present value
// there not to be a node.
func (n *Node) GetNode(path any) (*Node, error) {
	v, err := n.Get(path)
	if err != nil || v == nil {
		return nil, err
	}
	res, ok := v.(*Node)
	if !ok {
		return nil, fmt.Errorf("%w: value at %v is %T", ErrNotACollection, path, v)
	}
	return res, nil
}
