package state

import (
	"fmt"
	"strings"

	"github.com/tianjianchn/stas/state/kpath"
)

// ParsePath converts kinded path text such as "todos[0].title" into a
// Path. Wildcards are rejected; use Match for those.
func ParsePath(text string) (Path, error) {
	kp, err := kpath.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	if kp == nil {
		return nil, fmt.Errorf("%w: no keys", ErrInvalidPath)
	}
	if kp.HasWildcard() {
		return nil, fmt.Errorf("%w: %q has a wildcard", ErrInvalidPath, text)
	}
	res := make(Path, 0, kp.Len())
	for x := kp; x != nil; x = x.Next {
		switch {
		case x.Field != nil:
			res = append(res, *x.Field)
		case x.Index != nil:
			res = append(res, *x.Index)
		}
	}
	return res, nil
}

// GetKPath is Get with a kinded path. The empty path yields n.
func (n *Node) GetKPath(text string) (any, error) {
	if text == "" {
		return n, nil
	}
	p, err := ParsePath(text)
	if err != nil {
		return nil, err
	}
	return n.Get(p)
}

// Match returns the concrete paths below n that the kinded path text
// matches, expanding wildcards, in traversal order. A field segment
// only matches Maps and an index segment only matches Lists.
func (n *Node) Match(text string) ([]Path, error) {
	kp, err := kpath.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	var res []Path
	n.match(kp, nil, &res)
	return res, nil
}

func (n *Node) match(kp *kpath.KPath, prefix Path, res *[]Path) {
	if kp == nil {
		*res = append(*res, prefix)
		return
	}
	visit := func(key any, v any) {
		p := append(prefix[:len(prefix):len(prefix)], key)
		if kp.Next == nil {
			*res = append(*res, p)
			return
		}
		if c, ok := v.(*Node); ok {
			c.match(kp.Next, p, res)
		}
	}
	switch {
	case kp.FieldAll && n.kind == MapKind, kp.IndexAll && n.kind == ListKind:
		n.each(visit)
	case kp.Field != nil && n.kind == MapKind:
		if v, ok := n.m[*kp.Field]; ok {
			visit(*kp.Field, v)
		}
	case kp.Index != nil && n.kind == ListKind:
		if key, ok := n.readKey(*kp.Index); ok {
			visit(key, n.l[key.(int)])
		}
	}
}

// FormatPath renders p as kinded path text: numeric keys as indices and
// everything else as fields.
func FormatPath(p Path) string {
	var b strings.Builder
	for _, k := range p {
		if i, ok := parseIndex(k); ok && isNumber(k) {
			fmt.Fprintf(&b, "[%d]", i)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(kpath.QuoteField(mapKey(k)))
	}
	return b.String()
}
