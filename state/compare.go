package state

import (
	"reflect"
)

// Equal reports whether a and b represent the same plain value. Identical
// nodes compare equal without being walked, which keeps comparisons of
// snapshots that share structure proportional to what differs. Numbers
// compare by value regardless of their Go type.
func Equal(a, b any) bool {
	if identical(a, b) {
		return true
	}
	an, aok := a.(*Node)
	bn, bok := b.(*Node)
	if aok != bok {
		return false
	}
	if aok {
		return equalNodes(an, bn)
	}
	if isNumber(a) && isNumber(b) {
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func equalNodes(a, b *Node) bool {
	if a.kind != b.kind || a.Size() != b.Size() {
		return false
	}
	if a.kind == ListKind {
		for i := range a.l {
			if !Equal(a.l[i], b.l[i]) {
				return false
			}
		}
		return true
	}
	for k, av := range a.m {
		bv, ok := b.m[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

// Equal reports whether n and other represent the same plain value.
func (n *Node) Equal(other *Node) bool {
	return Equal(n, other)
}

// Number reports whether v is a Go number and returns it as a float64.
func Number(v any) (float64, bool) {
	if !isNumber(v) {
		return 0, false
	}
	return toFloat(v)
}
