package libdiff

import (
	"strconv"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tianjianchn/stas/state"
)

// Diff returns the changes that turn from into to, in traversal order.
func Diff(from, to *state.Node) []Change {
	var res []Change
	diffValue(nil, from, to, &res)
	return res
}

func child(p state.Path, key any) state.Path {
	return append(p[:len(p):len(p)], key)
}

func diffValue(p state.Path, from, to any, res *[]Change) {
	fn, fok := from.(*state.Node)
	tn, tok := to.(*state.Node)
	switch {
	case fok && tok:
		if fn == tn {
			return
		}
		if fn.Kind() == tn.Kind() {
			if fn.IsMap() {
				diffMap(p, fn, tn, res)
			} else {
				diffList(p, fn, tn, res)
			}
			return
		}
	case !fok && !tok:
		if state.Equal(from, to) {
			return
		}
		fs, fsok := from.(string)
		ts, tsok := to.(string)
		if fsok && tsok {
			*res = append(*res, Change{Path: p, Op: Replace, From: from, To: to, Text: diffString(fs, ts)})
			return
		}
	}
	*res = append(*res, Change{Path: p, Op: Replace, From: from, To: to})
}

func diffString(from, to string) []diffpatch.Diff {
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(from, to, false)
	return dmp.DiffCleanupSemantic(diffs)
}

// diffMap aligns the sorted key sequences of both Maps.
func diffMap(p state.Path, from, to *state.Node, res *[]Change) {
	runes := map[string]rune{}
	fromKeys, toKeys := from.Keys(), to.Keys()
	fromVals, toVals := entries(from), entries(to)
	fromRunes := keyRunes(runes, fromKeys)
	toRunes := keyRunes(runes, toKeys)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)
	fi, ti := 0, 0
	for i := range diffs {
		diff := &diffs[i]
		n := len([]rune(diff.Text))
		switch diff.Type {
		case diffpatch.DiffDelete:
			for range n {
				k := fromKeys[fi]
				*res = append(*res, Change{Path: child(p, k), Op: Delete, From: fromVals[k]})
				fi++
			}
		case diffpatch.DiffEqual:
			for range n {
				k := fromKeys[fi]
				diffValue(child(p, k), fromVals[k], toVals[k], res)
				fi++
				ti++
			}
		case diffpatch.DiffInsert:
			for range n {
				k := toKeys[ti]
				*res = append(*res, Change{Path: child(p, k), Op: Insert, To: toVals[k]})
				ti++
			}
		}
	}
}

func entries(n *state.Node) map[string]any {
	res := make(map[string]any, n.Size())
	n.ForEach(func(v, k any, _ *state.Node) {
		res[k.(string)] = v
	})
	return res
}

func keyRunes(m map[string]rune, keys []string) []rune {
	rs := make([]rune, len(keys))
	for i, k := range keys {
		rs[i] = runeFor(m, k)
	}
	return rs
}

// runeFor assigns each distinct summary a rune, skipping the surrogate
// range, which does not survive conversion to a string.
func runeFor(m map[string]rune, s string) rune {
	r, ok := m[s]
	if !ok {
		r = rune(len(m)) + 1
		if r >= 0xD800 {
			r += 0x800
		}
		m[s] = r
	}
	return r
}

// diffList aligns elements by a summary: the value itself for scalars and
// the kind for nodes, so aligned nodes are diffed recursively. A run of
// deletions followed by a run of insertions pairs up into replacements.
func diffList(p state.Path, from, to *state.Node, res *[]Change) {
	runes := map[string]rune{}
	fromVals, toVals := values(from), values(to)
	fromRunes := make([]rune, len(fromVals))
	for i, v := range fromVals {
		fromRunes[i] = runeFor(runes, summary(v))
	}
	toRunes := make([]rune, len(toVals))
	for i, v := range toVals {
		toRunes[i] = runeFor(runes, summary(v))
	}
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)
	fi, ti := 0, 0
	for i := 0; i < len(diffs); i++ {
		diff := &diffs[i]
		n := len([]rune(diff.Text))
		switch diff.Type {
		case diffpatch.DiffDelete:
			ins := 0
			if i+1 < len(diffs) && diffs[i+1].Type == diffpatch.DiffInsert {
				ins = len([]rune(diffs[i+1].Text))
				i++
			}
			paired := min(n, ins)
			for range paired {
				diffValue(child(p, ti), fromVals[fi], toVals[ti], res)
				fi++
				ti++
			}
			for range n - paired {
				*res = append(*res, Change{Path: child(p, fi), Op: Delete, From: fromVals[fi]})
				fi++
			}
			for range ins - paired {
				*res = append(*res, Change{Path: child(p, ti), Op: Insert, To: toVals[ti]})
				ti++
			}
		case diffpatch.DiffEqual:
			for range n {
				diffValue(child(p, ti), fromVals[fi], toVals[ti], res)
				fi++
				ti++
			}
		case diffpatch.DiffInsert:
			for range n {
				*res = append(*res, Change{Path: child(p, ti), Op: Insert, To: toVals[ti]})
				ti++
			}
		}
	}
}

func values(n *state.Node) []any {
	res := make([]any, 0, n.Size())
	n.ForEach(func(v, _ any, _ *state.Node) {
		res = append(res, v)
	})
	return res
}

func summary(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case *state.Node:
		return x.Kind().String()
	case string:
		return "string-" + x
	case bool:
		return "bool-" + strconv.FormatBool(x)
	}
	if f, ok := state.Number(v); ok {
		return "number-" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "other"
}
