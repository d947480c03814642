package state

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewMap(t *testing.T) {
	type item struct {
		in   any
		want any
		err  error
	}
	items := map[string]item{
		"nil":   {in: nil, want: map[string]any{}},
		"false": {in: false, want: map[string]any{}},
		"zero":  {in: 0, want: map[string]any{}},
		"empty": {in: "", want: map[string]any{}},
		"map": {
			in:   map[string]any{"a": 1, "b": []any{"x", map[string]any{"c": true}}},
			want: map[string]any{"a": 1, "b": []any{"x", map[string]any{"c": true}}},
		},
		"typed map": {
			in:   map[string][]int{"a": {1, 2}},
			want: map[string]any{"a": []any{1, 2}},
		},
		"list":      {in: []any{1}, err: ErrInvalidInitialData},
		"string":    {in: "abc", err: ErrInvalidInitialData},
		"int map":   {in: map[int]any{1: 2}, err: ErrInvalidInitialData},
		"list node": {in: MustList([]any{1}), err: ErrInvalidInitialData},
	}
	for name, it := range items {
		t.Run(name, func(t *testing.T) {
			n, err := NewMap(it.in)
			if it.err != nil {
				if !errors.Is(err, it.err) {
					t.Fatalf("got %v, want %v", err, it.err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !n.IsMap() || n.TxID() != 0 {
				t.Errorf("got %s tagged %d", n.Kind(), n.TxID())
			}
			if diff := cmp.Diff(it.want, n.ToJSON()); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestNewList(t *testing.T) {
	n, err := NewList([3]string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{"a", "b", "c"}, n.ToJSON()); diff != "" {
		t.Error(diff)
	}
	if n.Size() != 3 || n.Len() != 3 || !n.IsList() {
		t.Errorf("size %d kind %s", n.Size(), n.Kind())
	}
	empty, err := NewList(nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty.Size() != 0 {
		t.Errorf("empty list has size %d", empty.Size())
	}
	if _, err := NewList(map[string]any{"a": 1}); !errors.Is(err, ErrInvalidInitialData) {
		t.Errorf("list from map: got %v", err)
	}
	same := MustList([]any{1})
	if got := MustList(same); got != same {
		t.Errorf("list node was copied")
	}
}

func TestFromValue(t *testing.T) {
	if got := FromValue("x"); got != "x" {
		t.Errorf("scalar: got %v", got)
	}
	b := []byte("raw")
	if got, ok := FromValue(b).([]byte); !ok || string(got) != "raw" {
		t.Errorf("bytes: got %#v", FromValue(b))
	}
	n, ok := FromValue([]int{1, 2}).(*Node)
	if !ok || !n.IsList() {
		t.Fatalf("slice: got %#v", FromValue([]int{1, 2}))
	}
	if got := FromValue([]int(nil)); got != nil {
		t.Errorf("nil slice: got %#v", got)
	}
}

func TestKeys(t *testing.T) {
	m := MustMap(map[string]any{"b": 1, "a": 2, "c": 3})
	if diff := cmp.Diff([]string{"a", "b", "c"}, m.Keys()); diff != "" {
		t.Error(diff)
	}
	l := MustList([]any{"x", "y"})
	if diff := cmp.Diff([]string{"0", "1"}, l.Keys()); diff != "" {
		t.Error(diff)
	}
}

func TestKindText(t *testing.T) {
	for _, k := range Kinds() {
		d, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Kind
		if err := back.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if back != k {
			t.Errorf("%s came back as %s", k, back)
		}
	}
	var k Kind
	err := k.UnmarshalText([]byte("Set"))
	if err == nil {
		t.Fatalf("unknown kind accepted")
	}
	if !strings.Contains(err.Error(), "[Map List]") {
		t.Errorf("error does not list kinds: %v", err)
	}
}

func TestFromJSON(t *testing.T) {
	n, err := FromJSON([]byte(`{"a":[1,2],"b":{"c":"x"},"d":null}`))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"a": []any{1.0, 2.0}, "b": map[string]any{"c": "x"}, "d": nil}
	if diff := cmp.Diff(want, n.ToJSON()); diff != "" {
		t.Error(diff)
	}
	d, err := n.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != `{"a":[1,2],"b":{"c":"x"},"d":null}` {
		t.Errorf("marshal: %s", d)
	}
	if n.String() != string(d) {
		t.Errorf("string: %s", n.String())
	}
	for _, bad := range []string{`3`, `"x"`, `null`, `{`} {
		if _, err := FromJSON([]byte(bad)); err == nil {
			t.Errorf("%s accepted", bad)
		}
	}
	if _, err := FromJSON([]byte(`true`)); !errors.Is(err, ErrInvalidInitialData) {
		t.Errorf("bool: got %v", err)
	}
}

func samePlain(a, b any) bool {
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

func TestProjectionCache(t *testing.T) {
	base := MustMap(map[string]any{
		"a": map[string]any{"x": 1},
		"b": map[string]any{"y": 2},
	})
	p1 := base.ToJSON()
	if !samePlain(p1, base.ToJSON()) {
		t.Errorf("projection rebuilt for an unchanged node")
	}
	next := mutate(t, base, func(root *Node) {
		must(t)(root.Set(P("a", "x"), 2))
	})
	p2 := next.ToJSON().(map[string]any)
	if samePlain(p1, p2) {
		t.Errorf("changed root reused its projection")
	}
	if !samePlain(p1.(map[string]any)["b"], p2["b"]) {
		t.Errorf("unchanged subtree projection rebuilt")
	}
	if diff := cmp.Diff(map[string]any{"x": 2}, p2["a"]); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff(map[string]any{"x": 1}, p1.(map[string]any)["a"]); diff != "" {
		t.Errorf("old projection changed: %s", diff)
	}
}

func TestProjectionInsideTx(t *testing.T) {
	base := MustMap(map[string]any{"a": map[string]any{"x": 1}})
	base.ToJSON()
	mutate(t, base, func(root *Node) {
		must(t)(root.Set(P("a", "x"), 2))
		if got, _ := root.ToJSON().(map[string]any)["a"].(map[string]any); got["x"] != 2 {
			t.Errorf("got %v", got)
		}
		a := must(t)(root.GetNode("a"))
		// a is owned by the tx, so this write does not touch root
		must(t)(a.Set("x", 3))
		if got, _ := root.ToJSON().(map[string]any)["a"].(map[string]any); got["x"] != 3 {
			t.Errorf("stale projection %v", got)
		}
	})
}

func TestProjectionCycle(t *testing.T) {
	mutate(t, MustMap(nil), func(root *Node) {
		must(t)(root.Set("self", root))
		m := root.ToJSON().(map[string]any)
		if !samePlain(m, m["self"]) {
			t.Errorf("cycle not preserved")
		}
	})
}
