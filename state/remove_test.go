package state

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRemoveList(t *testing.T) {
	base := MustList([]any{1, 2})
	next := mutate(t, base, func(root *Node) {
		got := must(t)(root.Remove(5))
		if got != root || root.Dirty() {
			t.Errorf("out of range remove changed the list")
		}
		must(t)(root.Remove(-1))
	})
	if diff := cmp.Diff([]any{1}, next.ToJSON()); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]any{1, 2}, base.ToJSON()); diff != "" {
		t.Errorf("base changed: %s", diff)
	}
}

func TestRemove(t *testing.T) {
	base := MustMap(map[string]any{
		"a": map[string]any{"b": 1, "c": 2},
		"l": []any{"x", "y", "z"},
		"s": "str",
	})
	type item struct {
		path  any
		want  any
		dirty bool
		err   error
	}
	items := map[string]item{
		"map key": {
			path:  P("a", "b"),
			want:  map[string]any{"a": map[string]any{"c": 2}, "l": []any{"x", "y", "z"}, "s": "str"},
			dirty: true,
		},
		"list middle": {
			path:  P("l", 1),
			want:  map[string]any{"a": map[string]any{"b": 1, "c": 2}, "l": []any{"x", "z"}, "s": "str"},
			dirty: true,
		},
		"top": {
			path:  "s",
			want:  map[string]any{"a": map[string]any{"b": 1, "c": 2}, "l": []any{"x", "y", "z"}},
			dirty: true,
		},
		"absent key":    {path: "nope", want: base.ToJSON()},
		"absent parent": {path: P("x", "y"), want: base.ToJSON()},
		"list word":     {path: P("l", "w"), err: ErrInvalidKeyType},
		"list word deep": {
			path: P("l", "w", "v"),
			err:  ErrInvalidKeyType,
		},
		"through str": {path: P("s", "x"), err: ErrNotACollection},
		"nil path":    {path: nil, err: ErrInvalidPath},
	}
	for name, it := range items {
		t.Run(name, func(t *testing.T) {
			next := mutate(t, base, func(root *Node) {
				_, err := root.Delete(it.path)
				if it.err != nil {
					if !errors.Is(err, it.err) {
						t.Errorf("got %v, want %v", err, it.err)
					}
					return
				}
				if err != nil {
					t.Error(err)
				}
			})
			if next.Dirty() != it.dirty {
				t.Errorf("dirty %t", next.Dirty())
			}
			if it.err != nil {
				return
			}
			if diff := cmp.Diff(it.want, next.ToJSON()); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestRemoveShares(t *testing.T) {
	base := MustMap(map[string]any{
		"a": map[string]any{"b": 1},
		"c": map[string]any{"d": 2},
	})
	next := mutate(t, base, func(root *Node) {
		must(t)(root.Remove(P("a", "b")))
	})
	bc, _ := base.Get("c")
	nc, _ := next.Get("c")
	if bc != nc {
		t.Errorf("untouched subtree was copied")
	}
}
