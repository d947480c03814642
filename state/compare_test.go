package state

import "testing"

func TestEqual(t *testing.T) {
	shared := MustMap(map[string]any{"x": 1})
	type item struct {
		a, b any
		want bool
	}
	items := map[string]item{
		"nil":          {a: nil, b: nil, want: true},
		"strings":      {a: "a", b: "a", want: true},
		"int float":    {a: 1, b: 1.0, want: true},
		"int int64":    {a: 2, b: int64(2), want: true},
		"numbers":      {a: 1, b: 2, want: false},
		"str num":      {a: "1", b: 1, want: false},
		"same node":    {a: shared, b: shared, want: true},
		"equal maps":   {a: MustMap(map[string]any{"a": []any{1}}), b: MustMap(map[string]any{"a": []any{1.0}}), want: true},
		"diff maps":    {a: MustMap(map[string]any{"a": 1}), b: MustMap(map[string]any{"b": 1}), want: false},
		"map list":     {a: MustMap(nil), b: MustList(nil), want: false},
		"node scalar":  {a: shared, b: 1, want: false},
		"list lengths": {a: MustList([]any{1}), b: MustList([]any{1, 2}), want: false},
	}
	for name, it := range items {
		t.Run(name, func(t *testing.T) {
			if got := Equal(it.a, it.b); got != it.want {
				t.Errorf("got %t", got)
			}
		})
	}
	if !shared.Equal(MustMap(map[string]any{"x": 1})) {
		t.Errorf("method disagrees")
	}
}
