package query

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tianjianchn/stas/state"
)

var people = state.MustList([]any{
	map[string]any{"name": "ann", "age": 30},
	map[string]any{"name": "bob", "age": 20},
	map[string]any{"name": "cy", "age": 41},
})

func TestFilter(t *testing.T) {
	tags := state.MustMap(map[string]any{"x-a": 1, "x-b": 2, "y": 3})
	type item struct {
		src  string
		in   *state.Node
		want any
	}
	items := map[string]item{
		"field": {
			src: "value.age > 25",
			in:  people,
			want: []any{
				map[string]any{"name": "ann", "age": 30},
				map[string]any{"name": "cy", "age": 41},
			},
		},
		"key": {
			src:  `key startsWith "x-"`,
			in:   tags,
			want: map[string]any{"x-a": 1, "x-b": 2},
		},
		"collection": {
			src:  "key == len(collection) - 1",
			in:   people,
			want: []any{map[string]any{"name": "cy", "age": 41}},
		},
		"none": {
			src:  "false",
			in:   people,
			want: []any{},
		},
	}
	for name, it := range items {
		t.Run(name, func(t *testing.T) {
			q, err := Compile(it.src)
			if err != nil {
				t.Fatal(err)
			}
			res, err := q.Filter(it.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(it.want, res.ToJSON()); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestFilterShares(t *testing.T) {
	res, err := MustCompile(`value.name == "bob"`).Filter(people)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := people.Get(1)
	got, _ := res.Get(0)
	if got != want {
		t.Errorf("filtered entry was copied")
	}
}

func TestSelect(t *testing.T) {
	q, err := CompileSelect(`key + "=" + value`)
	if err != nil {
		t.Fatal(err)
	}
	res, err := q.Select(state.MustMap(map[string]any{"a": "x", "b": "y"}))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"a": "a=x", "b": "b=y"}, res.ToJSON()); diff != "" {
		t.Error(diff)
	}

	q, err = CompileSelect("kind(value)")
	if err != nil {
		t.Fatal(err)
	}
	in := state.MustList([]any{1, 2.5, "s", map[string]any{}, []any{}, nil, true})
	res, err = q.Select(in)
	if err != nil {
		t.Fatal(err)
	}
	want := []any{"number", "number", "string", "map", "list", "null", "bool"}
	if diff := cmp.Diff(want, res.ToJSON()); diff != "" {
		t.Error(diff)
	}
}

func TestFind(t *testing.T) {
	key, ok, err := MustCompile(`value.name == "cy"`).Find(people)
	if err != nil || !ok || key != 2 {
		t.Errorf("got %v %v %v", key, ok, err)
	}
	_, ok, err = MustCompile(`value.name == "dee"`).Find(people)
	if err != nil || ok {
		t.Errorf("got %v %v", ok, err)
	}
}

func TestErrors(t *testing.T) {
	for _, src := range []string{"value +", `"s"`, "nosuch > 1"} {
		if _, err := Compile(src); !errors.Is(err, ErrBadQuery) {
			t.Errorf("%q: got %v", src, err)
		}
	}
	q, err := CompileSelect("value")
	if err != nil {
		t.Fatal(err)
	}
	if q.IsPredicate() {
		t.Error("select compiled as predicate")
	}
	if _, err := q.Filter(state.MustList([]any{1})); !errors.Is(err, ErrBadQuery) {
		t.Errorf("got %v", err)
	}
}
