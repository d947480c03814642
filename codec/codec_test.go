package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/tianjianchn/stas/format"
	"github.com/tianjianchn/stas/state"
)

func noColor(t *testing.T, v bool) {
	old := color.NoColor
	color.NoColor = v
	t.Cleanup(func() { color.NoColor = old })
}

func TestDecode(t *testing.T) {
	type item struct {
		in   string
		f    format.Format
		want any
		err  bool
	}
	items := map[string]item{
		"json": {
			in:   `{"a":[1,2],"b":null}`,
			f:    format.JSONFormat,
			want: map[string]any{"a": []any{1.0, 2.0}, "b": nil},
		},
		"yaml": {
			in:   "a: [1, -2]\nb: x\nc: null\nd: 1.5\n",
			f:    format.YAMLFormat,
			want: map[string]any{"a": []any{1, -2}, "b": "x", "c": nil, "d": 1.5},
		},
		"yaml reads json": {
			in:   `{"a": {"b": true}}`,
			f:    format.YAMLFormat,
			want: map[string]any{"a": map[string]any{"b": true}},
		},
		"yaml scalar":   {in: "hello", f: format.YAMLFormat, want: "hello"},
		"json trailing": {in: `{} {}`, f: format.JSONFormat, err: true},
		"json broken":   {in: `{"a":`, f: format.JSONFormat, err: true},
		"bad format":    {in: `{}`, f: format.Format(9), err: true},
	}
	for name, it := range items {
		t.Run(name, func(t *testing.T) {
			got, err := Decode([]byte(it.in), it.f)
			if it.err {
				if err == nil {
					t.Fatalf("decoded %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(it.want, got); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestDecodeNode(t *testing.T) {
	n, err := DecodeNode([]byte("- a\n- b\n"), format.YAMLFormat)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{"a", "b"}, n.ToJSON()); diff != "" {
		t.Error(diff)
	}
	for _, empty := range []string{"", "  \n", "null"} {
		n, err := DecodeNode([]byte(empty), format.YAMLFormat)
		if err != nil {
			t.Fatal(err)
		}
		if !n.IsMap() || n.Size() != 0 {
			t.Errorf("%q: got %s", empty, n)
		}
	}
	if _, err := DecodeNode([]byte("3"), format.JSONFormat); !errors.Is(err, state.ErrInvalidInitialData) {
		t.Errorf("scalar document: got %v", err)
	}
	r, err := DecodeReader(strings.NewReader(`{"k": 1}`), format.JSONFormat)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Get("k"); v != 1.0 {
		t.Errorf("got %v", v)
	}
}

func doc() *state.Node {
	return state.MustMap(map[string]any{
		"b": 1,
		"a": []any{1, map[string]any{"d": 3, "c": "x y"}},
		"e": map[string]any{},
	})
}

func TestEncodeJSON(t *testing.T) {
	noColor(t, true)
	got, err := EncodeString(doc(), EncodeFormat(format.JSONFormat))
	if err != nil {
		t.Fatal(err)
	}
	want := `{
  "a": [
    1,
    {
      "c": "x y",
      "d": 3
    }
  ],
  "b": 1,
  "e": {}
}
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
	got, err = EncodeString(doc(), EncodeFormat(format.JSONFormat), EncodeIndent(0))
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"a":[1,{"c":"x y","d":3}],"b":1,"e":{}}` + "\n"; got != want {
		t.Errorf("compact: %s", got)
	}
	got, err = EncodeString("str", EncodeFormat(format.JSONFormat))
	if err != nil {
		t.Fatal(err)
	}
	if got != "\"str\"\n" {
		t.Errorf("scalar: %q", got)
	}
}

func TestEncodeYAMLColored(t *testing.T) {
	noColor(t, true)
	got, err := EncodeString(doc(), EncodeColors(NewColors()))
	if err != nil {
		t.Fatal(err)
	}
	want := `a:
  - 1
  - c: x y
    d: 3
b: 1
e: {}
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error(diff)
	}
	back, err := Decode([]byte(got), format.YAMLFormat)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(doc().ToJSON(), back); diff != "" {
		t.Error(diff)
	}
}

func TestEncodeYAML(t *testing.T) {
	for _, indent := range []int{2, 4} {
		got, err := EncodeString(doc(), EncodeIndent(indent))
		if err != nil {
			t.Fatal(err)
		}
		back, err := Decode([]byte(got), format.YAMLFormat)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(doc().ToJSON(), back); diff != "" {
			t.Errorf("indent %d: %s", indent, diff)
		}
	}
}

func TestColorsApplied(t *testing.T) {
	noColor(t, false)
	got, err := EncodeString(map[string]any{"a": "100%"}, EncodeFormat(format.JSONFormat), EncodeColors(NewColors()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("no escapes in %q", got)
	}
	if !strings.Contains(got, "100%") || strings.Contains(got, "%%") {
		t.Errorf("percent mangled in %q", got)
	}
	var c *Colors
	if c.Color(KeyColor, "k") != "k" {
		t.Errorf("nil colors changed the text")
	}
}

func TestFormatFromOpts(t *testing.T) {
	if f := FormatFromOpts(EncodeIndent(3), EncodeFormat(format.JSONFormat)); f != format.JSONFormat {
		t.Errorf("got %s", f)
	}
}
