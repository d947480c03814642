package codec

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/tianjianchn/stas/format"
	"github.com/tianjianchn/stas/state"
)

type encState struct {
	format format.Format
	indent int
	colors *Colors
}

// Encode writes v, a *state.Node or a plain value, followed by a newline.
func Encode(w io.Writer, v any, opts ...EncodeOption) error {
	es := &encState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	v = plain(v)
	if es.format == format.YAMLFormat && es.colors == nil {
		return encodeYAML(w, v, es)
	}
	bw := bufio.NewWriter(w)
	var err error
	if es.format.IsJSON() {
		err = es.json(bw, v, 0)
	} else {
		err = es.yaml(bw, v, 0, false)
	}
	if err != nil {
		return err
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// EncodeString is Encode into a string.
func EncodeString(v any, opts ...EncodeOption) (string, error) {
	buf := &strings.Builder{}
	if err := Encode(buf, v, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func plain(v any) any {
	if n, ok := v.(*state.Node); ok && n != nil {
		return n.ToJSON()
	}
	return v
}

func encodeYAML(w io.Writer, v any, es *encState) error {
	d, err := yaml.MarshalWithOptions(v, yaml.Indent(max(es.indent, 1)))
	if err != nil {
		return fmt.Errorf("error encoding yaml: %w", err)
	}
	_, err = w.Write(d)
	return err
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (es *encState) newline(w *bufio.Writer, depth int) {
	if es.indent == 0 {
		return
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat(" ", depth*es.indent))
}

func (es *encState) json(w *bufio.Writer, v any, depth int) error {
	c := es.colors
	switch x := v.(type) {
	case map[string]any:
		if len(x) == 0 {
			w.WriteString(c.Color(SepColor, "{}"))
			return nil
		}
		w.WriteString(c.Color(SepColor, "{"))
		for i, k := range sortedKeys(x) {
			if i > 0 {
				w.WriteString(c.Color(SepColor, ","))
			}
			es.newline(w, depth+1)
			kd, _ := json.Marshal(k)
			w.WriteString(c.Color(KeyColor, string(kd)))
			w.WriteString(c.Color(SepColor, ":"))
			if es.indent > 0 {
				w.WriteByte(' ')
			}
			if err := es.json(w, x[k], depth+1); err != nil {
				return err
			}
		}
		es.newline(w, depth)
		w.WriteString(c.Color(SepColor, "}"))
		return nil
	case []any:
		if len(x) == 0 {
			w.WriteString(c.Color(SepColor, "[]"))
			return nil
		}
		w.WriteString(c.Color(SepColor, "["))
		for i, e := range x {
			if i > 0 {
				w.WriteString(c.Color(SepColor, ","))
			}
			es.newline(w, depth+1)
			if err := es.json(w, e, depth+1); err != nil {
				return err
			}
		}
		es.newline(w, depth)
		w.WriteString(c.Color(SepColor, "]"))
		return nil
	}
	d, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %T: %w", v, err)
	}
	w.WriteString(c.Color(scalarAttr(v), string(d)))
	return nil
}

// yaml writes block style YAML with entries starting at column col.
// inItem is set for the value of a list item, whose first entry goes on
// the item's line.
func (es *encState) yaml(w *bufio.Writer, v any, col int, inItem bool) error {
	c := es.colors
	lead := func(i int) {
		if i == 0 && inItem {
			return
		}
		if i > 0 || col > 0 {
			w.WriteByte('\n')
		}
		w.WriteString(strings.Repeat(" ", col))
	}
	switch x := v.(type) {
	case map[string]any:
		if len(x) == 0 {
			w.WriteString(c.Color(SepColor, "{}"))
			return nil
		}
		for i, k := range sortedKeys(x) {
			lead(i)
			w.WriteString(c.Color(KeyColor, yamlScalar(k)))
			w.WriteString(c.Color(SepColor, ":"))
			if err := es.yamlChild(w, x[k], col); err != nil {
				return err
			}
		}
		return nil
	case []any:
		if len(x) == 0 {
			w.WriteString(c.Color(SepColor, "[]"))
			return nil
		}
		for i, e := range x {
			lead(i)
			w.WriteString(c.Color(SepColor, "-"))
			w.WriteByte(' ')
			if err := es.yaml(w, e, col+2, true); err != nil {
				return err
			}
		}
		return nil
	}
	w.WriteString(c.Color(scalarAttr(v), yamlScalar(v)))
	return nil
}

func (es *encState) yamlChild(w *bufio.Writer, v any, col int) error {
	next := col + max(es.indent, 1)
	switch x := v.(type) {
	case map[string]any:
		if len(x) > 0 {
			return es.yaml(w, x, next, false)
		}
	case []any:
		if len(x) > 0 {
			return es.yaml(w, x, next, false)
		}
	}
	w.WriteByte(' ')
	return es.yaml(w, v, next, false)
}

// yamlScalar renders a scalar on a single line.
func yamlScalar(v any) string {
	d, err := yaml.Marshal(v)
	s := strings.TrimSuffix(string(d), "\n")
	if err != nil || strings.Contains(s, "\n") {
		if str, ok := v.(string); ok {
			return strconv.Quote(str)
		}
		return fmt.Sprint(v)
	}
	return s
}

func scalarAttr(v any) ColorAttr {
	switch v.(type) {
	case nil:
		return NullColor
	case bool:
		return BoolColor
	case string:
		return StringColor
	}
	return NumberColor
}
