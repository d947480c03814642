package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-yaml"
	"github.com/tianjianchn/stas/format"
	"github.com/tianjianchn/stas/state"
)

// Decode parses one document. YAML accepts JSON input as well. Integers
// decode to int where they fit; JSON numbers decode to float64.
func Decode(data []byte, f format.Format) (any, error) {
	var v any
	switch f {
	case format.JSONFormat:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("error decoding json: %w", err)
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, fmt.Errorf("error decoding json: trailing data")
		}
	case format.YAMLFormat:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("error decoding yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, f)
	}
	return normalize(v), nil
}

// DecodeNode decodes a document into a committed state tree. An empty
// document yields an empty Map.
func DecodeNode(data []byte, f format.Format) (*state.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return state.NewMap(nil)
	}
	v, err := Decode(data, f)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return state.NewMap(nil)
	}
	n, ok := state.FromValue(v).(*state.Node)
	if !ok {
		return nil, fmt.Errorf("%w: document is a %T, not a mapping or a sequence", state.ErrInvalidInitialData, v)
	}
	return n, nil
}

// DecodeReader is DecodeNode on everything r yields.
func DecodeReader(r io.Reader, f format.Format) (*state.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeNode(d, f)
}

// normalize turns decoder output into the values nodes hold: string keyed
// maps, []any, and int for integers.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	case int64:
		if x >= math.MinInt && x <= math.MaxInt {
			return int(x)
		}
	case uint64:
		if x <= math.MaxInt {
			return int(x)
		}
	}
	return v
}
