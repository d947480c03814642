package patch

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tianjianchn/stas/debug"
	"github.com/tianjianchn/stas/state"
)

// ApplyMerge applies an RFC 7386 merge patch to root, which must belong
// to a live transaction. null removes a key; objects merge recursively
// into Maps and replace anything else. A patch that is not an object
// replaces the whole root and must then be of the root's kind; an object
// patch on a List root is rejected.
func ApplyMerge(root *state.Node, doc []byte) (*state.Node, error) {
	var p any
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPatch, err)
	}
	m, ok := p.(map[string]any)
	if !ok {
		if err := replaceRoot(root, state.FromValue(p)); err != nil {
			return nil, err
		}
		return root, nil
	}
	if root.IsList() {
		return nil, fmt.Errorf("%w: cannot merge an object into a List root", ErrBadPatch)
	}
	if err := mergeInto(root, nil, m); err != nil {
		return nil, err
	}
	return root, nil
}

func mergeInto(root *state.Node, prefix state.Path, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p := append(prefix[:len(prefix):len(prefix)], k)
		if debug.Patch() {
			debug.Logf("merge patch %s\n", state.FormatPath(p))
		}
		v := m[k]
		if v == nil {
			if _, err := root.Remove(p); err != nil {
				return err
			}
			continue
		}
		sub, isObj := v.(map[string]any)
		if !isObj {
			if _, err := root.Set(p, v); err != nil {
				return err
			}
			continue
		}
		cur, _ := root.Get(p)
		if n, ok := cur.(*state.Node); ok && n.IsMap() {
			if err := mergeInto(root, p, sub); err != nil {
				return err
			}
			continue
		}
		if _, err := root.Set(p, stripNulls(sub)); err != nil {
			return err
		}
	}
	return nil
}

func stripNulls(m map[string]any) map[string]any {
	res := make(map[string]any, len(m))
	for k, v := range m {
		switch x := v.(type) {
		case nil:
			continue
		case map[string]any:
			res[k] = stripNulls(x)
		default:
			res[k] = v
		}
	}
	return res
}
