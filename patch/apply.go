package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/tianjianchn/stas/debug"
	"github.com/tianjianchn/stas/state"
)

// Apply applies an RFC 6902 patch document to root, which must belong to
// a live transaction. Operations apply in order; on error the transaction
// should be abandoned, as earlier operations have already been applied.
func Apply(root *state.Node, doc []byte) (*state.Node, error) {
	ops, err := jsonpatch.DecodePatch(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPatch, err)
	}
	for i, op := range ops {
		if debug.Patch() {
			debug.Logf("patch op %d: %s\n", i, op.Kind())
		}
		if err := applyOp(root, op); err != nil {
			return nil, fmt.Errorf("op %d (%s): %w", i, op.Kind(), err)
		}
	}
	return root, nil
}

func applyOp(root *state.Node, op jsonpatch.Operation) error {
	path, err := op.Path()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadPatch, err)
	}
	switch op.Kind() {
	case "add":
		v, err := opValue(op)
		if err != nil {
			return err
		}
		return add(root, path, v)
	case "remove":
		return remove(root, path)
	case "replace":
		v, err := opValue(op)
		if err != nil {
			return err
		}
		t, err := resolve(root, path, false)
		if err != nil {
			return err
		}
		if !t.exists {
			return fmt.Errorf("%w: %q does not exist", ErrBadPatch, path)
		}
		return set(root, t, v)
	case "move":
		from, err := op.From()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadPatch, err)
		}
		if from == path {
			return nil
		}
		if isPrefix(from, path) {
			return fmt.Errorf("%w: cannot move %q into itself", ErrBadPatch, from)
		}
		v, err := get(root, from)
		if err != nil {
			return err
		}
		if err := remove(root, from); err != nil {
			return err
		}
		return add(root, path, v)
	case "copy":
		from, err := op.From()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadPatch, err)
		}
		v, err := get(root, from)
		if err != nil {
			return err
		}
		return add(root, path, detach(v))
	case "test":
		v, err := opValue(op)
		if err != nil {
			return err
		}
		got, err := get(root, path)
		if err != nil {
			return err
		}
		if !state.Equal(got, v) {
			return fmt.Errorf("%w: %q", ErrTestFailed, path)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown op %q", ErrBadPatch, op.Kind())
}

func opValue(op jsonpatch.Operation) (any, error) {
	raw, ok := op["value"]
	if !ok {
		return nil, fmt.Errorf("%w: missing value", ErrBadPatch)
	}
	if raw == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(*raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPatch, err)
	}
	return state.FromValue(v), nil
}

func get(root *state.Node, ptr string) (any, error) {
	t, err := resolve(root, ptr, false)
	if err != nil {
		return nil, err
	}
	if !t.exists {
		return nil, fmt.Errorf("%w: %q does not exist", ErrBadPatch, ptr)
	}
	if len(t.path) == 0 {
		return root, nil
	}
	v, _ := root.Get(t.path)
	return v, nil
}

func add(root *state.Node, ptr string, v any) error {
	t, err := resolve(root, ptr, true)
	if err != nil {
		return err
	}
	if len(t.path) == 0 || !t.parent.IsList() {
		return set(root, t, v)
	}
	idx := t.key.(int)
	parent := t.path[:len(t.path)-1]
	if len(parent) == 0 {
		_, err := root.Insert(idx, v)
		return err
	}
	_, err = root.Set(parent, state.Updater(func(old any) (any, error) {
		return old.(*state.Node).Insert(idx, v)
	}))
	return err
}

func remove(root *state.Node, ptr string) error {
	t, err := resolve(root, ptr, false)
	if err != nil {
		return err
	}
	if !t.exists {
		return fmt.Errorf("%w: %q does not exist", ErrBadPatch, ptr)
	}
	if len(t.path) == 0 {
		return fmt.Errorf("%w: cannot remove the root", ErrBadPatch)
	}
	_, err = root.Remove(t.path)
	return err
}

func set(root *state.Node, t *target, v any) error {
	if len(t.path) == 0 {
		return replaceRoot(root, v)
	}
	_, err := root.Set(t.path, v)
	return err
}

// replaceRoot makes root hold exactly the entries of v, which must be a
// node of the same kind.
func replaceRoot(root *state.Node, v any) error {
	n, ok := v.(*state.Node)
	if !ok || n.Kind() != root.Kind() {
		return fmt.Errorf("%w: cannot replace a %s root with %T", ErrBadPatch, root.Kind(), v)
	}
	if root.IsList() {
		for root.Size() > 0 {
			if _, err := root.Pop(); err != nil {
				return err
			}
		}
		_, err := root.Push(values(n)...)
		return err
	}
	for _, k := range root.Keys() {
		if has, _ := n.Has(state.Path{k}); !has {
			if _, err := root.Remove(state.Path{k}); err != nil {
				return err
			}
		}
	}
	_, err := root.Merge(n)
	return err
}

func values(n *state.Node) []any {
	res := make([]any, 0, n.Size())
	n.ForEach(func(v, _ any, _ *state.Node) {
		res = append(res, v)
	})
	return res
}

// detach copies v so a copied subtree never shares nodes still owned by
// the transaction with its source.
func detach(v any) any {
	if n, ok := v.(*state.Node); ok {
		return state.FromValue(n.ToJSON())
	}
	return v
}

func isPrefix(from, path string) bool {
	return len(path) > len(from) && path[:len(from)] == from && path[len(from)] == '/'
}
