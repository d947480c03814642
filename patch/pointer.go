package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tianjianchn/stas/state"
)

// ParsePointer splits an RFC 6901 JSON pointer into unescaped tokens. The
// empty pointer names the whole document and yields no tokens.
func ParsePointer(ptr string) ([]string, error) {
	if ptr == "" {
		return nil, nil
	}
	if ptr[0] != '/' {
		return nil, fmt.Errorf("%w: pointer %q does not start with '/'", ErrBadPatch, ptr)
	}
	toks := strings.Split(ptr[1:], "/")
	for i, tok := range toks {
		toks[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(tok)
	}
	return toks, nil
}

// target is a pointer resolved against a tree.
type target struct {
	parent *state.Node
	path   state.Path // full path; empty for the root
	key    any        // last key: a string for Maps, an int for Lists
	exists bool
}

// resolve walks toks below root. The final token may name an absent Map
// key, a List index equal to the length, or "-" when end is set.
func resolve(root *state.Node, ptr string, end bool) (*target, error) {
	toks, err := ParsePointer(ptr)
	if err != nil {
		return nil, err
	}
	t := &target{parent: root, exists: true}
	cur := root
	for i, tok := range toks {
		if cur == nil {
			return nil, fmt.Errorf("%w: %q: %s is not a container", ErrBadPatch, ptr, state.FormatPath(t.path))
		}
		var key any
		if cur.IsList() {
			idx, err := listIndex(tok, cur.Size(), end && i == len(toks)-1)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrBadPatch, ptr, err)
			}
			key = idx
		} else {
			key = tok
		}
		t.parent = cur
		t.key = key
		t.path = append(t.path, key)
		v, ok, err := cur.Lookup(state.Path{key})
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrBadPatch, ptr, err)
		}
		if i < len(toks)-1 {
			if !ok {
				return nil, fmt.Errorf("%w: %q: %s does not exist", ErrBadPatch, ptr, state.FormatPath(t.path))
			}
			cur, _ = v.(*state.Node)
			continue
		}
		t.exists = ok
	}
	return t, nil
}

// listIndex parses an array index token. Leading zeros and signs are not
// allowed; "-" and the length itself address the end when end is set.
func listIndex(tok string, size int, end bool) (int, error) {
	if tok == "-" {
		if !end {
			return 0, fmt.Errorf("'-' only names a new element")
		}
		return size, nil
	}
	if tok == "" || (len(tok) > 1 && tok[0] == '0') || tok[0] == '+' || tok[0] == '-' {
		return 0, fmt.Errorf("bad array index %q", tok)
	}
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("bad array index %q", tok)
	}
	if i > size || (i == size && !end) {
		return 0, fmt.Errorf("array index %d out of range for length %d", i, size)
	}
	return i, nil
}
