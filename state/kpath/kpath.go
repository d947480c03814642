package kpath

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// KPath is a parsed kinded path. Each segment names either a Map field or
// a List index, and the syntax says which:
//   - "a.b" → field b of Map a
//   - "a.*" → every field of a
//   - "a[0]" → element 0 of List a
//   - "a[-1]" → last element of a
//   - "a[*]" → every element of a
type KPath struct {
	Field    *string // Map field name
	FieldAll bool    // field wildcard .*
	Index    *int    // List index, negative counts from the end
	IndexAll bool    // index wildcard [*]
	Next     *KPath  // nil for the leaf
}

// String returns the kinded path text of p.
func (p *KPath) String() string {
	if p == nil {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	for x := p; x != nil; x = x.Next {
		switch {
		case x.FieldAll:
			if buf.Len() > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString("*")
		case x.Field != nil:
			if buf.Len() > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString(QuoteField(*x.Field))
		case x.IndexAll:
			buf.WriteString("[*]")
		case x.Index != nil:
			fmt.Fprintf(buf, "[%d]", *x.Index)
		}
	}
	return buf.String()
}

// HasWildcard reports whether any segment is a wildcard.
func (p *KPath) HasWildcard() bool {
	for x := p; x != nil; x = x.Next {
		if x.FieldAll || x.IndexAll {
			return true
		}
	}
	return false
}

// Len returns the number of segments.
func (p *KPath) Len() int {
	n := 0
	for x := p; x != nil; x = x.Next {
		n++
	}
	return n
}

// Parse parses kinded path text. The empty string parses to nil, the
// root.
func Parse(kpath string) (*KPath, error) {
	if kpath == "" {
		return nil, nil
	}
	root := &KPath{}
	if err := parseKFrag(kpath, root); err != nil {
		return nil, err
	}
	return root, nil
}

// MustParse is like Parse but panics on error.
func MustParse(kpath string) *KPath {
	p, err := Parse(kpath)
	if err != nil {
		panic(err)
	}
	return p
}

func parseKFrag(frag string, parent *KPath) error {
	if len(frag) == 0 {
		return nil
	}
	var rest string
	switch frag[0] {
	case '.':
		if len(frag) > 1 && frag[1] == '*' {
			parent.FieldAll = true
			rest = frag[2:]
			break
		}
		field, r, err := parseKField(frag[1:])
		if err != nil {
			return err
		}
		parent.Field = &field
		rest = r
	case '[':
		i := strings.IndexByte(frag[1:], ']')
		if i == -1 {
			return fmt.Errorf("expected '[' <index> ']'")
		}
		index, all, err := parseKIndex(frag[1 : i+1])
		if err != nil {
			return err
		}
		parent.IndexAll = all
		if !all {
			parent.Index = &index
		}
		rest = frag[i+2:]
	case '*':
		if len(frag) == 1 || frag[1] == '.' || frag[1] == '[' {
			parent.FieldAll = true
			rest = frag[1:]
			break
		}
		fallthrough
	default:
		field, r, err := parseKField(frag)
		if err != nil {
			return fmt.Errorf("expected field or '[', got %q", frag[0])
		}
		parent.Field = &field
		rest = r
	}
	if len(rest) == 0 {
		return nil
	}
	next := &KPath{}
	if err := parseKFrag(rest, next); err != nil {
		return err
	}
	parent.Next = next
	return nil
}

// parseKIndex parses "0", "-1" or "*".
func parseKIndex(is string) (index int, all bool, err error) {
	if is == "*" {
		return 0, true, nil
	}
	i64, err := strconv.ParseInt(is, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid list index %q: %v", is, err)
	}
	return int(i64), false, nil
}

// parseKField reads a field name, stopping at '.' or '['. Fields may be
// quoted with single or double quotes.
func parseKField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] == '\'' || frag[0] == '"' {
		end, err := findQuotedStringEnd(frag)
		if err != nil {
			return "", "", fmt.Errorf("invalid quoted field: %w", err)
		}
		field, err := unquote(frag[:end])
		if err != nil {
			return "", "", fmt.Errorf("invalid quoted field: %w", err)
		}
		return field, frag[end:], nil
	}
	i := strings.IndexAny(frag, ".[")
	if i == 0 {
		return "", "", fmt.Errorf("empty field")
	}
	if i == -1 {
		return frag, "", nil
	}
	return frag[:i], frag[i:], nil
}

// findQuotedStringEnd returns the length of the quoted string at the start
// of s, closing quote included.
func findQuotedStringEnd(s string) (int, error) {
	q := s[0]
	escaped := false
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == q:
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unterminated quoted string %q", s)
}

func unquote(s string) (string, error) {
	if s[0] == '"' {
		return strconv.Unquote(s)
	}
	body := s[1 : len(s)-1]
	body = strings.ReplaceAll(body, `\'`, `'`)
	body = strings.ReplaceAll(body, `"`, `\"`)
	return strconv.Unquote(`"` + body + `"`)
}

// QuoteField quotes a field name when it would not parse back on its own.
func QuoteField(f string) string {
	if f == "" || f == "*" || strings.ContainsAny(f, ".[]'\"\\") || strings.IndexFunc(f, unicode.IsSpace) >= 0 {
		return strconv.Quote(f)
	}
	return f
}
