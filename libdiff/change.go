package libdiff

import (
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tianjianchn/stas/state"
)

// Change is one difference. For List elements, Delete paths use the index
// in the old List and the other ops the index in the new one.
type Change struct {
	Path state.Path
	Op   Op
	From any // nil for Insert
	To   any // nil for Delete

	// Text is the character diff of a Replace between two strings.
	Text []diffpatch.Diff
}

// Reverse returns the changes that undo changes.
func Reverse(changes []Change) []Change {
	res := make([]Change, len(changes))
	for i, c := range changes {
		r := Change{Path: c.Path, From: c.To, To: c.From}
		switch c.Op {
		case Insert:
			r.Op = Delete
		case Delete:
			r.Op = Insert
		default:
			r.Op = Replace
		}
		if c.Text != nil {
			r.Text = make([]diffpatch.Diff, len(c.Text))
			for j, d := range c.Text {
				switch d.Type {
				case diffpatch.DiffInsert:
					d.Type = diffpatch.DiffDelete
				case diffpatch.DiffDelete:
					d.Type = diffpatch.DiffInsert
				}
				r.Text[j] = d
			}
		}
		res[i] = r
	}
	return res
}
