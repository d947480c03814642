package libdiff

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tianjianchn/stas/state"
)

type printer struct {
	ins, del, repl, path func(string, ...any) string
}

func newPrinter(colored bool) *printer {
	if !colored {
		plain := func(s string, _ ...any) string { return s }
		return &printer{ins: plain, del: plain, repl: plain, path: plain}
	}
	esc := func(f func(string, ...any) string) func(string, ...any) string {
		return func(s string, _ ...any) string {
			return f(strings.ReplaceAll(s, "%", "%%"))
		}
	}
	return &printer{
		ins:  esc(color.RGB(8, 196, 16).SprintfFunc()),
		del:  esc(color.RGB(216, 48, 48).SprintfFunc()),
		repl: esc(color.RGB(198, 198, 46).SprintfFunc()),
		path: esc(color.RGB(128, 168, 196).SprintfFunc()),
	}
}

// Write prints changes one per line as
//
//	+ path: value
//	- path: value
//	~ path: from -> to
//
// String replacements show their character diff, marking removed text
// [-like this-] and added text {+like this+} unless colored.
func Write(w io.Writer, changes []Change, colored bool) error {
	p := newPrinter(colored)
	for _, c := range changes {
		path := state.FormatPath(c.Path)
		if path == "" {
			path = "."
		}
		var line string
		switch c.Op {
		case Insert:
			line = p.ins(c.Op.Symbol()+" "+path+": ") + p.ins(compact(c.To))
		case Delete:
			line = p.del(c.Op.Symbol()+" "+path+": ") + p.del(compact(c.From))
		default:
			line = p.repl(c.Op.Symbol()+" "+path+": ") + p.replaced(c, colored)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) replaced(c Change, colored bool) string {
	if c.Text == nil {
		return p.del(compact(c.From)) + " -> " + p.ins(compact(c.To))
	}
	var b strings.Builder
	for _, d := range c.Text {
		switch d.Type {
		case diffpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffpatch.DiffDelete:
			if colored {
				b.WriteString(p.del(d.Text))
			} else {
				b.WriteString("[-" + d.Text + "-]")
			}
		case diffpatch.DiffInsert:
			if colored {
				b.WriteString(p.ins(d.Text))
			} else {
				b.WriteString("{+" + d.Text + "+}")
			}
		}
	}
	return b.String()
}

func compact(v any) string {
	if n, ok := v.(*state.Node); ok {
		v = n.ToJSON()
	}
	d, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(d)
}
