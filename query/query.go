package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/tianjianchn/stas/debug"
	"github.com/tianjianchn/stas/state"
)

// Query is a compiled expression. It is safe for concurrent use.
type Query struct {
	src  string
	prg  *vm.Program
	pred bool
}

// Compile compiles a predicate, which must evaluate to a bool.
func Compile(src string) (*Query, error) {
	return compile(src, true)
}

// CompileSelect compiles a projection, which may evaluate to anything.
func CompileSelect(src string) (*Query, error) {
	return compile(src, false)
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Query {
	q, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return q
}

func compile(src string, pred bool) (*Query, error) {
	opts := append(exprOpts(), expr.Env(Env{}))
	if pred {
		opts = append(opts, expr.AsBool())
	}
	prg, err := expr.Compile(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}
	return &Query{src: src, prg: prg, pred: pred}, nil
}

func (q *Query) String() string {
	return q.src
}

// IsPredicate reports whether q was compiled with Compile.
func (q *Query) IsPredicate() bool {
	return q.pred
}

// Eval runs q against one entry of coll.
func (q *Query) Eval(value, key any, coll *state.Node) (any, error) {
	res, err := expr.Run(q.prg, env(value, key, coll))
	if err != nil {
		return nil, fmt.Errorf("%w: %q at %v: %w", ErrBadQuery, q.src, key, err)
	}
	if debug.Query() {
		debug.Logf("query %q at %v: %v\n", q.src, key, res)
	}
	return res, nil
}

// Filter returns a node of n's kind holding the entries for which q is
// true. The result is a committed node sharing n's children. q must
// evaluate to a bool.
func (q *Query) Filter(n *state.Node) (*state.Node, error) {
	var ferr error
	res := n.Filter(func(value, key any, coll *state.Node) bool {
		if ferr != nil {
			return false
		}
		v, err := q.Eval(value, key, coll)
		if err != nil {
			ferr = err
			return false
		}
		b, ok := v.(bool)
		if !ok {
			ferr = fmt.Errorf("%w: %q at %v gave %T, not bool", ErrBadQuery, q.src, key, v)
			return false
		}
		return b
	})
	if ferr != nil {
		return nil, ferr
	}
	return res, nil
}

// Select returns a node of n's kind holding q's result for every entry.
func (q *Query) Select(n *state.Node) (*state.Node, error) {
	var ferr error
	res := n.Map(func(value, key any, coll *state.Node) any {
		if ferr != nil {
			return nil
		}
		v, err := q.Eval(value, key, coll)
		if err != nil {
			ferr = err
			return nil
		}
		return v
	})
	if ferr != nil {
		return nil, ferr
	}
	return res, nil
}

// Find returns the key of the first entry for which q is true.
func (q *Query) Find(n *state.Node) (any, bool, error) {
	var ferr error
	key, ok := n.FindKey(func(value, key any, coll *state.Node) bool {
		if ferr != nil {
			return false
		}
		v, err := q.Eval(value, key, coll)
		if err != nil {
			ferr = err
			return false
		}
		b, _ := v.(bool)
		return b
	})
	if ferr != nil {
		return nil, false, ferr
	}
	return key, ok, nil
}

// Env is what an expression sees when run against one entry.
type Env struct {
	Value      any `expr:"value"`
	Key        any `expr:"key"`
	Collection any `expr:"collection"`
}

func env(value, key any, coll *state.Node) Env {
	if n, ok := value.(*state.Node); ok {
		value = n.ToJSON()
	}
	e := Env{Value: value, Key: key}
	if coll != nil {
		e.Collection = coll.ToJSON()
	}
	return e
}
