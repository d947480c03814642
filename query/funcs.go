package query

import (
	"github.com/expr-lang/expr"
	"github.com/tianjianchn/stas/state"
)

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Function("kind", func(params ...any) (any, error) {
			return kindOf(params[0]), nil
		},
			new(func(any) string)),
	}
}

func kindOf(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case *state.Node:
		if x.IsList() {
			return "list"
		}
		return "map"
	case map[string]any:
		return "map"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "bool"
	}
	if _, ok := state.Number(v); ok {
		return "number"
	}
	return "unknown"
}
