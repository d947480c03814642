package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/tianjianchn/stas/query"
	"github.com/tianjianchn/stas/state"
)

func queryCmd(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		cfg.Query.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: query requires a kinded path and an expression", cli.ErrUsage)
	}
	file, err := fileArg(args, 2)
	if err != nil {
		return err
	}
	doc, f, err := loadDoc(cfg.MainConfig, cc.In, file)
	if err != nil {
		return err
	}
	res, err := runQuery(doc, args[0], args[1], cfg.Select)
	if err != nil {
		return err
	}
	return cfg.write(cc.Out, res, f)
}

// runQuery filters, or with sel maps, the collection at kp.
func runQuery(doc *state.Node, kp, src string, sel bool) (*state.Node, error) {
	v, err := doc.GetKPath(trimRoot(kp))
	if err != nil {
		return nil, err
	}
	n, ok := v.(*state.Node)
	if !ok {
		return nil, fmt.Errorf("%w: %s holds a %T", state.ErrNotACollection, kp, v)
	}
	compile := query.Compile
	if sel {
		compile = query.CompileSelect
	}
	q, err := compile(src)
	if err != nil {
		return nil, err
	}
	if sel {
		return q.Select(n)
	}
	return q.Filter(n)
}
