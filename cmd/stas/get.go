package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/tianjianchn/stas/state"
	"github.com/tianjianchn/stas/state/kpath"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a kinded path", cli.ErrUsage)
	}
	file, err := fileArg(args, 1)
	if err != nil {
		return err
	}
	doc, f, err := loadDoc(cfg.MainConfig, cc.In, file)
	if err != nil {
		return err
	}
	res, ok, err := getValue(doc, args[0])
	if err != nil {
		return fmt.Errorf("error getting %s from %s: %w", args[0], file, err)
	}
	if !ok {
		// nothing to print and nothing to yell about
		return nil
	}
	return cfg.write(cc.Out, res, f)
}

// getValue resolves kp in doc. Paths with wildcards yield a List of every
// match.
func getValue(doc *state.Node, kp string) (any, bool, error) {
	kp = trimRoot(kp)
	p, err := kpath.Parse(kp)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", state.ErrInvalidPath, err)
	}
	if !p.HasWildcard() {
		v, err := doc.GetKPath(kp)
		if err != nil {
			return nil, false, err
		}
		return v, v != nil, nil
	}
	paths, err := doc.Match(kp)
	if err != nil {
		return nil, false, err
	}
	res := make([]any, 0, len(paths))
	for _, p := range paths {
		v, err := doc.Get(p)
		if err != nil {
			return nil, false, err
		}
		res = append(res, v)
	}
	return res, true, nil
}

// trimRoot drops a leading "$" or "." so "$.a", ".a" and "a" name the same
// entry and "$" or "." name the document.
func trimRoot(kp string) string {
	kp = strings.TrimPrefix(kp, "$")
	return strings.TrimPrefix(kp, ".")
}

func parsePath(kp string) (state.Path, error) {
	return state.ParsePath(trimRoot(kp))
}
