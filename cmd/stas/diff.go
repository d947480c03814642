package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/tianjianchn/stas/libdiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	if args[0] == "-" && args[1] == "-" {
		return fmt.Errorf("%w: only one side may be stdin", cli.ErrUsage)
	}
	from, _, err := loadDoc(cfg.MainConfig, cc.In, args[0])
	if err != nil {
		return err
	}
	to, _, err := loadDoc(cfg.MainConfig, cc.In, args[1])
	if err != nil {
		return err
	}
	w := cc.Out
	if cfg.Patch {
		if cfg.Reverse {
			from, to = to, from
		}
		d, err := libdiff.MergePatch(from, to)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(d, '\n')); err != nil {
			return err
		}
		if string(d) == "{}" {
			return nil
		}
		return cli.ExitCodeErr(1)
	}
	changes := libdiff.Diff(from, to)
	if len(changes) == 0 {
		return nil
	}
	if cfg.Reverse {
		changes = libdiff.Reverse(changes)
	}
	if err := libdiff.Write(w, changes, cfg.colored(w)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}
