package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/tianjianchn/stas/state"
)

func merge(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		cfg.Merge.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: merge requires a document to merge from", cli.ErrUsage)
	}
	file, err := fileArg(args, 1)
	if err != nil {
		return err
	}
	if args[0] == "-" && file == "-" {
		return fmt.Errorf("%w: only one of <from> and file may be stdin", cli.ErrUsage)
	}
	from, _, err := loadDoc(cfg.MainConfig, cc.In, args[0])
	if err != nil {
		return err
	}
	return edit(cfg.MainConfig, cc, file, func(root *state.Node) error {
		_, err := root.MergeWith(cfg.Deep, from)
		return err
	})
}
