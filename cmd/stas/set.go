package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/tianjianchn/stas/codec"
	"github.com/tianjianchn/stas/state"
)

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		cfg.Set.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	var (
		value any
		file  string
	)
	if cfg.File != "" {
		if len(args) == 0 {
			return fmt.Errorf("%w: set -f requires a kinded path", cli.ErrUsage)
		}
		var d []byte
		d, err = readArg(cc.In, cfg.File)
		if err != nil {
			return err
		}
		value, err = codec.Decode(d, cfg.inFormat(cfg.File))
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", cfg.File, err)
		}
		file, err = fileArg(args, 1)
	} else {
		if len(args) < 2 {
			return fmt.Errorf("%w: set requires a kinded path and a value", cli.ErrUsage)
		}
		value, err = parseValue(args[1])
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		file, err = fileArg(args, 2)
	}
	if err != nil {
		return err
	}
	p, err := parsePath(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return edit(cfg.MainConfig, cc, file, func(root *state.Node) error {
		_, err := root.Set(p, value)
		return err
	})
}

func rm(cfg *RmConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Rm.Parse(cc, args)
	if err != nil {
		cfg.Rm.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: rm requires one argument, a kinded path", cli.ErrUsage)
	}
	file, err := fileArg(args, 1)
	if err != nil {
		return err
	}
	p, err := parsePath(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return edit(cfg.MainConfig, cc, file, func(root *state.Node) error {
		_, err := root.Remove(p)
		return err
	})
}

// edit loads file, runs fn over it in one transaction and prints the
// result.
func edit(cfg *MainConfig, cc *cli.Context, file string, fn func(root *state.Node) error) error {
	doc, f, err := loadDoc(cfg, cc.In, file)
	if err != nil {
		return err
	}
	res, err := mutate(cfg, doc, fn)
	if err != nil {
		return fmt.Errorf("error editing %s: %w", file, err)
	}
	return cfg.write(cc.Out, res, f)
}

