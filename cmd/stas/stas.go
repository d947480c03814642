package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/tianjianchn/stas/codec"
	"github.com/tianjianchn/stas/format"
	"github.com/tianjianchn/stas/state"
	"github.com/tianjianchn/stas/store"
)

func stasMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if count(cfg.J, cfg.Y) > 1 {
		return fmt.Errorf("%w: must specify at most one of -j[son] -y[aml]", cli.ErrUsage)
	}
	cfg.Env, err = loadEnv()
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	level := cfg.Env.level()
	if cfg.V {
		level = min(level, slog.LevelDebug)
	}
	cfg.Log = newLog(os.Stderr, level)
	color.NoColor = !cfg.colored(cc.Out)

	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func count(vs ...bool) int {
	ttl := 0
	for _, v := range vs {
		if v {
			ttl++
		}
	}
	return ttl
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// readArg reads a file argument, "-" meaning in.
func readArg(in io.Reader, arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(in)
	}
	return os.ReadFile(arg)
}

// loadDoc decodes the document named by arg.
func loadDoc(cfg *MainConfig, in io.Reader, arg string) (*state.Node, format.Format, error) {
	f := cfg.inFormat(arg)
	d, err := readArg(in, arg)
	if err != nil {
		return nil, f, err
	}
	doc, err := codec.DecodeNode(d, f)
	if err != nil {
		return nil, f, fmt.Errorf("error decoding %s: %w", arg, err)
	}
	return doc, f, nil
}

// fileArg returns the optional trailing file argument.
func fileArg(args []string, n int) (string, error) {
	switch len(args) {
	case n:
		return "-", nil
	case n + 1:
		return args[n], nil
	}
	return "", fmt.Errorf("%w: expected %d or %d arguments, got %d", cli.ErrUsage, n, n+1, len(args))
}

// mutate runs fn as a single transaction over doc and returns the
// resulting root.
func mutate(cfg *MainConfig, doc *state.Node, fn func(root *state.Node) error) (*state.Node, error) {
	s, err := store.New(doc, store.WithLogger(cfg.logger()))
	if err != nil {
		return nil, err
	}
	if err := s.Mutate(fn); err != nil {
		return nil, err
	}
	return s.State(), nil
}

func (cfg *MainConfig) write(w io.Writer, v any, in format.Format) error {
	opts := cfg.encOpts(w, in)
	if err := codec.Encode(w, v, opts...); err != nil {
		return fmt.Errorf("error encoding result as %s: %w", codec.FormatFromOpts(opts...), err)
	}
	return nil
}

// parseValue decodes a command line value as yaml.
func parseValue(s string) (any, error) {
	v, err := codec.Decode([]byte(s), format.YAMLFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return v, nil
}
