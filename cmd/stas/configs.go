package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/tianjianchn/stas/codec"
	"github.com/tianjianchn/stas/format"
)

// EnvConfig holds the defaults read from the environment. Flags win over
// them.
type EnvConfig struct {
	Format   string `env:"STAS_FORMAT"`
	Color    string `env:"STAS_COLOR"     envDefault:"auto"`
	LogLevel string `env:"STAS_LOG_LEVEL" envDefault:"warn"`
	Gops     bool   `env:"STAS_GOPS"`
}

func loadEnv() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return nil, fmt.Errorf("STAS_COLOR: expected auto, always or never, got %q", cfg.Color)
	}
	if cfg.Format != "" {
		if _, err := format.ParseFormat(cfg.Format); err != nil {
			return nil, fmt.Errorf("STAS_FORMAT: %w", err)
		}
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("STAS_LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

func (e *EnvConfig) level() slog.Level {
	var level slog.Level
	_ = level.UnmarshalText([]byte(e.LogLevel))
	return level
}

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	Compact bool `cli:"name=compact desc='write json on one line'"`
	Indent  int  `cli:"name=indent desc='indent width (default 2)'"`
	V       bool `cli:"name=v desc='log transactions to stderr'"`

	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	InFormat, OutFormat *format.Format

	Env *EnvConfig
	Log *slog.Logger

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// flagFormat is the format named by -j/-y or STAS_FORMAT, if any.
func (cfg *MainConfig) flagFormat() (format.Format, bool) {
	switch {
	case cfg.J:
		return format.JSONFormat, true
	case cfg.Y:
		return format.YAMLFormat, true
	}
	if cfg.Env != nil && cfg.Env.Format != "" {
		f, err := format.ParseFormat(cfg.Env.Format)
		return f, err == nil
	}
	return 0, false
}

// inFormat picks the format to decode the document at path with.
func (cfg *MainConfig) inFormat(path string) format.Format {
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	if f, ok := cfg.flagFormat(); ok {
		return f
	}
	return format.FromPath(path)
}

// outFormat picks the output format. in is the format the input was
// read with.
func (cfg *MainConfig) outFormat(in format.Format) format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	if f, ok := cfg.flagFormat(); ok {
		return f
	}
	return in
}

func (cfg *MainConfig) colored(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	if cfg.Env != nil {
		switch cfg.Env.Color {
		case "always":
			return true
		case "never":
			return false
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (cfg *MainConfig) encOpts(w io.Writer, in format.Format) []codec.EncodeOption {
	res := []codec.EncodeOption{
		codec.EncodeFormat(cfg.outFormat(in)),
	}
	switch {
	case cfg.Compact:
		res = append(res, codec.EncodeIndent(0))
	case cfg.Indent > 0:
		res = append(res, codec.EncodeIndent(cfg.Indent))
	}
	if cfg.colored(w) {
		res = append(res, codec.EncodeColors(codec.NewColors()))
	}
	return res
}

func (cfg *MainConfig) logger() *slog.Logger {
	if cfg.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return cfg.Log
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type SetConfig struct {
	*MainConfig
	File string `cli:"name=f desc='read the value from a file'"`

	Set *cli.Command
}

type RmConfig struct {
	*MainConfig

	Rm *cli.Command
}

type MergeConfig struct {
	*MainConfig
	Deep bool `cli:"name=deep desc='merge nested maps recursively'"`

	Merge *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Merge bool `cli:"name=merge desc='apply an RFC 7386 merge patch'"`

	Patch *cli.Command
}

type QueryConfig struct {
	*MainConfig
	Select bool `cli:"name=select desc='map entries through the expression'"`

	Query *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Patch   bool `cli:"name=patch desc='output an RFC 7386 merge patch'"`

	Diff *cli.Command
}

type ReplConfig struct {
	*MainConfig
	Gops bool `cli:"name=gops desc='start a gops diagnostics agent'"`

	Repl *cli.Command
}
