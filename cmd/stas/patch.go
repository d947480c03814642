package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/tianjianchn/stas/codec"
	"github.com/tianjianchn/stas/format"
	"github.com/tianjianchn/stas/patch"
	"github.com/tianjianchn/stas/state"
)

func patchCmd(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch document", cli.ErrUsage)
	}
	file, err := fileArg(args, 1)
	if err != nil {
		return err
	}
	if args[0] == "-" && file == "-" {
		return fmt.Errorf("%w: only one of the patch and file may be stdin", cli.ErrUsage)
	}
	d, err := readArg(cc.In, args[0])
	if err != nil {
		return err
	}
	doc, err := patchJSON(d, cfg.inFormat(args[0]))
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	apply := patch.Apply
	if cfg.Merge {
		apply = patch.ApplyMerge
	}
	return edit(cfg.MainConfig, cc, file, func(root *state.Node) error {
		_, err := apply(root, doc)
		return err
	})
}

// patchJSON returns d as JSON. Patches may be written in yaml; JSON input
// passes through untouched.
func patchJSON(d []byte, f format.Format) ([]byte, error) {
	t := bytes.TrimSpace(d)
	if f.IsJSON() || (len(t) > 0 && (t[0] == '[' || t[0] == '{')) {
		return d, nil
	}
	v, err := codec.Decode(d, f)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
