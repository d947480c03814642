package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/gops/agent"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/scott-cotton/cli"
	"github.com/tianjianchn/stas/codec"
	"github.com/tianjianchn/stas/format"
	"github.com/tianjianchn/stas/libdiff"
	"github.com/tianjianchn/stas/metrics"
	"github.com/tianjianchn/stas/patch"
	"github.com/tianjianchn/stas/state"
	"github.com/tianjianchn/stas/store"
)

const replHelp = `commands:
  get [kpath]            print the value at kpath (the document by default)
  set <kpath> <value>    write a yaml value
  rm <kpath>             remove an entry
  merge [-deep] <value>  merge a yaml mapping or sequence into the document
  patch <json>           apply an RFC 6902 patch
  query <kpath> <expr>   filter the collection at kpath
  show                   print the document
  diff                   show what the last commit changed
  save [file]            write the document
  stats                  print transaction metrics
  quit                   leave
`

func repl(cfg *ReplConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Repl.Parse(cc, args)
	if err != nil {
		cfg.Repl.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: repl takes at most one file", cli.ErrUsage)
	}
	if cfg.Gops || (cfg.Env != nil && cfg.Env.Gops) {
		if err := agent.Listen(agent.Options{}); err != nil {
			cfg.logger().Warn("gops agent failed", "error", err)
		} else {
			defer agent.Close()
		}
	}
	var (
		doc  *state.Node
		f    = format.YAMLFormat
		file string
	)
	if len(args) == 1 {
		file = args[0]
		doc, f, err = loadDoc(cfg.MainConfig, cc.In, file)
		if err != nil {
			return err
		}
	} else if ff, ok := cfg.flagFormat(); ok {
		f = ff
	}
	sess, err := newSession(cfg.MainConfig, doc, f, cc.Out)
	if err != nil {
		return err
	}
	sess.file = file
	return sess.run(cc.In)
}

type session struct {
	cfg   *MainConfig
	store *store.Store
	reg   *prometheus.Registry
	f     format.Format
	out   io.Writer
	file  string

	// last commit
	next, prev *state.Node
}

func newSession(cfg *MainConfig, doc *state.Node, f format.Format, out io.Writer) (*session, error) {
	reg := prometheus.NewRegistry()
	var initial any
	if doc != nil {
		initial = doc
	}
	s, err := store.New(initial,
		store.WithLogger(cfg.logger()),
		store.WithObserver(metrics.New(reg)))
	if err != nil {
		return nil, err
	}
	sess := &session{cfg: cfg, store: s, reg: reg, f: f, out: out}
	s.Subscribe(func(next, prev *state.Node) {
		sess.next, sess.prev = next, prev
	})
	return sess, nil
}

func (s *session) run(in io.Reader) error {
	prompt := interactive(in)
	sc := bufio.NewScanner(in)
	sc.Buffer(nil, 1<<20)
	for {
		if prompt {
			fmt.Fprint(s.out, "> ")
		}
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		quit, err := s.exec(line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return sc.Err()
}

func interactive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// exec runs one command line. Every command that writes runs as its own
// transaction.
func (s *session) exec(line string) (bool, error) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		_, err := io.WriteString(s.out, replHelp)
		return false, err
	case "show":
		return false, s.print(s.store.State())
	case "get":
		v, ok, err := getValue(s.store.State(), rest)
		if err != nil {
			return false, err
		}
		if !ok {
			v = nil
		}
		return false, s.print(v)
	case "set":
		kp, raw, ok := strings.Cut(rest, " ")
		if !ok {
			return false, fmt.Errorf("usage: set <kpath> <value>")
		}
		p, err := parsePath(kp)
		if err != nil {
			return false, err
		}
		v, err := parseValue(strings.TrimSpace(raw))
		if err != nil {
			return false, err
		}
		return false, s.store.Mutate(func(root *state.Node) error {
			_, err := root.Set(p, v)
			return err
		})
	case "rm":
		p, err := parsePath(rest)
		if err != nil {
			return false, err
		}
		return false, s.store.Mutate(func(root *state.Node) error {
			_, err := root.Remove(p)
			return err
		})
	case "merge":
		deep := false
		if r, ok := strings.CutPrefix(rest, "-deep "); ok {
			deep, rest = true, strings.TrimSpace(r)
		}
		v, err := parseValue(rest)
		if err != nil {
			return false, err
		}
		return false, s.store.Mutate(func(root *state.Node) error {
			_, err := root.MergeWith(deep, v)
			return err
		})
	case "patch":
		return false, s.store.Mutate(func(root *state.Node) error {
			_, err := patch.Apply(root, []byte(rest))
			return err
		})
	case "query":
		kp, src, ok := strings.Cut(rest, " ")
		if !ok {
			return false, fmt.Errorf("usage: query <kpath> <expr>")
		}
		res, err := runQuery(s.store.State(), kp, strings.TrimSpace(src), false)
		if err != nil {
			return false, err
		}
		return false, s.print(res)
	case "diff":
		if s.next == nil {
			_, err := io.WriteString(s.out, "nothing committed yet\n")
			return false, err
		}
		return false, libdiff.Write(s.out, libdiff.Diff(s.prev, s.next), s.cfg.colored(s.out))
	case "save":
		return false, s.save(rest)
	case "stats":
		return false, s.stats()
	}
	return false, fmt.Errorf("unknown command %q, try help", cmd)
}

func (s *session) print(v any) error {
	return s.cfg.write(s.out, v, s.f)
}

func (s *session) save(file string) error {
	if file == "" {
		file = s.file
	}
	if file == "" || file == "-" {
		return fmt.Errorf("usage: save <file>")
	}
	buf := &bytes.Buffer{}
	if err := codec.Encode(buf, s.store.State(), codec.EncodeFormat(s.cfg.inFormat(file))); err != nil {
		return err
	}
	if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
		return err
	}
	_, err := fmt.Fprintf(s.out, "saved %s\n", file)
	return err
}

func (s *session) stats() error {
	mfs, err := s.reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(s.out, mf); err != nil {
			return err
		}
	}
	return nil
}
