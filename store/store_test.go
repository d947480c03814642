package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tianjianchn/stas/state"
)

type recorder struct {
	mu     sync.Mutex
	events []string
	errs   []error
}

func (r *recorder) add(ev string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	r.errs = append(r.errs, err)
}

func (r *recorder) Committed(uint32, time.Duration) { r.add("committed", nil) }
func (r *recorder) Unchanged(uint32, time.Duration) { r.add("unchanged", nil) }
func (r *recorder) RolledBack(_ uint32, _ time.Duration, err error) {
	r.add("rolled back", err)
}

func newStore(t *testing.T, initial any, opts ...Option) *Store {
	t.Helper()
	s, err := New(initial, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNew(t *testing.T) {
	type item struct {
		in   any
		want any
		err  error
	}
	items := map[string]item{
		"nil":    {in: nil, want: map[string]any{}},
		"zero":   {in: 0, want: map[string]any{}},
		"map":    {in: map[string]any{"a": []any{1}}, want: map[string]any{"a": []any{1}}},
		"slice":  {in: []string{"x"}, want: []any{"x"}},
		"string": {in: "abc", err: ErrInvalidInitialState},
		"number": {in: 4, err: ErrInvalidInitialState},
		"bytes":  {in: []byte("x"), err: ErrInvalidInitialState},
	}
	for name, it := range items {
		t.Run(name, func(t *testing.T) {
			s, err := New(it.in)
			if it.err != nil {
				if !errors.Is(err, it.err) {
					t.Fatalf("got %v, want %v", err, it.err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(it.want, s.GetState().ToJSON()); diff != "" {
				t.Error(diff)
			}
		})
	}
	n := state.MustList([]any{1})
	if s := newStore(t, n); s.State() != n {
		t.Errorf("initial node was copied")
	}
}

func TestMutateTasks(t *testing.T) {
	s := newStore(t, map[string]any{"tasks": []any{}, "filter": "all"})
	before := s.State()
	err := s.Mutate(func(root *state.Node) error {
		_, err := root.Set("tasks", state.Updater(func(old any) (any, error) {
			return old.(*state.Node).Set(0, map[string]any{"id": 1, "text": "x", "completed": false})
		}))
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"tasks":  []any{map[string]any{"id": 1, "text": "x", "completed": false}},
		"filter": "all",
	}
	if diff := cmp.Diff(want, s.State().ToJSON()); diff != "" {
		t.Error(diff)
	}
	if s.State() == before {
		t.Errorf("root not replaced")
	}
	if diff := cmp.Diff(map[string]any{"tasks": []any{}, "filter": "all"}, before.ToJSON()); diff != "" {
		t.Errorf("old snapshot changed: %s", diff)
	}
}

func TestMutateShares(t *testing.T) {
	s := newStore(t, map[string]any{"a": 0, "b": map[string]any{"c": 1}})
	b0, _ := s.State().Get("b")
	if err := s.Mutate(func(root *state.Node) error {
		_, err := root.Set("a", 1)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	b1, _ := s.State().Get("b")
	if b0 != b1 {
		t.Errorf("untouched subtree was copied")
	}
}

func TestMutateNoop(t *testing.T) {
	rec := &recorder{}
	s := newStore(t, map[string]any{"a": 1}, WithObserver(rec))
	before := s.State()
	calls := 0
	s.Subscribe(func(next, prev *state.Node) { calls++ })
	if err := s.Mutate(func(*state.Node) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if err := s.Mutate(func(root *state.Node) error {
		_, err := root.Set("a", 1)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if s.State() != before {
		t.Errorf("no-op transaction replaced the root")
	}
	if calls != 0 {
		t.Errorf("listener called %d times", calls)
	}
	if diff := cmp.Diff([]string{"unchanged", "unchanged"}, rec.events); diff != "" {
		t.Error(diff)
	}
}

func TestMutateRollback(t *testing.T) {
	rec := &recorder{}
	s := newStore(t, map[string]any{"a": 0}, WithObserver(rec))
	before := s.State()
	boom := errors.New("x")
	var kept *state.Node
	err := s.Mutate(func(root *state.Node) error {
		kept = root
		if _, err := root.Set("a", 1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if s.State() != before {
		t.Errorf("failed transaction replaced the root")
	}
	if diff := cmp.Diff(map[string]any{"a": 0}, s.State().ToJSON()); diff != "" {
		t.Error(diff)
	}
	if _, err := kept.Set("a", 2); !errors.Is(err, state.ErrNotInTransaction) {
		t.Errorf("write after rollback: got %v", err)
	}
	if diff := cmp.Diff([]string{"rolled back"}, rec.events); diff != "" {
		t.Error(diff)
	}
	if !errors.Is(rec.errs[0], boom) {
		t.Errorf("observer got %v", rec.errs[0])
	}
	// the slot was released
	if err := s.Mutate(func(root *state.Node) error {
		_, err := root.Set("a", 3)
		return err
	}); err != nil {
		t.Fatal(err)
	}
}

func TestMutatePanic(t *testing.T) {
	rec := &recorder{}
	s := newStore(t, map[string]any{"a": 0}, WithObserver(rec))
	before := s.State()
	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recovered %v", r)
			}
		}()
		s.Mutate(func(root *state.Node) error {
			root.Set("a", 1)
			panic("boom")
		})
	}()
	if s.State() != before {
		t.Errorf("panicking transaction replaced the root")
	}
	if diff := cmp.Diff([]string{"rolled back"}, rec.events); diff != "" {
		t.Error(diff)
	}
	if err := s.Mutate(func(*state.Node) error { return nil }); err != nil {
		t.Errorf("slot still held: %v", err)
	}
}

func TestMutateErrors(t *testing.T) {
	s := newStore(t, nil)
	if err := s.Mutate(nil); !errors.Is(err, ErrNotAFunction) {
		t.Errorf("nil fn: got %v", err)
	}
	err := s.Mutate(func(*state.Node) error {
		return s.Mutate(func(*state.Node) error { return nil })
	})
	if !errors.Is(err, ErrTransactionInProgress) {
		t.Errorf("nested mutate: got %v", err)
	}
}

func TestSharedTxContext(t *testing.T) {
	ctx := state.NewTxContext()
	a := newStore(t, nil, WithTxContext(ctx))
	b := newStore(t, nil, WithTxContext(ctx))
	err := a.Mutate(func(*state.Node) error {
		return b.Mutate(func(*state.Node) error { return nil })
	})
	if !errors.Is(err, ErrTransactionInProgress) {
		t.Errorf("got %v", err)
	}
	c := newStore(t, nil)
	err = a.Mutate(func(*state.Node) error {
		return c.Mutate(func(root *state.Node) error {
			_, err := root.Set("k", "v")
			return err
		})
	})
	if err != nil {
		t.Errorf("independent stores: %v", err)
	}
	if v, _ := c.State().Get("k"); v != "v" {
		t.Errorf("got %v", v)
	}
}

func TestSubscribe(t *testing.T) {
	rec := &recorder{}
	s := newStore(t, map[string]any{"n": 0}, WithObserver(rec))
	type call struct{ next, prev any }
	var calls []call
	unsub := s.Subscribe(func(next, prev *state.Node) {
		calls = append(calls, call{next.ToJSON(), prev.ToJSON()})
	})
	var order []int
	s.Subscribe(func(next, prev *state.Node) { order = append(order, 1) })
	s.Subscribe(func(next, prev *state.Node) { order = append(order, 2) })
	if s.Subscribe(nil) == nil {
		t.Errorf("nil unsubscribe")
	}
	set := func(v int) {
		t.Helper()
		if err := s.Mutate(func(root *state.Node) error {
			_, err := root.Set("n", v)
			return err
		}); err != nil {
			t.Fatal(err)
		}
	}
	set(1)
	unsub()
	unsub()
	set(2)
	want := []call{{map[string]any{"n": 1}, map[string]any{"n": 0}}}
	if diff := cmp.Diff(want, calls, cmp.AllowUnexported(call{})); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]int{1, 2, 1, 2}, order); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]string{"committed", "committed"}, rec.events); diff != "" {
		t.Error(diff)
	}
}

func TestListenerCanMutate(t *testing.T) {
	s := newStore(t, map[string]any{"n": 0, "echo": 0})
	s.Subscribe(func(next, prev *state.Node) {
		n, _ := next.Get("n")
		e, _ := next.Get("echo")
		if n == e {
			return
		}
		if err := s.Mutate(func(root *state.Node) error {
			_, err := root.Set("echo", n)
			return err
		}); err != nil {
			t.Errorf("mutate from listener: %v", err)
		}
	})
	if err := s.Mutate(func(root *state.Node) error {
		_, err := root.Set("n", 5)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"n": 5, "echo": 5}, s.State().ToJSON()); diff != "" {
		t.Error(diff)
	}
}

func TestStateDuringTransaction(t *testing.T) {
	s := newStore(t, map[string]any{"a": 0})
	before := s.State()
	if err := s.Mutate(func(root *state.Node) error {
		if _, err := root.Set("a", 1); err != nil {
			return err
		}
		if s.State() != before {
			t.Errorf("State saw the transaction")
		}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

func TestRoundTrip(t *testing.T) {
	in := map[string]any{
		"users": []any{map[string]any{"name": "ann", "tags": []any{"a", "b"}}},
		"n":     1.5,
		"ok":    true,
		"none":  nil,
	}
	if diff := cmp.Diff(in, newStore(t, in).State().ToJSON()); diff != "" {
		t.Error(diff)
	}
}
