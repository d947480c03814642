// Package store holds a committed state tree and runs the transactions
// that replace it.
//
// Mutate clones the committed root into a new transaction and hands the
// clone to a callback. If the callback succeeds and wrote something, the
// clone becomes the new committed root; otherwise the old root stays in
// place and nothing the callback did is visible.
package store

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tianjianchn/stas/state"
)

type Store struct {
	txc       *state.TxContext
	log       *slog.Logger
	observers []Observer

	root atomic.Pointer[state.Node]

	mu      sync.Mutex
	subs    []subscription
	nextSub uint64
}

type subscription struct {
	id uint64
	fn Listener
}

// New returns a store whose committed root is built from initial: an
// empty Map for nil, false, 0 or "", a List for slices and arrays, a Map
// for string keyed maps. A *state.Node is used as it is.
func New(initial any, opts ...Option) (*Store, error) {
	root, err := initialRoot(initial)
	if err != nil {
		return nil, err
	}
	s := &Store{
		txc: state.NewTxContext(),
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.root.Store(root)
	return s, nil
}

func initialRoot(initial any) (*state.Node, error) {
	if n, ok := initial.(*state.Node); ok && n != nil {
		return n, nil
	}
	n, err := state.NewMap(initial)
	if err == nil {
		return n, nil
	}
	n, err = state.NewList(initial)
	if err == nil {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidInitialState, initial)
}

// State returns the committed root. It never observes a transaction in
// progress and may be called from any goroutine.
func (s *Store) State() *state.Node {
	return s.root.Load()
}

// GetState is an alias of State.
func (s *Store) GetState() *state.Node {
	return s.State()
}

// Mutate runs fn on a transaction-owned clone of the committed root. The
// clone is committed when fn returns nil after writing into it. If fn
// returns an error or panics, the committed root is left as it was.
func (s *Store) Mutate(fn func(root *state.Node) error) error {
	if fn == nil {
		return ErrNotAFunction
	}
	tx, err := s.txc.Begin(s)
	if err != nil {
		return err
	}
	start := time.Now()
	done := false
	defer func() {
		tx.End()
		if !done {
			s.log.Debug("transaction panicked", "txId", tx.ID())
			s.observe(func(o Observer) { o.RolledBack(tx.ID(), time.Since(start), nil) })
		}
	}()
	s.log.Debug("begin transaction", "txId", tx.ID())

	prev := s.root.Load()
	root, err := tx.Clone(prev)
	if err != nil {
		done = true
		return err
	}
	if err := fn(root); err != nil {
		done = true
		tx.End()
		s.log.Debug("rolled back transaction", "txId", tx.ID(), "error", err)
		s.observe(func(o Observer) { o.RolledBack(tx.ID(), time.Since(start), err) })
		return err
	}
	done = true
	if !root.Dirty() {
		tx.End()
		s.log.Debug("transaction unchanged", "txId", tx.ID())
		s.observe(func(o Observer) { o.Unchanged(tx.ID(), time.Since(start)) })
		return nil
	}
	s.root.Store(root)
	tx.End()
	s.log.Debug("committed transaction", "txId", tx.ID(), "writes", tx.Writes())
	s.observe(func(o Observer) { o.Committed(tx.ID(), time.Since(start)) })
	s.notify(root, prev)
	return nil
}

func (s *Store) observe(f func(Observer)) {
	for _, o := range s.observers {
		f(o)
	}
}

// Subscribe registers fn to be called after every commit that changed
// the root. Listeners run in subscription order on the goroutine that
// called Mutate. The returned function removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

func (s *Store) notify(next, prev *state.Node) {
	s.mu.Lock()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(next, prev)
	}
}
