package store

import (
	"log/slog"

	"github.com/tianjianchn/stas/state"
)

type Option func(*Store)

// WithTxContext makes the store take its transactions from ctx. Stores
// sharing a context never run transactions at the same time.
func WithTxContext(ctx *state.TxContext) Option {
	return func(s *Store) {
		if ctx != nil {
			s.txc = ctx
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithObserver adds o to the observers told about every transaction.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}
