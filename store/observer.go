package store

import (
	"time"

	"github.com/tianjianchn/stas/state"
)

// Observer is told how each transaction ended. Calls happen after the
// transaction has released its context.
type Observer interface {
	// Committed is called when a transaction replaced the root.
	Committed(txID uint32, d time.Duration)
	// Unchanged is called when a transaction completed without writing.
	Unchanged(txID uint32, d time.Duration)
	// RolledBack is called when the callback failed. err is nil if it
	// panicked.
	RolledBack(txID uint32, d time.Duration, err error)
}

// Listener receives the new and the previous root after a commit.
type Listener func(next, prev *state.Node)
