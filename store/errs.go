package store

import (
	"errors"

	"github.com/tianjianchn/stas/state"
)

var (
	ErrNotAFunction        = errors.New("mutate needs a function")
	ErrInvalidInitialState = errors.New("invalid initial state")

	// ErrTransactionInProgress is returned by Mutate while another
	// transaction holds the store's context.
	ErrTransactionInProgress = state.ErrTransactionInProgress
)
