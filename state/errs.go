package state

import "errors"

var (
	ErrInvalidInitialData    = errors.New("invalid initial data")
	ErrInvalidKeyType        = errors.New("invalid key type")
	ErrInvalidPath           = errors.New("invalid path")
	ErrNotACollection        = errors.New("not a collection")
	ErrIncompatibleMergeType = errors.New("incompatible merge type")
	ErrInvalidMergeStrategy  = errors.New("invalid merge strategy")
	ErrNotInTransaction      = errors.New("not in transaction")
	ErrTransactionInProgress = errors.New("transaction in progress")
)
