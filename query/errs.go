package query

import "errors"

var (
	ErrBadQuery = errors.New("bad query")
)
