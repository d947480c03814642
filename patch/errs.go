package patch

import "errors"

var (
	ErrBadPatch   = errors.New("bad patch")
	ErrTestFailed = errors.New("patch test failed")
)
