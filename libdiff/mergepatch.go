package libdiff

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/tianjianchn/stas/state"
)

// MergePatch returns the RFC 7386 merge patch that turns from into to.
// Unless both are Maps the patch is to itself, or {} when they are equal.
func MergePatch(from, to *state.Node) ([]byte, error) {
	if !from.IsMap() || !to.IsMap() {
		if state.Equal(from, to) {
			return []byte("{}"), nil
		}
		return to.MarshalJSON()
	}
	fd, err := from.MarshalJSON()
	if err != nil {
		return nil, err
	}
	td, err := to.MarshalJSON()
	if err != nil {
		return nil, err
	}
	res, err := jsonpatch.CreateMergePatch(fd, td)
	if err != nil {
		return nil, fmt.Errorf("error creating merge patch: %w", err)
	}
	return res, nil
}
