// Package launch turns a catalog selection into the destination that opens it.
package launch

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/RhyVis/uni-remote/internal/catalog"
)

// Sentinel errors for launch resolution.
var (
	// ErrInstanceRequired is returned when a SugarCube entry is launched
	// without an instance selection.
	ErrInstanceRequired = errors.New("entry requires an instance selection")

	// ErrUnexpectedInstance is returned when an instance is selected for a
	// Plain entry, which launches directly.
	ErrUnexpectedInstance = errors.New("entry launches directly")
)

// Path renders the destination path for an entry and sub-identifier pair.
//
// It is a pure constructor: no catalog lookup, no check that the ids exist.
// Both segments are path-escaped, so distinct pairs render distinct paths.
func Path(entryID, subID string) string {
	return "/play/" + url.PathEscape(entryID) + "/" + url.PathEscape(subID) + "/index-path"
}

// SubID resolves the launch sub-identifier for an entry.
//
// Plain entries launch by their token and take no instance selection.
// SugarCube entries launch one of their instances, picked by id.
func SubID(entry catalog.Entry, instanceID string) (string, error) {
	switch m := entry.Manage.(type) {
	case catalog.Plain:
		if instanceID != "" {
			return "", fmt.Errorf("%w: %s", ErrUnexpectedInstance, entry.ID)
		}
		return m.LaunchToken, nil
	case catalog.SugarCube:
		if instanceID == "" {
			return "", fmt.Errorf("%w: %s", ErrInstanceRequired, entry.ID)
		}
		inst, err := m.Instance(instanceID)
		if err != nil {
			return "", err
		}
		return inst.ID, nil
	default:
		panic(fmt.Sprintf("launch: unhandled manage variant %T", entry.Manage))
	}
}
