// Package catalog defines the playable entry model and the in-memory store
// that holds the catalog fetched from a uni server.
package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations.
var (
	// ErrEntryNotFound is returned when no entry carries the requested id.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInstanceNotFound is returned when a SugarCube entry carries no
	// instance with the requested id.
	ErrInstanceNotFound = errors.New("instance not found")
)

// Labels shown next to an entry to identify its management strategy.
const (
	LabelPlain     = "Plain HTML"
	LabelSugarCube = "SugarCube ML"
)

// Entry is one playable catalog item.
type Entry struct {
	// ID is unique within the catalog. It doubles as the display fallback
	// and as the first segment of every launch path. Opaque - never parsed.
	ID string

	// Name is the display name. Empty means unnamed; display falls back to ID.
	Name string

	// Manage is exactly one of Plain or SugarCube, enforced at the
	// deserialization boundary.
	Manage Manage
}

// Manage describes how an entry's playable content is assembled.
//
// It is a closed union: Plain and SugarCube are the only variants. A new
// variant must be handled in Entry.Label and launch.SubID before it can ship;
// both panic on an unknown variant.
type Manage interface {
	manage()
}

// Plain is a single self-contained HTML artifact. LaunchToken is the sole
// sub-identifier needed to open it.
type Plain struct {
	LaunchToken string
}

// SugarCube is a layered composition with independently launchable instances.
type SugarCube struct {
	Instances []Instance
}

func (Plain) manage()     {}
func (SugarCube) manage() {}

// Instance is one launchable unit within a SugarCube entry.
type Instance struct {
	// ID is unique within the entry and serves as the launch sub-identifier.
	ID string `json:"id"`

	// Name is the display name. Empty means unnamed; display falls back to ID.
	Name string `json:"name"`

	// Index is an ordering label. Not necessarily numeric.
	Index string `json:"index"`

	// Layers names the units composing the instance, rendered top to bottom.
	Layers []string `json:"layers"`

	// Mods are overlay modifications applied atop the layers. Nil means none.
	Mods []ModRef `json:"mods"`
}

// ModRef names one mod overlay and the variant of it in use.
type ModRef struct {
	Name  string
	SubID string
}

// DisplayName returns the entry name, or the id when unnamed.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Label returns the short tag identifying the entry's management strategy.
func (e Entry) Label() string {
	switch e.Manage.(type) {
	case Plain:
		return LabelPlain
	case SugarCube:
		return LabelSugarCube
	default:
		panic(fmt.Sprintf("catalog: unhandled manage variant %T", e.Manage))
	}
}

// DisplayName returns the instance name, or the id when unnamed.
func (i Instance) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.ID
}

// Instance returns the instance with the given id.
// Returns ErrInstanceNotFound if no instance carries it.
func (s SugarCube) Instance(id string) (*Instance, error) {
	for i := range s.Instances {
		if s.Instances[i].ID == id {
			inst := s.Instances[i]
			return &inst, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
}
