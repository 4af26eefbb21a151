package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// The uni server encodes Manage as an externally tagged object: exactly one
// of {"Plain": "<token>"} or {"SugarCube": [<instances>]}. ModRef pairs ride
// as two-element arrays. The codec below enforces the one-variant rule so a
// malformed payload is rejected whole rather than half-decoded.

// wireManage mirrors the tagged object. A nil field means the tag is absent;
// an empty SugarCube array stays distinguishable from a missing one.
type wireManage struct {
	Plain     *string    `json:"Plain"`
	SugarCube []Instance `json:"SugarCube"`
}

// MarshalJSON emits the single tag that is set, keeping the wire form free
// of null placeholders for the other variant.
func (w wireManage) MarshalJSON() ([]byte, error) {
	switch {
	case w.Plain != nil:
		return json.Marshal(map[string]string{"Plain": *w.Plain})
	case w.SugarCube != nil:
		return json.Marshal(map[string][]Instance{"SugarCube": w.SugarCube})
	default:
		return nil, errors.New("manage: no variant set")
	}
}

type wireEntry struct {
	ID     string     `json:"id"`
	Name   string     `json:"name,omitempty"`
	Manage wireManage `json:"manage"`
}

// UnmarshalJSON decodes an entry, rejecting payloads that carry both
// management tags or neither.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var manage Manage
	switch {
	case w.Manage.Plain != nil && w.Manage.SugarCube != nil:
		return fmt.Errorf("entry %q: manage carries both Plain and SugarCube", w.ID)
	case w.Manage.Plain != nil:
		manage = Plain{LaunchToken: *w.Manage.Plain}
	case w.Manage.SugarCube != nil:
		manage = SugarCube{Instances: w.Manage.SugarCube}
	default:
		return fmt.Errorf("entry %q: manage carries no known variant", w.ID)
	}

	e.ID = w.ID
	e.Name = w.Name
	e.Manage = manage
	return nil
}

// MarshalJSON encodes an entry in the uni server's tagged form.
func (e Entry) MarshalJSON() ([]byte, error) {
	w := wireEntry{ID: e.ID, Name: e.Name}

	switch m := e.Manage.(type) {
	case Plain:
		token := m.LaunchToken
		w.Manage.Plain = &token
	case SugarCube:
		instances := m.Instances
		if instances == nil {
			instances = []Instance{}
		}
		w.Manage.SugarCube = instances
	default:
		return nil, fmt.Errorf("entry %q: unhandled manage variant %T", e.ID, e.Manage)
	}

	return json.Marshal(w)
}

// UnmarshalJSON decodes a [name, subId] pair.
func (m *ModRef) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("mod reference: want [name, subId], got %d elements", len(pair))
	}
	m.Name = pair[0]
	m.SubID = pair[1]
	return nil
}

// MarshalJSON encodes the pair back to its two-element array form.
func (m ModRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{m.Name, m.SubID})
}
