// Package names provides Docker-style random alias generation for saves
// pushed without an explicit alias.
package names

import (
	"fmt"

	"github.com/docker/docker/pkg/namesgenerator"
)

// ExistsFn checks if an alias is already taken.
type ExistsFn func(alias string) bool

// Generate returns a random adjective_surname alias (e.g., "focused_turing").
func Generate() string {
	return namesgenerator.GetRandomName(0)
}

// GenerateUnique returns an alias that is free according to existsFn.
// Returns an error if unable to find a free alias after maxAttempts tries.
func GenerateUnique(existsFn ExistsFn, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = 100
	}

	for i := 0; i < maxAttempts; i++ {
		alias := Generate()
		if !existsFn(alias) {
			return alias, nil
		}
	}

	return "", fmt.Errorf("failed to generate free alias after %d attempts", maxAttempts)
}
