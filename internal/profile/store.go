// Package profile persists character profiles and builds them from parsed
// skill documents.
package profile

import (
	"context"
	"errors"

	"github.com/samdwyer/bitacora/internal/gamedata"
)

//go:generate go tool mockgen -destination=./mocks/store_mock.go -package=mocks . Store

// ErrNotFound is returned when a profile ID has no stored profile.
var ErrNotFound = errors.New("profile not found")

// Store is the profile persistence boundary.
type Store interface {
	// List returns every stored profile ordered by name.
	List(ctx context.Context) ([]gamedata.Profile, error)
	// Get returns the profile with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (gamedata.Profile, error)
	// Save creates or replaces a profile.
	Save(ctx context.Context, p gamedata.Profile) error
	// Delete removes a profile. Deleting a missing profile returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}
