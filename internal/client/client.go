// Package client talks to the uni server HTTP API.
package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/RhyVis/uni-remote/internal/catalog"
)

// Sentinel errors for server responses.
var (
	// ErrNotFound is returned when the requested entry, instance, mod, or
	// save does not exist on the server. Save-sync endpoints also answer
	// not-found when the feature is switched off server-side.
	ErrNotFound = errors.New("not found on server")

	// ErrModsDisabled is returned when mod operations target an entry that
	// does not use mods.
	ErrModsDisabled = errors.New("mods disabled for entry")
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the uni server root, e.g. "http://uni.local:8080".
	BaseURL string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// ModCacheTTL bounds how long fetched mod archives are kept for ETag
	// revalidation. Zero disables the cache and every fetch transfers the
	// full archive.
	ModCacheTTL time.Duration

	// HTTPClient overrides the underlying client. Nil uses a default client
	// honoring Timeout.
	HTTPClient *http.Client
}

// Client is the uni server API surface used by the CLI.
type Client interface {
	// ListAll returns every catalog entry in server order.
	ListAll(ctx context.Context) ([]catalog.Entry, error)

	// ModList returns the server-relative archive paths for an instance's
	// mod overlays.
	ModList(ctx context.Context, entryID, instanceID string) ([]string, error)

	// FetchMod downloads one mod archive by its server-relative path, as
	// returned by ModList. Revalidates against the cache via ETag.
	FetchMod(ctx context.Context, modPath string) ([]byte, error)

	// SaveList returns the ids of synced saves for an instance.
	SaveList(ctx context.Context, entryID, instanceID string) ([]string, error)

	// FetchSave downloads the content of one synced save.
	FetchSave(ctx context.Context, entryID, instanceID, saveID string) (string, error)

	// UploadSave stores a save code under the given alias. An empty alias
	// is stored as "anonymous" server-side.
	UploadSave(ctx context.Context, entryID, instanceID, code, alias string) error

	// DeleteSave removes a synced save by id.
	DeleteSave(ctx context.Context, entryID, instanceID, saveID string) error
}

// New creates a client with the given configuration.
func New(cfg Config) Client {
	return newHTTPClient(cfg)
}
