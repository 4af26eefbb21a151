package launch

import (
	"context"
	"fmt"
	"strings"

	"github.com/RhyVis/uni-remote/internal/catalog"
	"github.com/RhyVis/uni-remote/internal/slogger"
)

// opener hands a URL to the user's browser.
type opener interface {
	Open(ctx context.Context, url string) error
}

// Launcher resolves catalog selections into absolute server URLs and opens
// them in the system browser. The destination is a full page served by the
// uni server, so the launcher's job ends once the browser takes over.
type Launcher struct {
	base   string
	opener opener
}

// NewLauncher creates a launcher against the given server base URL.
func NewLauncher(serverURL string, opener opener) *Launcher {
	return &Launcher{
		base:   strings.TrimRight(serverURL, "/"),
		opener: opener,
	}
}

// URL returns the absolute destination for an entry and sub-identifier pair.
func (l *Launcher) URL(entryID, subID string) string {
	return l.base + Path(entryID, subID)
}

// Launch resolves the selection and opens the destination in the browser.
// Returns the URL it opened.
func (l *Launcher) Launch(ctx context.Context, entry catalog.Entry, instanceID string) (string, error) {
	subID, err := SubID(entry, instanceID)
	if err != nil {
		return "", err
	}

	dest := l.URL(entry.ID, subID)
	slogger.L(ctx).Debug("launching entry", "entry", entry.ID, "sub", subID, "url", dest)

	if err := l.opener.Open(ctx, dest); err != nil {
		return "", fmt.Errorf("open browser: %w", err)
	}
	return dest, nil
}
