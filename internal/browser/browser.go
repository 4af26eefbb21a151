// Package browser opens URLs in the user's web browser.
package browser

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/RhyVis/uni-remote/internal/exec"
	"github.com/RhyVis/uni-remote/internal/slogger"
)

// ErrNoBrowser is returned when no opener command is available on this system.
var ErrNoBrowser = errors.New("no browser opener available")

// Opener hands URLs to a web browser through an external opener command.
type Opener struct {
	exec    exec.Executor
	command string
}

// NewOpener creates an Opener. A non-empty command overrides the platform
// default opener; it may carry arguments, e.g. "firefox --new-window".
func NewOpener(e exec.Executor, command string) *Opener {
	return &Opener{exec: e, command: command}
}

// Open opens url in the browser. The page the browser lands on is fully
// served by the uni server; nothing further happens client-side.
func (o *Opener) Open(ctx context.Context, url string) error {
	name, args, err := o.resolve()
	if err != nil {
		return err
	}

	slogger.L(ctx).Debug("opening browser", "command", name, "url", url)

	result, err := o.exec.Run(ctx, &exec.Command{
		Name: name,
		Args: append(args, url),
	})
	if err != nil {
		stderr := strings.TrimSpace(string(result.Stderr))
		if stderr != "" {
			return fmt.Errorf("open %s: %w: %s", url, err, stderr)
		}
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

// resolve picks the opener command, preferring the configured override.
func (o *Opener) resolve() (string, []string, error) {
	if fields := strings.Fields(o.command); len(fields) > 0 {
		return fields[0], fields[1:], nil
	}

	name, args := defaultOpener(runtime.GOOS)
	if _, err := o.exec.LookPath(name); err != nil {
		return "", nil, fmt.Errorf("%w: %s not found", ErrNoBrowser, name)
	}
	return name, args, nil
}

// defaultOpener returns the stock opener command for the platform.
func defaultOpener(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}
