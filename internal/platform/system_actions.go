package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// SystemActions provides OS-specific helpers triggered from the UI.
type SystemActions interface {
	OpenPath(path string) error
}

func NewSystemActions() SystemActions {
	return newSystemActions()
}

type commandSpec struct {
	name string
	args []string
}

type commandStarter func(name string, args ...string) error

func openPathForOS(goos, path string, start commandStarter) error {
	normalizedOS := strings.ToLower(strings.TrimSpace(goos))
	commands, err := openPathCommandsForOS(normalizedOS, path)
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		return fmt.Errorf("opening files is not supported on %s", normalizedOS)
	}

	slog.Info("opening path", "goos", normalizedOS, "path", path, "attempts", len(commands))

	var errs []error
	for i, spec := range commands {
		attempt := i + 1
		if err := start(spec.name, spec.args...); err == nil {
			slog.Info("opened path", "goos", normalizedOS, "command", spec.name, "attempt", attempt)

			return nil
		} else {
			slog.Debug(
				"open path command failed",
				"goos", normalizedOS,
				"command", spec.name,
				"args", spec.args,
				"attempt", attempt,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", spec.name, err))
		}
	}

	joinedErr := errors.Join(errs...)
	slog.Warn("failed to open path", "goos", normalizedOS, "path", path, "error", joinedErr)

	return joinedErr
}

func openPathCommandsForOS(goos, path string) ([]commandSpec, error) {
	switch strings.ToLower(strings.TrimSpace(goos)) {
	case "windows":
		return []commandSpec{
			{name: "rundll32", args: []string{"url.dll,FileProtocolHandler", path}},
			{name: "explorer", args: []string{path}},
		}, nil
	case "linux":
		return []commandSpec{
			{name: "xdg-open", args: []string{path}},
			{name: "gio", args: []string{"open", path}},
			{name: "kde-open", args: []string{path}},
		}, nil
	case "darwin":
		return []commandSpec{
			{name: "open", args: []string{path}},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}

func startCommandDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)

	return cmd.Start()
}
