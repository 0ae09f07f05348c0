//go:build unix && !windows

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const lockFileName = "netwarden.lock"

// flockLock holds an advisory flock on a per-user lock file. The
// kernel drops the lock when the owning process exits, so a crashed
// client never blocks the next launch.
type flockLock struct {
	file *os.File
}

func acquireInstanceLock(appID string) (InstanceLock, error) {
	path, err := flockPath(appID)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- path lives under the user's runtime or temp dir.
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()
		if flockContended(err) {
			return nil, ErrInstanceAlreadyRunning
		}

		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return &flockLock{file: file}, nil
}

func (l *flockLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}

	fd := int(l.file.Fd())
	unlockErr := syscall.Flock(fd, syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if unlockErr != nil && !errors.Is(unlockErr, syscall.EBADF) {
		return fmt.Errorf("unlock lock file: %w", unlockErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close lock file: %w", closeErr)
	}

	return nil
}

// flockPath picks the lock file location: the XDG runtime dir when the
// session provides one, otherwise a per-uid directory under the system
// temp dir so two users on the same host never contend.
func flockPath(appID string) (string, error) {
	app := sanitizeLockComponent(appID, "netwarden")

	var dir string
	if runtimeDir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); runtimeDir != "" {
		dir = filepath.Join(runtimeDir, app)
	} else {
		dir = filepath.Join(os.TempDir(), app+"-"+strconv.Itoa(os.Getuid()))
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create lock dir: %w", err)
	}

	return filepath.Join(dir, lockFileName), nil
}

func flockContended(err error) bool {
	return errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN)
}
