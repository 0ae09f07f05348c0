package platform

import (
	"errors"
	"strings"
)

// A second client process would race the first one for the sqlite
// cache and the config file, so the GUI refuses to start while another
// instance holds the lock.
var (
	ErrInstanceAlreadyRunning  = errors.New("another instance holds the lock")
	ErrInstanceLockUnsupported = errors.New("instance lock not implemented")
)

// InstanceLock is a held per-user lock. Release frees it for the next
// launch; the OS reclaims it if the process dies without releasing.
type InstanceLock interface {
	Release() error
}

// AcquireInstanceLock takes the per-user lock for appID. It fails with
// ErrInstanceAlreadyRunning when another process of the same user
// already holds it.
func AcquireInstanceLock(appID string) (InstanceLock, error) {
	return acquireInstanceLock(sanitizeLockComponent(appID, "netwarden"))
}

// sanitizeLockComponent reduces raw to characters that are safe in
// both file names and kernel object names, falling back when nothing
// usable survives.
func sanitizeLockComponent(raw, fallback string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(raw))

	cleaned = strings.Trim(cleaned, "_-.")
	if cleaned == "" {
		return fallback
	}

	return cleaned
}
