//go:build !unix && !windows

package platform

import (
	"fmt"
	"runtime"
)

// No lock backend here; the caller downgrades to a warning and starts
// anyway.
func acquireInstanceLock(_ string) (InstanceLock, error) {
	return nil, fmt.Errorf("%w on %s", ErrInstanceLockUnsupported, runtime.GOOS)
}
