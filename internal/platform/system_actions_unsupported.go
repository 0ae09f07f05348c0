//go:build !linux && !windows

package platform

import "runtime"

type unsupportedSystemActions struct{}

func newSystemActions() SystemActions {
	return unsupportedSystemActions{}
}

func (unsupportedSystemActions) OpenPath(path string) error {
	return openPathForOS(runtime.GOOS, path, startCommandDetached)
}
