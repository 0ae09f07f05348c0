//go:build windows

package platform

type windowsSystemActions struct{}

func newSystemActions() SystemActions {
	return windowsSystemActions{}
}

func (windowsSystemActions) OpenPath(path string) error {
	return openPathForOS("windows", path, startCommandDetached)
}
