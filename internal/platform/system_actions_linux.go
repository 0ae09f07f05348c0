//go:build linux

package platform

type linuxSystemActions struct{}

func newSystemActions() SystemActions {
	return linuxSystemActions{}
}

func (linuxSystemActions) OpenPath(path string) error {
	return openPathForOS("linux", path, startCommandDetached)
}
