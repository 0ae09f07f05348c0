//go:build windows

package platform

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// mutexLock holds a named kernel mutex scoped to the current session.
// Windows releases it when the owning process exits, so a crashed
// client never blocks the next launch.
type mutexLock struct {
	handle windows.Handle
}

func acquireInstanceLock(appID string) (InstanceLock, error) {
	sid, err := currentUserSID()
	if err != nil {
		return nil, err
	}

	namePtr, err := windows.UTF16PtrFromString(instanceMutexName(appID, sid))
	if err != nil {
		return nil, fmt.Errorf("encode mutex name: %w", err)
	}

	handle, err := windows.CreateMutex(nil, false, namePtr)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		if handle != 0 {
			_ = windows.CloseHandle(handle)
		}

		return nil, ErrInstanceAlreadyRunning
	}
	if err != nil {
		if handle != 0 {
			_ = windows.CloseHandle(handle)
		}

		return nil, fmt.Errorf("create mutex: %w", err)
	}

	return &mutexLock{handle: handle}, nil
}

func (l *mutexLock) Release() error {
	if l == nil || l.handle == 0 {
		return nil
	}

	err := windows.CloseHandle(l.handle)
	l.handle = 0
	if err != nil {
		return fmt.Errorf("close mutex handle: %w", err)
	}

	return nil
}

func currentUserSID() (string, error) {
	token := windows.GetCurrentProcessToken()
	tokenUser, err := token.GetTokenUser()
	if err != nil {
		return "", fmt.Errorf("read process token user: %w", err)
	}

	return tokenUser.User.Sid.String(), nil
}

// instanceMutexName scopes the mutex to the user's SID so two users on
// the same host can each run their own client.
func instanceMutexName(appID, userSID string) string {
	return fmt.Sprintf(`Local\%s-instance-%s`,
		sanitizeLockComponent(appID, "netwarden"),
		sanitizeLockComponent(userSID, "sid"))
}
