//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package arena

// Lock is not supported on this platform.
func (a *Arena) Lock() error {
	return ErrLockUnsupported
}

// Unlock is not supported on this platform.
func (a *Arena) Unlock() error {
	return ErrLockUnsupported
}
