//go:build linux || darwin || freebsd || netbsd || openbsd

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Lock pins the arena region in physical memory, so page faults cannot
// stall the audio thread.
func (a *Arena) Lock() error {
	if a.locked || a.mem == nil {
		return nil
	}
	if err := unix.Mlock(a.mem); err != nil {
		return fmt.Errorf("arena: mlock %d bytes: %w", len(a.mem), err)
	}
	a.locked = true
	return nil
}

// Unlock releases a previous Lock.
func (a *Arena) Unlock() error {
	if !a.locked {
		return nil
	}
	if err := unix.Munlock(a.mem); err != nil {
		return fmt.Errorf("arena: munlock: %w", err)
	}
	a.locked = false
	return nil
}
