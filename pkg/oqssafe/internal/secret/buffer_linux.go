//go:build linux

package secret

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func allocate(size int) (*Buffer, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return &Buffer{data: make([]byte, size), length: size}, nil
	}

	b := &Buffer{data: data, length: size, mapped: true}

	// RLIMIT_MEMLOCK is commonly 64 KiB in containers. An unlocked mapping
	// still gets zeroed on Close.
	if err := unix.Mlock(data); err == nil {
		b.locked = true
	}

	// Not every kernel supports MADV_DONTDUMP.
	_ = unix.Madvise(data, unix.MADV_DONTDUMP)

	return b, nil
}

// release unlocks and unmaps a buffer whose contents were already zeroed.
// Munmap needs the exact slice returned by Mmap, so b.data is never resliced.
func release(b *Buffer) error {
	if !b.mapped {
		return nil
	}

	var firstError error
	if b.locked {
		if err := unix.Munlock(b.data); err != nil {
			firstError = fmt.Errorf("secret: munlock failed: %w", err)
		}
	}
	if err := unix.Munmap(b.data); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap failed: %w", err)
	}
	return firstError
}
