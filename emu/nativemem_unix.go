//go:build linux || darwin || freebsd || netbsd || openbsd

package emu

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// allocNative returns size bytes of zeroed memory mapped outside of the Go
// heap, and the function releasing it.
func allocNative(size int) ([]byte, func() error, error) {
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}
	return mem, func() error { return unix.Munmap(mem) }, nil
}
