//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package emu

// allocNative falls back to the Go heap.
func allocNative(size int) ([]byte, func() error, error) {
	return make([]byte, size), func() error { return nil }, nil
}
