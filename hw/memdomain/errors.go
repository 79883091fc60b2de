package memdomain

import "fmt"

// RangeError reports an access outside of a domain.
type RangeError struct {
	Domain string
	Addr   int64 // first accessed address
	Count  int64 // number of accessed bytes
	Size   int64 // domain size
}

func (e *RangeError) Error() string {
	if e.Count <= 1 {
		return fmt.Sprintf("memdomain %q: address 0x%X out of range [0, 0x%X)", e.Domain, e.Addr, e.Size)
	}
	return fmt.Sprintf("memdomain %q: range [0x%X, 0x%X) out of range [0, 0x%X)", e.Domain, e.Addr, e.Addr+e.Count, e.Size)
}
