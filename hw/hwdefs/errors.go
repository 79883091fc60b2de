package hwdefs

import "fmt"

// UnsupportedModeError is returned (or raised) when a mode is requested that
// is either not supported by a component or whose hardware behavior is not
// known well enough to be emulated.
type UnsupportedModeError struct {
	What string // component or feature
	Mode string // requested mode
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("%s: unsupported mode %q", e.What, e.Mode)
}
