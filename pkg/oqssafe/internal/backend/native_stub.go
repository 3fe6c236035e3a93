//go:build !cgo || !liboqs

package backend

// NativeAvailable reports whether the liboqs adapter is compiled in.
func NativeAvailable() bool { return false }

// NewNative returns ErrNotBuilt in builds without cgo or the liboqs tag.
func NewNative() (Backend, error) { return nil, ErrNotBuilt }

// NativeVersion returns an empty string when the adapter is not compiled in.
func NativeVersion() string { return "" }
