// Package backend hosts the two interchangeable implementations behind the
// public kem and sig packages: the native liboqs adapter reached through cgo
// and a size-faithful mock.
//
// The native adapter only compiles with cgo enabled and the liboqs build tag
// set; without them NewNative returns ErrNotBuilt so the rest of the
// repository builds on machines that lack the library.
package backend
