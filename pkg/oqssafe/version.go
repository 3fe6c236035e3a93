package oqssafe

import "github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/backend"

var (
	Version = "v0.0.0-in-progress"

	// MinimumLiboqs is the oldest liboqs release the native adapter has been
	// checked against.
	MinimumLiboqs = "0.8.0"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// UpstreamVersion returns the version reported by liboqs when the native
// adapter is compiled in, or an empty string.
func UpstreamVersion() string {
	return backend.NativeVersion()
}

// NativeBuilt reports whether this binary contains the liboqs adapter.
func NativeBuilt() bool {
	return backend.NativeAvailable()
}
