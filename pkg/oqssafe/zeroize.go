package oqssafe

import "github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/secret"

// ZeroizeBytes overwrites buf with zeros. Use it on byte slices obtained from
// the explicit secret-key export functions once they are no longer needed.
// The stores are kept alive with runtime.KeepAlive (golang/go#33325).
func ZeroizeBytes(buf []byte) {
	secret.Zero(buf)
}
