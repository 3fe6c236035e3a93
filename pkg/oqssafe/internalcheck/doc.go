// Package internalcheck holds source-level policy tests for the oqssafe
// packages.
//
// The tests load the module's packages with golang.org/x/tools/go/packages
// and walk their syntax trees. They fail when library code:
//   - compares byte slices with == or != instead of crypto/subtle
//   - formats values with %x, which is how secrets leak into logs
//   - hands a raw []byte to a logging.Logger call instead of logging.Bytes
//   - imports unsafe or cgo outside the backend package
//   - leaves an exported function in a key package undocumented, or returns
//     protected memory without telling callers to keep the owner reachable
//
// This package has no exported API.
package internalcheck
