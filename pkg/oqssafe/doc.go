// Package oqssafe is a post-quantum capability layer over liboqs.
//
// The kem and sig subpackages expose Kyber768 key encapsulation and
// Dilithium2 signatures through one interface each. The computation runs in
// liboqs when the binary is built with cgo and -tags=liboqs, or in a
// size-faithful mock otherwise. The mock performs no cryptography: its
// shared secrets do not agree and its verification only checks lengths.
//
// A Library fixes the backend when it is opened:
//
//	lib, err := oqssafe.Open(oqssafe.Config{
//	    Backend:     oqssafe.BackendAuto,
//	    Environment: oqssafe.EnvProduction,
//	})
//	if err != nil {
//	    return err
//	}
//	defer lib.Close()
//
//	k := kem.NewKyber768(lib)
//	pk, sk, err := k.Keypair()
//	...
//	defer sk.Destroy()
//
// Selecting the mock in production fails with ErrMockInProduction unless
// AllowMockInProduction is set.
//
// # Errors
//
// Every operation returns nil or an error matching exactly one of
// ErrNotImplemented, ErrInvalidLength, ErrVerifyFail or ErrInternal under
// errors.Is. KindOf classifies an error and TagOf names the failing backend
// step of an internal error. Lengths are checked before any native call.
//
// # Secret material
//
// Secret keys and shared secrets live in memory outside the Go heap, locked
// where the kernel allows it, and are zeroed by Destroy. A finalizer zeroes
// them if Destroy is never called, but callers should not rely on it.
package oqssafe
