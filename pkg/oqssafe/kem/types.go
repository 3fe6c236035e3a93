package kem

import (
	"crypto/subtle"
	"runtime"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/backend"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/secret"
)

// PublicKey is a KEM encapsulation key.
type PublicKey struct {
	data []byte
}

// PublicKeyFromBytes copies b into a PublicKey. The length is checked when
// the key is used.
func PublicKeyFromBytes(b []byte) *PublicKey {
	return &PublicKey{data: append([]byte(nil), b...)}
}

// Bytes returns a copy of the encoded key.
func (p *PublicKey) Bytes() []byte {
	if p == nil {
		return nil
	}
	return append([]byte(nil), p.data...)
}

// Len returns the encoded length.
func (p *PublicKey) Len() int {
	if p == nil {
		return 0
	}
	return len(p.data)
}

func (p *PublicKey) raw() []byte {
	if p == nil {
		return nil
	}
	return p.data
}

// Ciphertext is the encapsulation sent to the holder of the secret key.
type Ciphertext struct {
	data []byte
}

// CiphertextFromBytes copies b into a Ciphertext.
func CiphertextFromBytes(b []byte) *Ciphertext {
	return &Ciphertext{data: append([]byte(nil), b...)}
}

// Bytes returns a copy of the ciphertext.
func (c *Ciphertext) Bytes() []byte {
	if c == nil {
		return nil
	}
	return append([]byte(nil), c.data...)
}

// Len returns the ciphertext length.
func (c *Ciphertext) Len() int {
	if c == nil {
		return 0
	}
	return len(c.data)
}

func (c *Ciphertext) raw() []byte {
	if c == nil {
		return nil
	}
	return c.data
}

// SecretKey is a KEM decapsulation key held in protected memory.
//
// Call Destroy when the key is no longer needed. A finalizer destroys keys
// that become unreachable, but its timing is up to the garbage collector.
type SecretKey struct {
	buf *secret.Buffer
}

func newSecretKey(buf *secret.Buffer) *SecretKey {
	k := &SecretKey{buf: buf}
	runtime.SetFinalizer(k, func(key *SecretKey) {
		_ = key.Destroy()
	})
	return k
}

// SecretKeyFromBytes moves b into protected memory and zeroes b. The length
// is checked when the key is used; an empty b fails with
// oqssafe.ErrInvalidLength.
func SecretKeyFromBytes(b []byte) (*SecretKey, error) {
	if len(b) == 0 {
		return nil, oqssafe.RemapError(backend.ErrInvalidLength)
	}
	buf, err := secret.NewFromBytes(b)
	if err != nil {
		return nil, oqssafe.RemapError(&backend.InternalError{Tag: backend.TagSecretAlloc, Err: err})
	}
	return newSecretKey(buf), nil
}

// Bytes returns the key material, or nil after Destroy.
// The slice aliases protected memory that is released by Destroy or by the
// finalizer once the owner is unreachable, so keep the owner reachable while
// the slice is in use, for example with runtime.KeepAlive.
func (k *SecretKey) Bytes() []byte {
	if k == nil {
		return nil
	}
	return k.buf.Bytes()
}

// Len returns the key length, or 0 after Destroy.
func (k *SecretKey) Len() int {
	if k == nil {
		return 0
	}
	return k.buf.Len()
}

// Destroy zeroes and releases the key. It is safe to call more than once.
func (k *SecretKey) Destroy() error {
	if k == nil {
		return nil
	}
	runtime.SetFinalizer(k, nil)
	return k.buf.Close()
}

// SharedSecret is the value both parties derive. It is held in protected
// memory.
type SharedSecret struct {
	buf *secret.Buffer
}

func newSharedSecret(buf *secret.Buffer) *SharedSecret {
	s := &SharedSecret{buf: buf}
	runtime.SetFinalizer(s, func(ss *SharedSecret) {
		_ = ss.Destroy()
	})
	return s
}

// SharedSecretFromBytes moves b into protected memory and zeroes b.
func SharedSecretFromBytes(b []byte) (*SharedSecret, error) {
	if len(b) == 0 {
		return nil, oqssafe.RemapError(backend.ErrInvalidLength)
	}
	buf, err := secret.NewFromBytes(b)
	if err != nil {
		return nil, oqssafe.RemapError(&backend.InternalError{Tag: backend.TagSecretAlloc, Err: err})
	}
	return newSharedSecret(buf), nil
}

// Bytes returns the shared secret, or nil after Destroy.
// The slice aliases protected memory that is released by Destroy or by the
// finalizer once the owner is unreachable, so keep the owner reachable while
// the slice is in use, for example with runtime.KeepAlive.
func (s *SharedSecret) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.buf.Bytes()
}

// Len returns the shared secret length, or 0 after Destroy.
func (s *SharedSecret) Len() int {
	if s == nil {
		return 0
	}
	return s.buf.Len()
}

// Equal reports whether both secrets hold the same bytes, in constant time.
// Destroyed secrets are never equal.
func (s *SharedSecret) Equal(other *SharedSecret) bool {
	a, b := s.Bytes(), other.Bytes()
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	equal := subtle.ConstantTimeCompare(a, b) == 1
	runtime.KeepAlive(s)
	runtime.KeepAlive(other)
	return equal
}

// Destroy zeroes and releases the shared secret. It is safe to call more
// than once.
func (s *SharedSecret) Destroy() error {
	if s == nil {
		return nil
	}
	runtime.SetFinalizer(s, nil)
	return s.buf.Close()
}
