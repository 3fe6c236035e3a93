package sig

import (
	"runtime"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/backend"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/secret"
)

// PublicKey is a verification key.
type PublicKey struct {
	data []byte
}

// PublicKeyFromBytes copies b into a PublicKey.
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

// Signature is a detached signature.
type Signature struct {
	data []byte
}

// SignatureFromBytes copies b into a Signature.
func SignatureFromBytes(b []byte) *Signature {
	return &Signature{data: append([]byte(nil), b...)}
}

// Bytes returns a copy of the signature.
func (s *Signature) Bytes() []byte {
	if s == nil {
		return nil
	}
	return append([]byte(nil), s.data...)
}

// Len returns the signature length.
func (s *Signature) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

func (s *Signature) raw() []byte {
	if s == nil {
		return nil
	}
	return s.data
}

// SecretKey is a signing key held in protected memory. Call Destroy when
// it is no longer needed.
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

// SecretKeyFromBytes moves b into protected memory and zeroes b.
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
