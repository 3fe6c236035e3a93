// Package handshake turns a Kyber768 shared secret into a pair of session
// keys with HKDF-SHA256.
//
// The initiator encapsulates to the responder's public key and sends the
// ciphertext; the responder decapsulates it. Both sides then expand the
// shared secret with the salt "oqs-safe context" into a 32-byte encryption
// key (info "enc") and a 32-byte MAC key (info "mac"). Under the mock
// backend the two sides do not agree.
package handshake

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/hkdf"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/secret"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/kem"
)

// KeySize is the length of each derived key.
const KeySize = 32

var (
	salt    = []byte("oqs-safe context")
	infoEnc = []byte("enc")
	infoMAC = []byte("mac")
)

// ErrNoSharedSecret reports a nil or destroyed shared secret.
var ErrNoSharedSecret = errors.New("handshake: shared secret is empty or destroyed")

// SessionKeys holds the derived keys in protected memory.
type SessionKeys struct {
	enc *secret.Buffer
	mac *secret.Buffer
}

// DeriveSessionKeys expands ss into session keys. ss is left intact.
func DeriveSessionKeys(ss *kem.SharedSecret) (*SessionKeys, error) {
	ikm := ss.Bytes()
	if len(ikm) == 0 {
		return nil, ErrNoSharedSecret
	}
	defer runtime.KeepAlive(ss)

	enc, err := expand(ikm, infoEnc)
	if err != nil {
		return nil, err
	}
	mac, err := expand(ikm, infoMAC)
	if err != nil {
		_ = enc.Close()
		return nil, err
	}

	keys := &SessionKeys{enc: enc, mac: mac}
	runtime.SetFinalizer(keys, func(k *SessionKeys) {
		_ = k.Destroy()
	})
	return keys, nil
}

func expand(ikm, info []byte) (*secret.Buffer, error) {
	out, err := secret.New(KeySize)
	if err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt, info), out.Bytes()); err != nil {
		_ = out.Close()
		return nil, fmt.Errorf("handshake: hkdf expand %s: %w", info, err)
	}
	return out, nil
}

// Initiate encapsulates to the peer's public key. The ciphertext goes to the
// peer; the shared secret is destroyed once the keys are derived.
func Initiate(k kem.Scheme, peer *kem.PublicKey) (*kem.Ciphertext, *SessionKeys, error) {
	ct, ss, err := k.Encapsulate(peer)
	if err != nil {
		return nil, nil, err
	}
	defer ss.Destroy()

	keys, err := DeriveSessionKeys(ss)
	if err != nil {
		return nil, nil, err
	}
	return ct, keys, nil
}

// Respond decapsulates the initiator's ciphertext with sk and derives the
// same session keys.
func Respond(k kem.Scheme, sk *kem.SecretKey, ct *kem.Ciphertext) (*SessionKeys, error) {
	ss, err := k.Decapsulate(ct, sk)
	if err != nil {
		return nil, err
	}
	defer ss.Destroy()

	return DeriveSessionKeys(ss)
}

// Encryption returns the encryption key, or nil after Destroy.
// The slice aliases protected memory that is released by Destroy or by the
// finalizer once the owner is unreachable, so keep the owner reachable while
// the slice is in use, for example with runtime.KeepAlive.
func (s *SessionKeys) Encryption() []byte {
	if s == nil {
		return nil
	}
	return s.enc.Bytes()
}

// MAC returns the MAC key, or nil after Destroy.
// The slice aliases protected memory that is released by Destroy or by the
// finalizer once the owner is unreachable, so keep the owner reachable while
// the slice is in use, for example with runtime.KeepAlive.
func (s *SessionKeys) MAC() []byte {
	if s == nil {
		return nil
	}
	return s.mac.Bytes()
}

// Equal compares both keys in constant time.
func (s *SessionKeys) Equal(other *SessionKeys) bool {
	a, b := s.Encryption(), other.Encryption()
	c, d := s.MAC(), other.MAC()
	if len(a) == 0 || len(b) == 0 || len(c) == 0 || len(d) == 0 {
		return false
	}
	equal := subtle.ConstantTimeCompare(a, b)&subtle.ConstantTimeCompare(c, d) == 1
	runtime.KeepAlive(s)
	runtime.KeepAlive(other)
	return equal
}

// Destroy zeroes both keys. It is safe to call more than once.
func (s *SessionKeys) Destroy() error {
	if s == nil {
		return nil
	}
	runtime.SetFinalizer(s, nil)
	return errors.Join(s.enc.Close(), s.mac.Close())
}
