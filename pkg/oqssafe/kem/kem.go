package kem

import (
	"context"
	"runtime"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/backend"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/logging"
)

// Scheme is a key encapsulation mechanism.
type Scheme interface {
	// Keypair generates a new key pair. It fails only with an internal
	// error.
	Keypair() (*PublicKey, *SecretKey, error)

	// Encapsulate produces a ciphertext and shared secret for pk. It fails
	// with oqssafe.ErrInvalidLength when pk has the wrong length.
	Encapsulate(pk *PublicKey) (*Ciphertext, *SharedSecret, error)

	// Decapsulate recovers the shared secret from ct. It fails with
	// oqssafe.ErrInvalidLength when ct or sk has the wrong length,
	// including a destroyed sk.
	Decapsulate(ct *Ciphertext, sk *SecretKey) (*SharedSecret, error)
}

// Sizes are the lengths declared by the active backend.
type Sizes struct {
	Backend      string
	Algorithm    string
	PublicKey    int
	SecretKey    int
	Ciphertext   int
	SharedSecret int
}

// Kyber768 implements Scheme with the backend of a Library.
type Kyber768 struct {
	lib *oqssafe.Library
}

var _ Scheme = (*Kyber768)(nil)

// NewKyber768 returns the Kyber768 scheme of lib. A nil or closed lib makes
// every operation fail with oqssafe.ErrNotImplemented.
func NewKyber768(lib *oqssafe.Library) *Kyber768 {
	return &Kyber768{lib: lib}
}

func (k *Kyber768) library() *oqssafe.Library {
	if k == nil {
		return nil
	}
	return k.lib
}

func (k *Kyber768) backend() (backend.KEM, logging.Logger, error) {
	lib := k.library()
	b, err := lib.Backend()
	if err != nil {
		return nil, nil, err
	}
	return b.KEM(), lib.Logger().With("scheme", "kyber768"), nil
}

func fail(logger logging.Logger, op string, err error) error {
	err = oqssafe.RemapError(err)
	if oqssafe.KindOf(err) == oqssafe.KindInternal {
		logger.Warn(context.Background(), "kem operation failed", "op", op, "tag", oqssafe.TagOf(err))
	} else {
		logger.Debug(context.Background(), "kem operation rejected", "op", op, "error", err)
	}
	return err
}

// Sizes resolves the algorithm and reports its declared lengths.
func (k *Kyber768) Sizes() (Sizes, error) {
	b, logger, err := k.backend()
	if err != nil {
		return Sizes{}, err
	}
	name, err := b.Algorithm()
	if err != nil {
		return Sizes{}, fail(logger, "sizes", err)
	}
	lengths, err := b.Lengths()
	if err != nil {
		return Sizes{}, fail(logger, "sizes", err)
	}
	return Sizes{
		Backend:      k.lib.BackendName(),
		Algorithm:    name,
		PublicKey:    lengths.PublicKey,
		SecretKey:    lengths.SecretKey,
		Ciphertext:   lengths.Ciphertext,
		SharedSecret: lengths.SharedSecret,
	}, nil
}

// Keypair generates a new key pair.
func (k *Kyber768) Keypair() (*PublicKey, *SecretKey, error) {
	b, logger, err := k.backend()
	if err != nil {
		return nil, nil, err
	}

	pk, sk, err := b.Keypair()
	if err != nil {
		return nil, nil, fail(logger, "keypair", err)
	}
	logger.Debug(context.Background(), "kem keypair", logging.Bytes("public_key", pk), logging.Redacted("secret_key"))
	return &PublicKey{data: pk}, newSecretKey(sk), nil
}

// Encapsulate produces a ciphertext and shared secret for pk.
func (k *Kyber768) Encapsulate(pk *PublicKey) (*Ciphertext, *SharedSecret, error) {
	b, logger, err := k.backend()
	if err != nil {
		return nil, nil, err
	}

	ct, ss, err := b.Encapsulate(pk.raw())
	if err != nil {
		return nil, nil, fail(logger, "encapsulate", err)
	}
	logger.Debug(context.Background(), "kem encapsulate", logging.Bytes("ciphertext", ct), logging.Redacted("shared_secret"))
	return &Ciphertext{data: ct}, newSharedSecret(ss), nil
}

// Decapsulate recovers the shared secret from ct with sk.
func (k *Kyber768) Decapsulate(ct *Ciphertext, sk *SecretKey) (*SharedSecret, error) {
	b, logger, err := k.backend()
	if err != nil {
		return nil, err
	}

	ss, err := b.Decapsulate(ct.raw(), sk.Bytes())
	runtime.KeepAlive(sk)
	if err != nil {
		return nil, fail(logger, "decapsulate", err)
	}
	logger.Debug(context.Background(), "kem decapsulate", logging.Redacted("shared_secret"))
	return newSharedSecret(ss), nil
}
