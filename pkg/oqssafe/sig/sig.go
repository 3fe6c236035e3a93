package sig

import (
	"context"
	"runtime"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/backend"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/logging"
)

// Scheme is a digital signature scheme.
type Scheme interface {
	Keypair() (*PublicKey, *SecretKey, error)

	// Sign signs msg. It fails with oqssafe.ErrInvalidLength when sk has
	// the wrong length.
	Sign(sk *SecretKey, msg []byte) (*Signature, error)

	// Verify returns nil when sig is valid for pk and msg. The lengths of pk
	// and sig are checked first (oqssafe.ErrInvalidLength); a rejected
	// signature yields oqssafe.ErrVerifyFail.
	Verify(pk *PublicKey, msg []byte, sig *Signature) error
}

// Sizes are the lengths declared by the active backend. MaxSignature is an
// upper bound.
type Sizes struct {
	Backend      string
	Algorithm    string
	PublicKey    int
	SecretKey    int
	MaxSignature int
}

// Dilithium2 implements Scheme with the backend of a Library.
type Dilithium2 struct {
	lib *oqssafe.Library
}

var _ Scheme = (*Dilithium2)(nil)

// NewDilithium2 returns the Dilithium2 scheme of lib.
func NewDilithium2(lib *oqssafe.Library) *Dilithium2 {
	return &Dilithium2{lib: lib}
}

func (d *Dilithium2) backend() (backend.Signature, logging.Logger, error) {
	var lib *oqssafe.Library
	if d != nil {
		lib = d.lib
	}
	b, err := lib.Backend()
	if err != nil {
		return nil, nil, err
	}
	return b.Signature(), lib.Logger().With("scheme", "dilithium2"), nil
}

func fail(logger logging.Logger, op string, err error) error {
	err = oqssafe.RemapError(err)
	switch oqssafe.KindOf(err) {
	case oqssafe.KindInternal:
		logger.Warn(context.Background(), "signature operation failed", "op", op, "tag", oqssafe.TagOf(err))
	default:
		logger.Debug(context.Background(), "signature operation rejected", "op", op, "error", err)
	}
	return err
}

// Sizes resolves the algorithm and reports its declared lengths.
func (d *Dilithium2) Sizes() (Sizes, error) {
	b, logger, err := d.backend()
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
		Backend:      d.lib.BackendName(),
		Algorithm:    name,
		PublicKey:    lengths.PublicKey,
		SecretKey:    lengths.SecretKey,
		MaxSignature: lengths.MaxSignature,
	}, nil
}

// Keypair generates a new signing key pair.
func (d *Dilithium2) Keypair() (*PublicKey, *SecretKey, error) {
	b, logger, err := d.backend()
	if err != nil {
		return nil, nil, err
	}

	pk, sk, err := b.Keypair()
	if err != nil {
		return nil, nil, fail(logger, "keypair", err)
	}
	logger.Debug(context.Background(), "sig keypair", logging.Bytes("public_key", pk), logging.Redacted("secret_key"))
	return &PublicKey{data: pk}, newSecretKey(sk), nil
}

// Sign signs msg with sk.
func (d *Dilithium2) Sign(sk *SecretKey, msg []byte) (*Signature, error) {
	b, logger, err := d.backend()
	if err != nil {
		return nil, err
	}

	sig, err := b.Sign(sk.Bytes(), msg)
	runtime.KeepAlive(sk)
	if err != nil {
		return nil, fail(logger, "sign", err)
	}
	logger.Debug(context.Background(), "sig sign", "message_len", len(msg), logging.Bytes("signature", sig))
	return &Signature{data: sig}, nil
}

// Verify checks sig over msg against pk.
func (d *Dilithium2) Verify(pk *PublicKey, msg []byte, sig *Signature) error {
	b, logger, err := d.backend()
	if err != nil {
		return err
	}

	if err := b.Verify(pk.raw(), msg, sig.raw()); err != nil {
		return fail(logger, "verify", err)
	}
	return nil
}
