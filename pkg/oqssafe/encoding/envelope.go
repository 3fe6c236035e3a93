package encoding

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/secret"
)

// Version is the envelope format version written by this package.
const Version = 1

// Algorithm families recorded in envelopes.
const (
	AlgorithmKyber768   = "Kyber768"
	AlgorithmDilithium2 = "Dilithium2"
)

// Kind identifies the payload of an envelope.
type Kind uint8

const (
	KindKEMPublicKey Kind = iota + 1
	KindKEMCiphertext
	KindKEMSecretKey
	KindSigPublicKey
	KindSigSecretKey
	KindSignature
)

// String returns the kind as used in error messages.
func (k Kind) String() string {
	switch k {
	case KindKEMPublicKey:
		return "kem public key"
	case KindKEMCiphertext:
		return "kem ciphertext"
	case KindKEMSecretKey:
		return "kem secret key"
	case KindSigPublicKey:
		return "sig public key"
	case KindSigSecretKey:
		return "sig secret key"
	case KindSignature:
		return "signature"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

var (
	ErrEmpty              = errors.New("encoding: empty payload")
	ErrMalformed          = errors.New("encoding: malformed envelope")
	ErrUnsupportedVersion = errors.New("encoding: unsupported envelope version")
	ErrKindMismatch       = errors.New("encoding: envelope kind mismatch")
	ErrAlgorithmMismatch  = errors.New("encoding: envelope algorithm mismatch")
)

type envelope struct {
	Version   uint   `cbor:"1,keyasint"`
	Algorithm string `cbor:"2,keyasint"`
	Kind      Kind   `cbor:"3,keyasint"`
	Data      []byte `cbor:"4,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("encoding: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		MaxMapPairs:       16,
	}.DecMode()
	if err != nil {
		panic("encoding: CBOR decoder initialization failed: " + err.Error())
	}
}

func seal(algorithm string, kind Kind, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, kind)
	}
	return encMode.Marshal(envelope{
		Version:   Version,
		Algorithm: algorithm,
		Kind:      kind,
		Data:      data,
	})
}

// open decodes an envelope and checks it carries the expected algorithm and
// kind. On any failure the decoded payload is wiped before returning.
func open(raw []byte, algorithm string, kind Kind) ([]byte, error) {
	var env envelope
	if err := decMode.Unmarshal(raw, &env); err != nil {
		secret.Zero(env.Data)
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var err error
	switch {
	case env.Version != Version:
		err = fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	case env.Kind != kind:
		err = fmt.Errorf("%w: got %s, want %s", ErrKindMismatch, env.Kind, kind)
	case env.Algorithm != algorithm:
		err = fmt.Errorf("%w: got %q, want %q", ErrAlgorithmMismatch, env.Algorithm, algorithm)
	case len(env.Data) == 0:
		err = fmt.Errorf("%w: %s", ErrEmpty, kind)
	}
	if err != nil {
		secret.Zero(env.Data)
		return nil, err
	}
	return env.Data, nil
}

// Inspect decodes the header of an envelope without checking its kind or
// algorithm.
func Inspect(raw []byte) (algorithm string, kind Kind, err error) {
	var env envelope
	if err := decMode.Unmarshal(raw, &env); err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	secret.Zero(env.Data)
	if env.Version != Version {
		return "", 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return env.Algorithm, env.Kind, nil
}
