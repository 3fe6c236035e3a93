package backend

import (
	"errors"
	"fmt"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/secret"
)

// Backend names reported by Name.
const (
	NameNative = "liboqs"
	NameMock   = "mock"
)

// Internal failure tags. Each names the step that failed.
const (
	TagKEMNew      = "kem new"
	TagKEMKeypair  = "kem keypair"
	TagKEMEncaps   = "kem encaps"
	TagKEMDecaps   = "kem decaps"
	TagKEMLayout   = "kem layout"
	TagSigNew      = "sig new"
	TagSigKeypair  = "sig keypair"
	TagSigSign     = "sig sign"
	TagSigOutLen   = "sig out_len"
	TagSigLayout   = "sig layout"
	TagSecretAlloc = "secret alloc"
	TagRNG         = "rng"
)

// KEMCandidates lists the identifiers tried, in order, when resolving the
// Kyber768 KEM. Newer names come first. Entries are only ever appended so
// older library releases keep resolving.
var KEMCandidates = []string{"ML-KEM-768", "Kyber768"}

// SigCandidates lists the identifiers tried, in order, when resolving the
// Dilithium2 signature scheme.
var SigCandidates = []string{"ML-DSA-44", "Dilithium2", "ML-DSA-2"}

var (
	// ErrNotBuilt reports that the native adapter was not compiled into the
	// current binary (cgo disabled or the liboqs build tag missing).
	ErrNotBuilt = errors.New("oqssafe/internal/backend: native liboqs backend not built")

	// ErrInvalidLength reports a caller-supplied buffer whose length does not
	// match the resolved algorithm.
	ErrInvalidLength = errors.New("oqssafe/internal/backend: invalid length")

	// ErrVerifyFail reports that verification ran and rejected the signature.
	ErrVerifyFail = errors.New("oqssafe/internal/backend: signature verification failed")
)

// InternalError reports a failed backend step identified by Tag.
type InternalError struct {
	Tag string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oqssafe/internal/backend: %s: %v", e.Tag, e.Err)
	}
	return "oqssafe/internal/backend: " + e.Tag
}

func (e *InternalError) Unwrap() error { return e.Err }

func internalError(tag string, err error) error {
	return &InternalError{Tag: tag, Err: err}
}

// KEMLengths are the byte lengths declared by a resolved KEM.
type KEMLengths struct {
	PublicKey    int
	SecretKey    int
	Ciphertext   int
	SharedSecret int
}

// SigLengths are the byte lengths declared by a resolved signature scheme.
// MaxSignature is an upper bound; signatures may be shorter.
type SigLengths struct {
	PublicKey    int
	SecretKey    int
	MaxSignature int
}

// KEM performs Kyber768 operations. Secret outputs are returned in secret
// buffers owned by the caller.
type KEM interface {
	// Algorithm returns the identifier the backend resolved.
	Algorithm() (string, error)
	Lengths() (KEMLengths, error)
	Keypair() (pk []byte, sk *secret.Buffer, err error)
	Encapsulate(pk []byte) (ct []byte, ss *secret.Buffer, err error)
	Decapsulate(ct, sk []byte) (*secret.Buffer, error)
}

// Signature performs Dilithium2 operations.
type Signature interface {
	Algorithm() (string, error)
	Lengths() (SigLengths, error)
	Keypair() (pk []byte, sk *secret.Buffer, err error)
	Sign(sk, msg []byte) ([]byte, error)
	Verify(pk, msg, sig []byte) error
}

// Backend bundles both capabilities of one implementation.
type Backend interface {
	Name() string
	// Version reports the underlying library version, or an empty string
	// when there is none.
	Version() string
	KEM() KEM
	Signature() Signature
}

// newSecret allocates a secret buffer and maps allocation failures to the
// secret alloc tag.
func newSecret(size int) (*secret.Buffer, error) {
	buf, err := secret.New(size)
	if err != nil {
		return nil, internalError(TagSecretAlloc, err)
	}
	return buf, nil
}
