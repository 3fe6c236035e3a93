package backend

import (
	"crypto/rand"
	"io"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/secret"
)

// Reference lengths emitted by the mock. They equal the lengths liboqs
// declares for Kyber768 and Dilithium2.
var (
	MockKEMLengths = KEMLengths{PublicKey: 1184, SecretKey: 2400, Ciphertext: 1088, SharedSecret: 32}
	MockSigLengths = SigLengths{PublicKey: 1312, SecretKey: 2528, MaxSignature: 2420}
)

const (
	mockKEMAlgorithm = "Kyber768"
	mockSigAlgorithm = "Dilithium2"
)

// Mock is a non-cryptographic backend that returns random buffers of the
// reference lengths. Its verification only checks the signature length and
// must never be used to protect real data.
type Mock struct {
	rand io.Reader
}

// NewMock returns a mock backend that reads from crypto/rand.
func NewMock() *Mock {
	return &Mock{rand: rand.Reader}
}

// NewMockWithReader returns a mock backend that fills its buffers from r.
// A reader that fails makes every operation return an rng internal error.
func NewMockWithReader(r io.Reader) *Mock {
	return &Mock{rand: r}
}

func (m *Mock) Name() string         { return NameMock }
func (m *Mock) Version() string      { return "" }
func (m *Mock) KEM() KEM             { return mockKEM{m} }
func (m *Mock) Signature() Signature { return mockSig{m} }

func (m *Mock) fill(buf []byte) error {
	if _, err := io.ReadFull(m.rand, buf); err != nil {
		return internalError(TagRNG, err)
	}
	return nil
}

func (m *Mock) randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := m.fill(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (m *Mock) randomSecret(n int) (*secret.Buffer, error) {
	buf, err := newSecret(n)
	if err != nil {
		return nil, err
	}
	if err := m.fill(buf.Bytes()); err != nil {
		_ = buf.Close()
		return nil, err
	}
	return buf, nil
}

type mockKEM struct{ m *Mock }

func (k mockKEM) Algorithm() (string, error)   { return mockKEMAlgorithm, nil }
func (k mockKEM) Lengths() (KEMLengths, error) { return MockKEMLengths, nil }

func (k mockKEM) Keypair() ([]byte, *secret.Buffer, error) {
	pk, err := k.m.randomBytes(MockKEMLengths.PublicKey)
	if err != nil {
		return nil, nil, err
	}
	sk, err := k.m.randomSecret(MockKEMLengths.SecretKey)
	if err != nil {
		return nil, nil, err
	}
	return pk, sk, nil
}

func (k mockKEM) Encapsulate(pk []byte) ([]byte, *secret.Buffer, error) {
	if len(pk) != MockKEMLengths.PublicKey {
		return nil, nil, ErrInvalidLength
	}
	ct, err := k.m.randomBytes(MockKEMLengths.Ciphertext)
	if err != nil {
		return nil, nil, err
	}
	ss, err := k.m.randomSecret(MockKEMLengths.SharedSecret)
	if err != nil {
		return nil, nil, err
	}
	return ct, ss, nil
}

// Decapsulate returns a fresh random secret of the right length. It does not
// match the one produced by Encapsulate.
func (k mockKEM) Decapsulate(ct, sk []byte) (*secret.Buffer, error) {
	if len(ct) != MockKEMLengths.Ciphertext || len(sk) != MockKEMLengths.SecretKey {
		return nil, ErrInvalidLength
	}
	return k.m.randomSecret(MockKEMLengths.SharedSecret)
}

type mockSig struct{ m *Mock }

func (s mockSig) Algorithm() (string, error)   { return mockSigAlgorithm, nil }
func (s mockSig) Lengths() (SigLengths, error) { return MockSigLengths, nil }

func (s mockSig) Keypair() ([]byte, *secret.Buffer, error) {
	pk, err := s.m.randomBytes(MockSigLengths.PublicKey)
	if err != nil {
		return nil, nil, err
	}
	sk, err := s.m.randomSecret(MockSigLengths.SecretKey)
	if err != nil {
		return nil, nil, err
	}
	return pk, sk, nil
}

func (s mockSig) Sign(sk, _ []byte) ([]byte, error) {
	if len(sk) != MockSigLengths.SecretKey {
		return nil, ErrInvalidLength
	}
	return s.m.randomBytes(MockSigLengths.MaxSignature)
}

// Verify accepts any signature of exactly the maximum length. Message and
// key content are ignored.
func (s mockSig) Verify(pk, _, sig []byte) error {
	if len(pk) != MockSigLengths.PublicKey || len(sig) > MockSigLengths.MaxSignature {
		return ErrInvalidLength
	}
	if len(sig) != MockSigLengths.MaxSignature {
		return ErrVerifyFail
	}
	return nil
}
