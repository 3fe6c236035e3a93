package encoding

import (
	"runtime"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/secret"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/kem"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/sig"
)

// MarshalKEMPublicKey encodes a KEM public key.
func MarshalKEMPublicKey(pk *kem.PublicKey) ([]byte, error) {
	return seal(AlgorithmKyber768, KindKEMPublicKey, pk.Bytes())
}

// UnmarshalKEMPublicKey decodes a KEM public key envelope.
func UnmarshalKEMPublicKey(raw []byte) (*kem.PublicKey, error) {
	data, err := open(raw, AlgorithmKyber768, KindKEMPublicKey)
	if err != nil {
		return nil, err
	}
	return kem.PublicKeyFromBytes(data), nil
}

// MarshalKEMCiphertext encodes a KEM ciphertext.
func MarshalKEMCiphertext(ct *kem.Ciphertext) ([]byte, error) {
	return seal(AlgorithmKyber768, KindKEMCiphertext, ct.Bytes())
}

// UnmarshalKEMCiphertext decodes a KEM ciphertext envelope.
func UnmarshalKEMCiphertext(raw []byte) (*kem.Ciphertext, error) {
	data, err := open(raw, AlgorithmKyber768, KindKEMCiphertext)
	if err != nil {
		return nil, err
	}
	return kem.CiphertextFromBytes(data), nil
}

// MarshalKEMSecretKey exports a KEM secret key. The result holds the key in
// ordinary memory; wipe it with oqssafe.ZeroizeBytes when done.
func MarshalKEMSecretKey(sk *kem.SecretKey) ([]byte, error) {
	defer runtime.KeepAlive(sk)
	return seal(AlgorithmKyber768, KindKEMSecretKey, sk.Bytes())
}

// UnmarshalKEMSecretKey moves an exported KEM secret key back into protected
// memory. The decoded copy is wiped; raw still holds the key and should be
// wiped by the caller.
func UnmarshalKEMSecretKey(raw []byte) (*kem.SecretKey, error) {
	data, err := open(raw, AlgorithmKyber768, KindKEMSecretKey)
	if err != nil {
		return nil, err
	}
	defer secret.Zero(data)
	return kem.SecretKeyFromBytes(data)
}

// MarshalSigPublicKey encodes a signature verification key.
func MarshalSigPublicKey(pk *sig.PublicKey) ([]byte, error) {
	return seal(AlgorithmDilithium2, KindSigPublicKey, pk.Bytes())
}

// UnmarshalSigPublicKey decodes a verification key envelope.
func UnmarshalSigPublicKey(raw []byte) (*sig.PublicKey, error) {
	data, err := open(raw, AlgorithmDilithium2, KindSigPublicKey)
	if err != nil {
		return nil, err
	}
	return sig.PublicKeyFromBytes(data), nil
}

// MarshalSignature encodes a signature.
func MarshalSignature(s *sig.Signature) ([]byte, error) {
	return seal(AlgorithmDilithium2, KindSignature, s.Bytes())
}

// UnmarshalSignature decodes a signature envelope.
func UnmarshalSignature(raw []byte) (*sig.Signature, error) {
	data, err := open(raw, AlgorithmDilithium2, KindSignature)
	if err != nil {
		return nil, err
	}
	return sig.SignatureFromBytes(data), nil
}

// MarshalSigSecretKey exports a signing key. Wipe the result with
// oqssafe.ZeroizeBytes when done.
func MarshalSigSecretKey(sk *sig.SecretKey) ([]byte, error) {
	defer runtime.KeepAlive(sk)
	return seal(AlgorithmDilithium2, KindSigSecretKey, sk.Bytes())
}

// UnmarshalSigSecretKey moves an exported signing key back into protected
// memory.
func UnmarshalSigSecretKey(raw []byte) (*sig.SecretKey, error) {
	data, err := open(raw, AlgorithmDilithium2, KindSigSecretKey)
	if err != nil {
		return nil, err
	}
	defer secret.Zero(data)
	return sig.SecretKeyFromBytes(data)
}
