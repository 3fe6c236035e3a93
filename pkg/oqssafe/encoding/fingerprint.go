package encoding

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/kem"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/sig"
)

// fingerprintKey is the BLAKE3 key for public key fingerprints: the ASCII
// domain name zero-padded to 32 bytes. Changing it changes every
// fingerprint.
var fingerprintKey = [32]byte{
	'o', 'q', 's', 's', 'a', 'f', 'e', '.', 'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r',
	'i', 'n', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// fingerprintLen is the number of digest bytes rendered in a fingerprint.
const fingerprintLen = 16

// Fingerprint is a short identifier derived from a public key.
type Fingerprint [fingerprintLen]byte

// String renders the fingerprint as "oqs-" followed by lowercase hex.
func (f Fingerprint) String() string {
	return "oqs-" + hex.EncodeToString(f[:])
}

// KEMFingerprint identifies a KEM public key.
func KEMFingerprint(pk *kem.PublicKey) Fingerprint {
	return fingerprint(AlgorithmKyber768, KindKEMPublicKey, pk.Bytes())
}

// SigFingerprint identifies a signature verification key.
func SigFingerprint(pk *sig.PublicKey) Fingerprint {
	return fingerprint(AlgorithmDilithium2, KindSigPublicKey, pk.Bytes())
}

// fingerprint hashes algorithm, kind and key together so the same bytes used
// under different roles never share a fingerprint.
func fingerprint(algorithm string, kind Kind, data []byte) Fingerprint {
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		panic("encoding: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(algorithm))
	hasher.Write([]byte{0, byte(kind)})
	hasher.Write(data)

	var f Fingerprint
	copy(f[:], hasher.Sum(nil))
	return f
}
