// Package encoding serializes keys, ciphertexts and signatures as small CBOR
// envelopes and derives stable key fingerprints.
//
// An envelope is a CBOR map with integer keys, written with Core
// Deterministic Encoding:
//
//	1: format version (currently 1)
//	2: algorithm family ("Kyber768" or "Dilithium2")
//	3: kind (public key, ciphertext, secret key, signature)
//	4: payload bytes
//
// Decoding rejects unknown versions, unknown fields, duplicate keys and
// envelopes whose algorithm or kind differ from the one requested. Payload
// lengths are not checked here; the kem and sig operations check them on
// use.
//
// Secret keys can only leave protected memory through MarshalKEMSecretKey
// and MarshalSigSecretKey. The caller owns the returned bytes and must wipe
// them with oqssafe.ZeroizeBytes.
package encoding
