// Package kem provides Kyber768 key encapsulation on top of an
// oqssafe.Library.
//
// Under the liboqs backend the algorithm resolves to ML-KEM-768 when the
// installed release offers it and to Kyber768 otherwise. Under the mock
// backend every output has the right length but Encapsulate and Decapsulate
// do not agree on the shared secret.
//
// Secret keys and shared secrets must be released with Destroy:
//
//	k := kem.NewKyber768(lib)
//	pk, sk, err := k.Keypair()
//	if err != nil {
//	    return err
//	}
//	defer sk.Destroy()
//
//	ct, ss, err := k.Encapsulate(pk)
//	if err != nil {
//	    return err
//	}
//	defer ss.Destroy()
//
// The byte slices returned by SecretKey.Bytes and SharedSecret.Bytes alias
// protected memory. They are valid until Destroy and must not be retained or
// used concurrently with Destroy.
package kem
