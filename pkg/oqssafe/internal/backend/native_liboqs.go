//go:build cgo && liboqs

package backend

/*
#cgo LDFLAGS: -loqs
#include <stdbool.h>
#include <stddef.h>
#include <stdint.h>
#include <stdlib.h>

typedef struct OQS_KEM OQS_KEM;
typedef struct OQS_SIG OQS_SIG;

extern void OQS_init(void);
extern const char *OQS_version(void);

extern OQS_KEM *OQS_KEM_new(const char *method_name);
extern void OQS_KEM_free(OQS_KEM *kem);
extern int OQS_KEM_keypair(const OQS_KEM *kem, uint8_t *public_key, uint8_t *secret_key);
extern int OQS_KEM_encaps(const OQS_KEM *kem, uint8_t *ciphertext, uint8_t *shared_secret, const uint8_t *public_key);
extern int OQS_KEM_decaps(const OQS_KEM *kem, uint8_t *shared_secret, const uint8_t *ciphertext, const uint8_t *secret_key);

extern OQS_SIG *OQS_SIG_new(const char *method_name);
extern void OQS_SIG_free(OQS_SIG *sig);
extern int OQS_SIG_keypair(const OQS_SIG *sig, uint8_t *public_key, uint8_t *secret_key);
extern int OQS_SIG_sign(const OQS_SIG *sig, uint8_t *signature, size_t *signature_len, const uint8_t *message, size_t message_len, const uint8_t *secret_key);
extern int OQS_SIG_verify(const OQS_SIG *sig, const uint8_t *message, size_t message_len, const uint8_t *signature, size_t signature_len, const uint8_t *public_key);
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/secret"
)

// maxDeclaredLength bounds any length read from a liboqs object. The largest
// schemes liboqs ships stay well below it, so anything above means the
// layout below no longer matches the installed library.
const maxDeclaredLength = 1 << 20

// kemLayout mirrors the leading fields of liboqs' OQS_KEM. The header
// declares them as:
//
//	const char *method_name;
//	const char *alg_version;
//	uint8_t claimed_nist_level;
//	bool ind_cca;
//	size_t length_public_key;
//	size_t length_secret_key;
//	size_t length_ciphertext;
//	size_t length_shared_secret;
//
// Function pointers follow but are never read from Go. The two one-byte
// fields are padded so length_public_key starts at the next size_t boundary.
type kemLayout struct {
	methodName         *C.char
	algVersion         *C.char
	claimedNISTLevel   C.uint8_t
	indCCA             C.bool
	lengthPublicKey    C.size_t
	lengthSecretKey    C.size_t
	lengthCiphertext   C.size_t
	lengthSharedSecret C.size_t
}

// sigLayout mirrors the leading fields of liboqs' OQS_SIG. Releases that
// append more one-byte flags after euf_cma keep them inside the padding, so
// the size_t fields stay put.
type sigLayout struct {
	methodName       *C.char
	algVersion       *C.char
	claimedNISTLevel C.uint8_t
	eufCMA           C.bool
	lengthPublicKey  C.size_t
	lengthSecretKey  C.size_t
	lengthSignature  C.size_t
}

var initOnce sync.Once

func oqsInit() {
	initOnce.Do(func() { C.OQS_init() })
}

// NativeAvailable reports whether the liboqs adapter is compiled in.
func NativeAvailable() bool { return true }

// NewNative returns the liboqs backend.
func NewNative() (Backend, error) {
	oqsInit()
	return native{}, nil
}

// NativeVersion returns the version string reported by OQS_version.
func NativeVersion() string {
	oqsInit()
	return C.GoString(C.OQS_version())
}

type native struct{}

func (native) Name() string         { return NameNative }
func (native) Version() string      { return NativeVersion() }
func (native) KEM() KEM             { return nativeKEM{} }
func (native) Signature() Signature { return nativeSig{} }

func bytePtr(b []byte) *C.uint8_t {
	if len(b) == 0 {
		return nil
	}
	return (*C.uint8_t)(unsafe.Pointer(&b[0]))
}

func checkDeclared(tag string, name string, value C.size_t) (int, error) {
	if value == 0 || value > maxDeclaredLength {
		return 0, internalError(tag, fmt.Errorf("declared %s length %d out of range", name, uint64(value)))
	}
	return int(value), nil
}

// openKEM resolves the first accepted KEM candidate. The caller must release
// the handle with OQS_KEM_free.
func openKEM() (*C.OQS_KEM, string, error) {
	oqsInit()
	for _, name := range KEMCandidates {
		cname := C.CString(name)
		handle := C.OQS_KEM_new(cname)
		C.free(unsafe.Pointer(cname))
		if handle != nil {
			return handle, name, nil
		}
	}
	return nil, "", internalError(TagKEMNew, fmt.Errorf("none of %v enabled in liboqs", KEMCandidates))
}

func kemLengthsOf(handle *C.OQS_KEM) (KEMLengths, error) {
	layout := (*kemLayout)(unsafe.Pointer(handle))

	var (
		lengths KEMLengths
		err     error
	)
	if lengths.PublicKey, err = checkDeclared(TagKEMLayout, "public key", layout.lengthPublicKey); err != nil {
		return KEMLengths{}, err
	}
	if lengths.SecretKey, err = checkDeclared(TagKEMLayout, "secret key", layout.lengthSecretKey); err != nil {
		return KEMLengths{}, err
	}
	if lengths.Ciphertext, err = checkDeclared(TagKEMLayout, "ciphertext", layout.lengthCiphertext); err != nil {
		return KEMLengths{}, err
	}
	if lengths.SharedSecret, err = checkDeclared(TagKEMLayout, "shared secret", layout.lengthSharedSecret); err != nil {
		return KEMLengths{}, err
	}
	return lengths, nil
}

type nativeKEM struct{}

func (nativeKEM) Algorithm() (string, error) {
	handle, name, err := openKEM()
	if err != nil {
		return "", err
	}
	C.OQS_KEM_free(handle)
	return name, nil
}

func (nativeKEM) Lengths() (KEMLengths, error) {
	handle, _, err := openKEM()
	if err != nil {
		return KEMLengths{}, err
	}
	defer C.OQS_KEM_free(handle)
	return kemLengthsOf(handle)
}

func (nativeKEM) Keypair() ([]byte, *secret.Buffer, error) {
	handle, _, err := openKEM()
	if err != nil {
		return nil, nil, err
	}
	defer C.OQS_KEM_free(handle)

	lengths, err := kemLengthsOf(handle)
	if err != nil {
		return nil, nil, err
	}

	pk := make([]byte, lengths.PublicKey)
	sk, err := newSecret(lengths.SecretKey)
	if err != nil {
		return nil, nil, err
	}

	if rc := C.OQS_KEM_keypair(handle, bytePtr(pk), bytePtr(sk.Bytes())); rc != 0 {
		_ = sk.Close()
		return nil, nil, internalError(TagKEMKeypair, fmt.Errorf("OQS_KEM_keypair returned %d", int(rc)))
	}
	return pk, sk, nil
}

func (nativeKEM) Encapsulate(pk []byte) ([]byte, *secret.Buffer, error) {
	handle, _, err := openKEM()
	if err != nil {
		return nil, nil, err
	}
	defer C.OQS_KEM_free(handle)

	lengths, err := kemLengthsOf(handle)
	if err != nil {
		return nil, nil, err
	}
	if len(pk) != lengths.PublicKey {
		return nil, nil, ErrInvalidLength
	}

	ct := make([]byte, lengths.Ciphertext)
	ss, err := newSecret(lengths.SharedSecret)
	if err != nil {
		return nil, nil, err
	}

	if rc := C.OQS_KEM_encaps(handle, bytePtr(ct), bytePtr(ss.Bytes()), bytePtr(pk)); rc != 0 {
		_ = ss.Close()
		return nil, nil, internalError(TagKEMEncaps, fmt.Errorf("OQS_KEM_encaps returned %d", int(rc)))
	}
	return ct, ss, nil
}

func (nativeKEM) Decapsulate(ct, sk []byte) (*secret.Buffer, error) {
	handle, _, err := openKEM()
	if err != nil {
		return nil, err
	}
	defer C.OQS_KEM_free(handle)

	lengths, err := kemLengthsOf(handle)
	if err != nil {
		return nil, err
	}
	if len(ct) != lengths.Ciphertext || len(sk) != lengths.SecretKey {
		return nil, ErrInvalidLength
	}

	ss, err := newSecret(lengths.SharedSecret)
	if err != nil {
		return nil, err
	}

	if rc := C.OQS_KEM_decaps(handle, bytePtr(ss.Bytes()), bytePtr(ct), bytePtr(sk)); rc != 0 {
		_ = ss.Close()
		return nil, internalError(TagKEMDecaps, fmt.Errorf("OQS_KEM_decaps returned %d", int(rc)))
	}
	return ss, nil
}

// openSig resolves the first accepted signature candidate. The caller must
// release the handle with OQS_SIG_free.
func openSig() (*C.OQS_SIG, string, error) {
	oqsInit()
	for _, name := range SigCandidates {
		cname := C.CString(name)
		handle := C.OQS_SIG_new(cname)
		C.free(unsafe.Pointer(cname))
		if handle != nil {
			return handle, name, nil
		}
	}
	return nil, "", internalError(TagSigNew, fmt.Errorf("none of %v enabled in liboqs", SigCandidates))
}

func sigLengthsOf(handle *C.OQS_SIG) (SigLengths, error) {
	layout := (*sigLayout)(unsafe.Pointer(handle))

	var (
		lengths SigLengths
		err     error
	)
	if lengths.PublicKey, err = checkDeclared(TagSigLayout, "public key", layout.lengthPublicKey); err != nil {
		return SigLengths{}, err
	}
	if lengths.SecretKey, err = checkDeclared(TagSigLayout, "secret key", layout.lengthSecretKey); err != nil {
		return SigLengths{}, err
	}
	if lengths.MaxSignature, err = checkDeclared(TagSigLayout, "signature", layout.lengthSignature); err != nil {
		return SigLengths{}, err
	}
	return lengths, nil
}

type nativeSig struct{}

func (nativeSig) Algorithm() (string, error) {
	handle, name, err := openSig()
	if err != nil {
		return "", err
	}
	C.OQS_SIG_free(handle)
	return name, nil
}

func (nativeSig) Lengths() (SigLengths, error) {
	handle, _, err := openSig()
	if err != nil {
		return SigLengths{}, err
	}
	defer C.OQS_SIG_free(handle)
	return sigLengthsOf(handle)
}

func (nativeSig) Keypair() ([]byte, *secret.Buffer, error) {
	handle, _, err := openSig()
	if err != nil {
		return nil, nil, err
	}
	defer C.OQS_SIG_free(handle)

	lengths, err := sigLengthsOf(handle)
	if err != nil {
		return nil, nil, err
	}

	pk := make([]byte, lengths.PublicKey)
	sk, err := newSecret(lengths.SecretKey)
	if err != nil {
		return nil, nil, err
	}

	if rc := C.OQS_SIG_keypair(handle, bytePtr(pk), bytePtr(sk.Bytes())); rc != 0 {
		_ = sk.Close()
		return nil, nil, internalError(TagSigKeypair, fmt.Errorf("OQS_SIG_keypair returned %d", int(rc)))
	}
	return pk, sk, nil
}

func (nativeSig) Sign(sk, msg []byte) ([]byte, error) {
	handle, _, err := openSig()
	if err != nil {
		return nil, err
	}
	defer C.OQS_SIG_free(handle)

	lengths, err := sigLengthsOf(handle)
	if err != nil {
		return nil, err
	}
	if len(sk) != lengths.SecretKey {
		return nil, ErrInvalidLength
	}

	sig := make([]byte, lengths.MaxSignature)
	var written C.size_t
	rc := C.OQS_SIG_sign(handle, bytePtr(sig), &written, bytePtr(msg), C.size_t(len(msg)), bytePtr(sk))
	if rc != 0 {
		return nil, internalError(TagSigSign, fmt.Errorf("OQS_SIG_sign returned %d", int(rc)))
	}
	if uint64(written) > uint64(len(sig)) {
		return nil, internalError(TagSigOutLen, fmt.Errorf("reported %d bytes, declared maximum %d", uint64(written), len(sig)))
	}
	n := int(written)
	return sig[:n:n], nil
}

func (nativeSig) Verify(pk, msg, sig []byte) error {
	handle, _, err := openSig()
	if err != nil {
		return err
	}
	defer C.OQS_SIG_free(handle)

	lengths, err := sigLengthsOf(handle)
	if err != nil {
		return err
	}
	if len(pk) != lengths.PublicKey || len(sig) > lengths.MaxSignature {
		return ErrInvalidLength
	}

	rc := C.OQS_SIG_verify(handle, bytePtr(msg), C.size_t(len(msg)), bytePtr(sig), C.size_t(len(sig)), bytePtr(pk))
	if rc != 0 {
		return ErrVerifyFail
	}
	return nil
}
