// Package selftest runs one KEM round trip and one sign/verify round trip as
// an early diagnostic.
//
// Check reports the first failure. Run is the startup form: it recovers
// panics and discards every error so it can never stop a process from
// starting.
package selftest

import (
	"context"
	"errors"
	"fmt"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/kem"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/logging"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/sig"
)

const message = "oqs-safe selftest"

// Check performs a KEM round trip with k and a sign/verify round trip with s.
// Under the mock backend shared secrets are only compared by length.
func Check(k kem.Scheme, s sig.Scheme) error {
	if k == nil || s == nil {
		return errors.New("selftest: nil scheme")
	}
	if err := checkKEM(k); err != nil {
		return fmt.Errorf("selftest: kem: %w", err)
	}
	if err := checkSig(s); err != nil {
		return fmt.Errorf("selftest: sig: %w", err)
	}
	return nil
}

func checkKEM(k kem.Scheme) error {
	pk, sk, err := k.Keypair()
	if err != nil {
		return err
	}
	defer sk.Destroy()

	ct, ss1, err := k.Encapsulate(pk)
	if err != nil {
		return err
	}
	defer ss1.Destroy()

	ss2, err := k.Decapsulate(ct, sk)
	if err != nil {
		return err
	}
	defer ss2.Destroy()

	if ss1.Len() != ss2.Len() {
		return fmt.Errorf("shared secret lengths differ: %d and %d", ss1.Len(), ss2.Len())
	}
	return nil
}

func checkSig(s sig.Scheme) error {
	pk, sk, err := s.Keypair()
	if err != nil {
		return err
	}
	defer sk.Destroy()

	signature, err := s.Sign(sk, []byte(message))
	if err != nil {
		return err
	}
	return s.Verify(pk, []byte(message), signature)
}

// Run calls Check and discards the outcome. Panics raised by either scheme
// are recovered. When logger is non-nil the outcome is logged at debug.
func Run(k kem.Scheme, s sig.Scheme, logger logging.Logger) {
	if logger == nil {
		logger = logging.Nop()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Debug(context.Background(), "selftest panicked", "panic", fmt.Sprint(r))
		}
	}()

	if err := Check(k, s); err != nil {
		logger.Debug(context.Background(), "selftest failed", "error", err)
		return
	}
	logger.Debug(context.Background(), "selftest passed")
}
