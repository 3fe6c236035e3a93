package oqssafe

import (
	"errors"
	"fmt"

	goerrors "github.com/agilira/go-errors"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/backend"
)

// Stable error codes attached to every error returned by the capability
// packages. Match them with the rich error carried alongside the sentinel.
const (
	ErrCodeNotImplemented = "OQS_NOT_IMPLEMENTED"
	ErrCodeInvalidLength  = "OQS_INVALID_LENGTH"
	ErrCodeVerifyFail     = "OQS_VERIFY_FAIL"
	ErrCodeInternal       = "OQS_INTERNAL"
)

var (
	// ErrNotImplemented reports that the requested capability is unavailable,
	// for example because the Library is nil or closed or the native adapter
	// is not compiled in.
	ErrNotImplemented = errors.New("oqssafe: not implemented")

	// ErrInvalidLength reports an input whose length does not match the
	// active algorithm. It is always detected before any native call.
	ErrInvalidLength = errors.New("oqssafe: invalid length")

	// ErrVerifyFail reports that verification ran and rejected the
	// signature for the given key and message.
	ErrVerifyFail = errors.New("oqssafe: signature verification failed")

	// ErrInternal matches every *InternalError.
	ErrInternal = errors.New("oqssafe: internal error")
)

// InternalError reports a backend step that failed. Tag names the step, for
// example "kem encaps" or "sig out_len".
type InternalError struct {
	Tag string
}

func (e *InternalError) Error() string {
	return "oqssafe: internal error: " + e.Tag
}

// Is makes errors.Is(err, ErrInternal) hold for every tag.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

// Kind classifies errors returned by the library.
type Kind int

const (
	KindNone Kind = iota
	KindNotImplemented
	KindInvalidLength
	KindVerifyFail
	KindInternal
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotImplemented:
		return "not implemented"
	case KindInvalidLength:
		return "invalid length"
	case KindVerifyFail:
		return "verify fail"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// KindOf reports which kind of the taxonomy err belongs to.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotImplemented):
		return KindNotImplemented
	case errors.Is(err, ErrInvalidLength):
		return KindInvalidLength
	case errors.Is(err, ErrVerifyFail):
		return KindVerifyFail
	case errors.Is(err, ErrInternal):
		return KindInternal
	default:
		return KindUnknown
	}
}

// TagOf returns the failing step of an internal error, or an empty string.
func TagOf(err error) string {
	var internal *InternalError
	if errors.As(err, &internal) {
		return internal.Tag
	}
	return ""
}

// RemapError converts backend errors to the public taxonomy. It is exported
// for the capability subpackages. Errors already in the taxonomy pass through
// unchanged.
func RemapError(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnknown {
		return err
	}

	var internal *backend.InternalError
	switch {
	case errors.Is(err, backend.ErrInvalidLength):
		return invalidLength()
	case errors.Is(err, backend.ErrVerifyFail):
		return verifyFail()
	case errors.Is(err, backend.ErrNotBuilt):
		return notImplemented(err, "native backend not built")
	case errors.As(err, &internal):
		return internalFailure(internal.Tag, err)
	default:
		return internalFailure("unclassified", err)
	}
}

func invalidLength() error {
	richErr := goerrors.New(ErrCodeInvalidLength, "input length does not match the algorithm")
	return fmt.Errorf("%w: %w", ErrInvalidLength, richErr)
}

func verifyFail() error {
	richErr := goerrors.New(ErrCodeVerifyFail, "signature rejected")
	return fmt.Errorf("%w: %w", ErrVerifyFail, richErr)
}

func notImplemented(cause error, msg string) error {
	var richErr error
	if cause != nil {
		richErr = goerrors.Wrap(cause, ErrCodeNotImplemented, msg)
	} else {
		richErr = goerrors.New(ErrCodeNotImplemented, msg)
	}
	return fmt.Errorf("%w: %w", ErrNotImplemented, richErr)
}

func internalFailure(tag string, cause error) error {
	richErr := goerrors.Wrap(cause, ErrCodeInternal, tag)
	return fmt.Errorf("%w: %w", &InternalError{Tag: tag}, richErr)
}
