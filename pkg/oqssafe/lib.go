package oqssafe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/internal/backend"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/logging"
)

// ErrLibraryClosed is returned by Close when the Library was already closed.
var ErrLibraryClosed = errors.New("oqssafe: library closed")

// Library holds the backend chosen at Open. The choice is fixed for the
// Library's lifetime. A Library is safe for concurrent use; operations share
// no mutable state through it.
type Library struct {
	mu      sync.RWMutex
	cfg     Config
	backend backend.Backend
	logger  logging.Logger
	closed  bool
}

// Open validates cfg and selects the backend once.
func Open(cfg Config) (*Library, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	kind, err := cfg.resolve(backend.NativeAvailable())
	if err != nil {
		return nil, err
	}

	var b backend.Backend
	switch kind {
	case BackendNative:
		b, err = backend.NewNative()
		if err != nil {
			return nil, RemapError(err)
		}
	default:
		b = backend.NewMock()
		logger.Warn(context.Background(), "mock backend selected; results are not cryptographic",
			"environment", string(cfg.environment()))
	}

	lib := &Library{cfg: cfg, backend: b, logger: logger.With("backend", b.Name())}
	lib.logger.Info(context.Background(), "backend selected",
		"requested", string(cfg.Backend), "version", b.Version())
	return lib, nil
}

// Wrap returns a Library around an existing backend. The backend types live
// in an internal package, so only code in this module can call it.
func Wrap(b backend.Backend, logger logging.Logger) *Library {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Library{backend: b, logger: logger.With("backend", b.Name())}
}

// Close releases the Library. Later operations report ErrNotImplemented.
// Closing twice returns ErrLibraryClosed.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLibraryClosed
	}
	l.closed = true
	l.backend = nil
	return nil
}

// Backend returns the active backend for the capability packages. A nil or
// closed Library yields an ErrNotImplemented error.
func (l *Library) Backend() (backend.Backend, error) {
	if l == nil {
		return nil, notImplemented(nil, "nil library")
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil, notImplemented(ErrLibraryClosed, "library closed")
	}
	return l.backend, nil
}

// Logger returns the logger configured at Open.
func (l *Library) Logger() logging.Logger {
	if l == nil || l.logger == nil {
		return logging.Nop()
	}
	return l.logger
}

// BackendName returns "liboqs" or "mock", or an empty string once closed.
func (l *Library) BackendName() string {
	b, err := l.Backend()
	if err != nil {
		return ""
	}
	return b.Name()
}

// LibraryVersion returns the liboqs version string, or an empty string for
// the mock backend.
func (l *Library) LibraryVersion() string {
	b, err := l.Backend()
	if err != nil {
		return ""
	}
	return b.Version()
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns a process-wide Library opened from ConfigFromEnv on first
// use. The result, including any error, is cached.
func Default() (*Library, error) {
	defaultOnce.Do(func() {
		cfg, err := ConfigFromEnv()
		if err != nil {
			defaultErr = err
			return
		}
		defaultLib, defaultErr = Open(cfg)
	})
	if defaultErr != nil {
		return nil, fmt.Errorf("oqssafe: default library: %w", defaultErr)
	}
	return defaultLib, nil
}
