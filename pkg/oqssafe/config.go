package oqssafe

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/logging"
)

// BackendKind selects the implementation behind the capability packages.
type BackendKind string

const (
	// BackendAuto uses liboqs when the native adapter is compiled in and
	// falls back to the mock otherwise.
	BackendAuto BackendKind = "auto"
	// BackendNative requires liboqs and fails Open when it is not built.
	BackendNative BackendKind = "native"
	// BackendMock selects the size-faithful mock.
	BackendMock BackendKind = "mock"
)

// Environment identifies the deployment type.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvVarConfig    = "OQSSAFE_CONFIG"
	EnvVarBackend   = "OQSSAFE_BACKEND"
	EnvVarEnv       = "OQSSAFE_ENV"
	EnvVarAllowMock = "OQSSAFE_ALLOW_MOCK"
)

const nativeRemediation = "build with CGO_ENABLED=1 and -tags=liboqs against an installed liboqs " +
	"(set LIBOQS_DIR or make liboqs visible to pkg-config; run `oqssafe discover --require-native` to check)"

var (
	// ErrNoBackend reports a configuration that selects no backend.
	ErrNoBackend = errors.New("oqssafe: no backend selected")

	// ErrMockInProduction reports that the mock was selected in a production
	// environment without AllowMockInProduction.
	ErrMockInProduction = errors.New("oqssafe: mock backend selected in production without explicit opt-in")

	// ErrNativeUnavailable reports that the native backend was requested but
	// is not compiled into this binary.
	ErrNativeUnavailable = errors.New("oqssafe: native backend requested but not built")

	// ErrUnknownBackend reports an unrecognised backend name.
	ErrUnknownBackend = errors.New("oqssafe: unknown backend")

	// ErrUnknownEnvironment reports an unrecognised environment name.
	ErrUnknownEnvironment = errors.New("oqssafe: unknown environment")
)

// Config controls backend selection when a Library is opened.
type Config struct {
	// Backend is one of auto, native or mock. It must be set.
	Backend BackendKind `yaml:"backend"`

	// Environment is development or production. Empty means production.
	Environment Environment `yaml:"environment"`

	// AllowMockInProduction permits the mock outside development. The mock
	// performs no cryptography and its verification accepts any signature
	// of the right length.
	AllowMockInProduction bool `yaml:"allow_mock_in_production"`

	// Logger receives library events. Nil means logging.Nop().
	Logger logging.Logger `yaml:"-"`
}

// DefaultConfig returns the configuration used when nothing else is given:
// auto backend selection in a production environment.
func DefaultConfig() Config {
	return Config{
		Backend:     BackendAuto,
		Environment: EnvProduction,
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
//
//	backend: auto
//	environment: development
//	allow_mock_in_production: false
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("oqssafe: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("oqssafe: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigFromEnv builds a configuration from the process environment. When
// OQSSAFE_CONFIG names a file it is loaded first; OQSSAFE_BACKEND,
// OQSSAFE_ENV and OQSSAFE_ALLOW_MOCK then override individual fields.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv(EnvVarConfig); path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if v, ok := os.LookupEnv(EnvVarBackend); ok {
		cfg.Backend = BackendKind(v)
	}
	if v, ok := os.LookupEnv(EnvVarEnv); ok {
		cfg.Environment = Environment(v)
	}
	if v, ok := os.LookupEnv(EnvVarAllowMock); ok {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("oqssafe: %s: %w", EnvVarAllowMock, err)
		}
		cfg.AllowMockInProduction = allow
	}
	return cfg, nil
}

func (c Config) environment() Environment {
	if c.Environment == "" {
		return EnvProduction
	}
	return c.Environment
}

// Validate checks the configuration without consulting which backends are
// compiled in.
func (c Config) Validate() error {
	switch c.Backend {
	case "":
		return ErrNoBackend
	case BackendAuto, BackendNative, BackendMock:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	switch c.environment() {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEnvironment, c.Environment)
	}
	return nil
}

// resolve decides which backend Open builds. nativeBuilt reports whether the
// liboqs adapter is compiled in.
func (c Config) resolve(nativeBuilt bool) (BackendKind, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	chosen := c.Backend
	switch c.Backend {
	case BackendNative:
		if !nativeBuilt {
			return "", fmt.Errorf("%w; %s", ErrNativeUnavailable, nativeRemediation)
		}
	case BackendAuto:
		chosen = BackendMock
		if nativeBuilt {
			chosen = BackendNative
		}
	}

	if chosen == BackendMock && c.environment() != EnvDevelopment && !c.AllowMockInProduction {
		return "", fmt.Errorf("%w; set environment to development or allow_mock_in_production to true", ErrMockInProduction)
	}
	return chosen, nil
}
