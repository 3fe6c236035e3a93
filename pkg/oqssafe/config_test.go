package oqssafe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		nativeBuilt bool
		want        BackendKind
		wantErr     error
	}{
		{"empty backend", Config{}, true, "", ErrNoBackend},
		{"unknown backend", Config{Backend: "openssl"}, true, "", ErrUnknownBackend},
		{"unknown environment", Config{Backend: BackendAuto, Environment: "staging"}, true, "", ErrUnknownEnvironment},
		{"auto with native", Config{Backend: BackendAuto}, true, BackendNative, nil},
		{"auto falls back in development", Config{Backend: BackendAuto, Environment: EnvDevelopment}, false, BackendMock, nil},
		{"auto fallback gated in production", Config{Backend: BackendAuto}, false, "", ErrMockInProduction},
		{"auto fallback with opt-in", Config{Backend: BackendAuto, AllowMockInProduction: true}, false, BackendMock, nil},
		{"native missing", Config{Backend: BackendNative, Environment: EnvDevelopment}, false, "", ErrNativeUnavailable},
		{"native present", Config{Backend: BackendNative}, true, BackendNative, nil},
		{"mock in production", Config{Backend: BackendMock, Environment: EnvProduction}, true, "", ErrMockInProduction},
		{"mock in development", Config{Backend: BackendMock, Environment: EnvDevelopment}, true, BackendMock, nil},
		{"mock opt-in", Config{Backend: BackendMock, AllowMockInProduction: true}, false, BackendMock, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.resolve(tt.nativeBuilt)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNativeUnavailableCarriesRemediation(t *testing.T) {
	_, err := Config{Backend: BackendNative}.resolve(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LIBOQS_DIR")
	assert.Contains(t, err.Error(), "-tags=liboqs")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oqssafe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: mock\nenvironment: development\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMock, cfg.Backend)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.False(t, cfg.AllowMockInProduction)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oqssafe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("allow_mock_in_production: true\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendAuto, cfg.Backend)
	assert.Equal(t, EnvProduction, cfg.Environment)
	assert.True(t, cfg.AllowMockInProduction)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [unterminated\n"), 0o600))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oqssafe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: native\nenvironment: production\n"), 0o600))

	t.Setenv(EnvVarConfig, path)
	t.Setenv(EnvVarBackend, "mock")
	t.Setenv(EnvVarEnv, "development")
	t.Setenv(EnvVarAllowMock, "true")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendMock, cfg.Backend)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.True(t, cfg.AllowMockInProduction)
}

func TestConfigFromEnvBadBool(t *testing.T) {
	t.Setenv(EnvVarAllowMock, "perhaps")
	_, err := ConfigFromEnv()
	assert.Error(t, err)
}
