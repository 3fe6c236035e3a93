package discovery

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInfo struct{ dir bool }

func (f fakeInfo) Name() string       { return "" }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() fs.FileMode  { return 0 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.dir }
func (f fakeInfo) Sys() any           { return nil }

func fakeFinder(env map[string]string, files map[string]bool, pkgConfig map[string]string) *Finder {
	return &Finder{
		Getenv: func(k string) string { return env[k] },
		Stat: func(p string) (os.FileInfo, error) {
			isDir, ok := files[p]
			if !ok {
				return nil, fs.ErrNotExist
			}
			return fakeInfo{dir: isDir}, nil
		},
		LookPath: func(name string) (string, error) {
			if pkgConfig == nil {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + name, nil
		},
		Output: func(name string, args ...string) ([]byte, error) {
			out, ok := pkgConfig[args[0]]
			if !ok {
				return nil, errors.New("Package liboqs was not found")
			}
			return []byte(out + "\n"), nil
		},
	}
}

func TestFindInDir(t *testing.T) {
	dir := "/opt/liboqs"
	f := fakeFinder(
		map[string]string{"LIBOQS_DIR": dir},
		map[string]bool{
			filepath.Join(dir, "include", "oqs", "oqs.h"): false,
			filepath.Join(dir, "lib"):                     true,
			filepath.Join(dir, "lib", "liboqs.so"):        false,
		},
		nil,
	)

	result := f.Find()
	require.True(t, result.Found, result.Reason)
	assert.Equal(t, SourceDir, result.Source)
	assert.Equal(t, "-I/opt/liboqs/include", result.CFlags)
	assert.Contains(t, result.LDFlags, "-L/opt/liboqs/lib -loqs")

	env := result.BuildEnv()
	assert.Contains(t, env, `CGO_CFLAGS="-I/opt/liboqs/include"`)
	assert.Contains(t, env, "GOFLAGS=-tags=liboqs")
	for _, line := range env {
		assert.NotContains(t, line, "PKG_CONFIG_PATH", "a LIBOQS_DIR build must not depend on liboqs.pc")
	}
}

func TestFindInDirWithoutPkgConfigFile(t *testing.T) {
	dir := "/opt/liboqs-static"
	f := fakeFinder(
		map[string]string{"LIBOQS_DIR": dir},
		map[string]bool{
			filepath.Join(dir, "include", "oqs", "oqs.h"): false,
			filepath.Join(dir, "lib"):                     true,
			filepath.Join(dir, "lib", "liboqs.a"):         false,
		},
		nil,
	)

	result := f.Find()
	require.True(t, result.Found, result.Reason)
	assert.Equal(t, "-I/opt/liboqs-static/include", result.CFlags)
}

func TestFindInDirEmptyLibDir(t *testing.T) {
	dir := "/opt/headers-only"
	f := fakeFinder(
		map[string]string{"LIBOQS_DIR": dir},
		map[string]bool{
			filepath.Join(dir, "include", "oqs", "oqs.h"): false,
			filepath.Join(dir, "lib"):                     true,
		},
		map[string]string{"--modversion": "0.12.0"},
	)

	result := f.Find()
	assert.False(t, result.Found)
	assert.Contains(t, result.Reason, "liboqs.so")
	assert.Empty(t, result.BuildEnv())

	_, err := Decide(result, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindInDirMissingHeader(t *testing.T) {
	f := fakeFinder(map[string]string{"LIBOQS_DIR": "/opt/empty"}, map[string]bool{}, map[string]string{
		"--modversion": "0.12.0",
	})

	result := f.Find()
	assert.False(t, result.Found, "LIBOQS_DIR must not fall through to pkg-config")
	assert.Contains(t, result.Reason, "oqs.h")
	assert.Len(t, result.SearchPaths, 2)
}

func TestFindWithPkgConfig(t *testing.T) {
	f := fakeFinder(map[string]string{"PKG_CONFIG_PATH": "/a:/b"}, nil, map[string]string{
		"--modversion": "0.12.0",
		"--cflags":     "-I/usr/local/include",
		"--libs":       "-L/usr/local/lib -loqs",
	})

	result := f.Find()
	require.True(t, result.Found, result.Reason)
	assert.Equal(t, "0.12.0", result.Version)
	assert.Equal(t, "-L/usr/local/lib -loqs", result.LDFlags)
	assert.Equal(t, []string{"/a", "/b", "(pkg-config default search path)"}, result.SearchPaths)
	assert.NotContains(t, result.BuildEnv(), `PKG_CONFIG_PATH=""`)
}

func TestFindWithoutPkgConfig(t *testing.T) {
	result := fakeFinder(nil, nil, nil).Find()
	assert.False(t, result.Found)
	assert.Equal(t, "pkg-config not found in PATH", result.Reason)
	assert.Nil(t, result.BuildEnv())
}

func TestFindPackageMissing(t *testing.T) {
	result := fakeFinder(nil, nil, map[string]string{}).Find()
	assert.False(t, result.Found)
	assert.Contains(t, result.Reason, "--modversion")
}

func TestDecide(t *testing.T) {
	useNative, err := Decide(Result{Found: true}, true)
	require.NoError(t, err)
	assert.True(t, useNative)

	useNative, err = Decide(Result{Reason: "nope"}, false)
	require.NoError(t, err)
	assert.False(t, useNative)

	_, err = Decide(Result{Reason: "nope"}, true)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "LIBOQS_DIR")
	assert.Contains(t, err.Error(), "nope")
}
