// Package discovery locates an installed liboqs for building the native
// backend. LIBOQS_DIR, when set, is the only place searched; otherwise
// pkg-config is asked for liboqs.
//
// The native backend links with a bare -loqs, so a search only passes when
// the flags it reports through CGO_CFLAGS and CGO_LDFLAGS are enough to build
// and link against liboqs.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Sources reported in Result.Source.
const (
	SourceDir        = "LIBOQS_DIR"
	SourcePkgConfig  = "pkg-config"
	pkgConfigPackage = "liboqs"
)

// libraryNames are the files in <LIBOQS_DIR>/lib that -loqs can resolve to.
var libraryNames = []string{"liboqs.so", "liboqs.dylib", "liboqs.a"}

// Remediation explains how to make liboqs discoverable.
const Remediation = `liboqs was not found.

Build and install it:
    git clone https://github.com/open-quantum-safe/liboqs
    cmake -S liboqs -B liboqs/build -GNinja -DBUILD_SHARED_LIBS=ON -DOQS_DIST_BUILD=ON \
        -DCMAKE_INSTALL_PREFIX="$HOME/.local/liboqs"
    ninja -C liboqs/build install

Then set one of:
    export LIBOQS_DIR="$HOME/.local/liboqs"
    export PKG_CONFIG_PATH="$HOME/.local/liboqs/lib/pkgconfig:$PKG_CONFIG_PATH"

and build with CGO_ENABLED=1 -tags=liboqs.`

// ErrNotFound reports that liboqs could not be located.
var ErrNotFound = errors.New("discovery: liboqs not found")

// Result is the outcome of a search.
type Result struct {
	Found       bool
	Source      string
	Version     string
	Dir         string
	CFlags      string
	LDFlags     string
	SearchPaths []string
	// Reason explains a failed search.
	Reason string
}

// Finder performs the search. Its fields are the system hooks it uses;
// tests replace them.
type Finder struct {
	Getenv   func(string) string
	Stat     func(string) (os.FileInfo, error)
	LookPath func(string) (string, error)
	Output   func(name string, args ...string) ([]byte, error)
}

// NewFinder returns a Finder bound to the real environment.
func NewFinder() *Finder {
	return &Finder{
		Getenv:   os.Getenv,
		Stat:     os.Stat,
		LookPath: exec.LookPath,
		Output: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		},
	}
}

// Find searches for liboqs.
func (f *Finder) Find() Result {
	if dir := f.Getenv("LIBOQS_DIR"); dir != "" {
		return f.findInDir(dir)
	}
	return f.findWithPkgConfig()
}

func (f *Finder) findInDir(dir string) Result {
	header := filepath.Join(dir, "include", "oqs", "oqs.h")
	libDir := filepath.Join(dir, "lib")
	result := Result{Source: SourceDir, Dir: dir, SearchPaths: []string{header, libDir}}

	if _, err := f.Stat(header); err != nil {
		result.Reason = fmt.Sprintf("LIBOQS_DIR=%s: missing %s", dir, header)
		return result
	}
	if info, err := f.Stat(libDir); err != nil || !info.IsDir() {
		result.Reason = fmt.Sprintf("LIBOQS_DIR=%s: missing library directory %s", dir, libDir)
		return result
	}
	if !f.hasLibrary(libDir) {
		result.Reason = fmt.Sprintf("LIBOQS_DIR=%s: no %s in %s", dir, strings.Join(libraryNames, ", "), libDir)
		return result
	}

	result.Found = true
	result.CFlags = "-I" + filepath.Join(dir, "include")
	result.LDFlags = fmt.Sprintf("-L%s -loqs -Wl,-rpath,%s", libDir, libDir)
	return result
}

func (f *Finder) hasLibrary(libDir string) bool {
	for _, name := range libraryNames {
		if info, err := f.Stat(filepath.Join(libDir, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

func (f *Finder) findWithPkgConfig() Result {
	result := Result{Source: SourcePkgConfig, SearchPaths: pkgConfigPaths(f.Getenv("PKG_CONFIG_PATH"))}

	if _, err := f.LookPath("pkg-config"); err != nil {
		result.Reason = "pkg-config not found in PATH"
		return result
	}

	version, err := f.Output("pkg-config", "--modversion", pkgConfigPackage)
	if err != nil {
		result.Reason = fmt.Sprintf("pkg-config --modversion %s: %v", pkgConfigPackage, err)
		return result
	}
	cflags, err := f.Output("pkg-config", "--cflags", pkgConfigPackage)
	if err != nil {
		result.Reason = fmt.Sprintf("pkg-config --cflags %s: %v", pkgConfigPackage, err)
		return result
	}
	libs, err := f.Output("pkg-config", "--libs", pkgConfigPackage)
	if err != nil {
		result.Reason = fmt.Sprintf("pkg-config --libs %s: %v", pkgConfigPackage, err)
		return result
	}

	result.Found = true
	result.Version = strings.TrimSpace(string(version))
	result.CFlags = strings.TrimSpace(string(cflags))
	result.LDFlags = strings.TrimSpace(string(libs))
	return result
}

func pkgConfigPaths(env string) []string {
	var paths []string
	for _, p := range filepath.SplitList(env) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return append(paths, "(pkg-config default search path)")
}

// Decide reports whether the native backend should be built. When native
// was required and liboqs is missing it returns an error carrying
// Remediation; otherwise a missing liboqs silently selects the mock.
func Decide(result Result, requireNative bool) (bool, error) {
	if result.Found {
		return true, nil
	}
	if requireNative {
		return false, fmt.Errorf("%w (%s)\n\n%s", ErrNotFound, result.Reason, Remediation)
	}
	return false, nil
}

// BuildEnv returns the environment assignments and flags for building the
// native backend, one per line, suitable for eval in a shell.
func (r Result) BuildEnv() []string {
	if !r.Found {
		return nil
	}
	return []string{
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_CFLAGS=%q", r.CFlags),
		fmt.Sprintf("CGO_LDFLAGS=%q", r.LDFlags),
		"GOFLAGS=-tags=liboqs",
	}
}
