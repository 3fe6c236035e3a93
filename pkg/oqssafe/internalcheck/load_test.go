package internalcheck

import (
	"testing"

	"golang.org/x/tools/go/packages"
)

const (
	modulePath  = "github.com/oqssafe/oqs-safe-go"
	libraryRoot = modulePath + "/pkg/oqssafe"
	backendPath = libraryRoot + "/internal/backend"
	loggingPath = libraryRoot + "/logging"
)

func loadLibrary(t *testing.T, mode packages.LoadMode) []*packages.Package {
	t.Helper()

	cfg := &packages.Config{Mode: mode | packages.NeedName | packages.NeedFiles}
	pkgs, err := packages.Load(cfg, libraryRoot+"/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("packages under %s failed to load", libraryRoot)
	}
	if len(pkgs) == 0 {
		t.Fatalf("no packages matched %s/...", libraryRoot)
	}
	return pkgs
}
