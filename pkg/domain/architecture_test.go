package domain

import (
	"strings"
	"testing"

	"travelcore/testutil"
)

// The record layer is shared by every schema variant and storage backend, so
// it may only depend on the standard library.
func TestDomainImportsStandardLibraryOnly(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", func(path string) bool {
		first, _, _ := strings.Cut(path, "/")
		return strings.Contains(first, ".") || first == "travelcore"
	}, "pkg/domain must stay free of module and third-party imports")
}

func TestDomainHasNoModuleDependencies(t *testing.T) {
	if testing.Short() {
		t.Skip("shells out to go list")
	}
	testutil.AssertNoTransitiveDependency(t, ".", func(path string) bool {
		return strings.HasPrefix(path, "travelcore/") && path != "travelcore/pkg/domain"
	}, "records must load without the engine or any driver")
}
