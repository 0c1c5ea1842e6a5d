package blob

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// Drivers are reached through two facades: blob stores through this package
// and convergence ledgers through core.OpenLedger.
func TestInfraDriversOnlyBehindFacades(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "travelcore/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	guards := []struct {
		driver  string
		allowed []string
	}{
		{driver: "travelcore/internal/infra/blob", allowed: []string{"travelcore/internal/blob"}},
		{
			driver: "travelcore/internal/infra/persistence",
			allowed: []string{
				"travelcore/internal/core",
				// the simulation tests record passes into the memory ledger
				"travelcore/internal/simulation",
			},
		},
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		for _, g := range guards {
			if underPrefix(pkg.PkgPath, g.driver) || anyPrefix(pkg.PkgPath, g.allowed) {
				continue
			}
			for importPath := range pkg.Imports {
				if underPrefix(importPath, g.driver) {
					seen[pkg.PkgPath+": "+importPath] = struct{}{}
				}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("driver imported outside its facade: %s", v)
		}
		t.Fatalf("found %d driver imports outside facades", len(violations))
	}
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func anyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if underPrefix(path, p) {
			return true
		}
	}
	return false
}
