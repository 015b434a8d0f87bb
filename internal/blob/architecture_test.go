package blob

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// importBoundary restricts which packages may import an infra subtree.
type importBoundary struct {
	infra   string
	allowed []string
}

// TestInfraImportBoundaries ensures infra adapters are only reached through
// their facade packages: blob backends through internal/blob and checklist
// stores through internal/core.
func TestInfraImportBoundaries(t *testing.T) {
	boundaries := []importBoundary{
		{infra: "matcheck/internal/infra/blob", allowed: []string{"matcheck/internal/blob"}},
		{infra: "matcheck/internal/infra/persistence", allowed: []string{"matcheck/internal/core"}},
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "matcheck/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		path := strings.TrimSuffix(pkg.PkgPath, ".test")
		for _, b := range boundaries {
			if hasPrefix(path, b.infra) || anyPrefix(path, b.allowed) {
				continue
			}
			for importPath := range pkg.Imports {
				if hasPrefix(importPath, b.infra) {
					seen[path+": "+importPath] = struct{}{}
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
			t.Errorf("forbidden infra import: %s", v)
		}
		t.Fatalf("found %d forbidden infra imports", len(violations))
	}
}

func hasPrefix(importPath, prefix string) bool {
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}

func anyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if hasPrefix(path, p) {
			return true
		}
	}
	return false
}
