//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/gdpplot"

// =============================================================================
// COHESION TEST - Core types must be shared by multiple packages
// =============================================================================

// TestGovernance_CoreCohesion verifies that types in pkg/core are genuinely
// shared across multiple packages. Single-use types should be moved to their
// sole consumer.
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	coreDefs := make(map[types.Object]string)
	var corePkg *packages.Package

	for _, p := range pkgs {
		if p.PkgPath == modulePath+"/pkg/core" {
			corePkg = p
			scope := p.Types.Scope()
			for _, name := range scope.Names() {
				obj := scope.Lookup(name)
				if obj.Exported() {
					coreDefs[obj] = name
				}
			}
			break
		}
	}

	if corePkg == nil {
		t.Fatal("Could not find pkg/core")
	}

	usageMap := make(map[string]map[string]bool)
	for _, name := range coreDefs {
		usageMap[name] = make(map[string]bool)
	}

	base := modulePath + "/"

	for _, p := range pkgs {
		if p.PkgPath == corePkg.PkgPath || strings.HasSuffix(p.PkgPath, "_test") {
			continue
		}
		if p.TypesInfo == nil {
			continue
		}

		for _, info := range p.TypesInfo.Uses {
			if name, exists := coreDefs[info]; exists {
				importer := strings.TrimPrefix(p.PkgPath, base)
				usageMap[name][importer] = true
			}
		}
	}

	for typeName, importers := range usageMap {
		if isCohesionAllowlisted(typeName) {
			continue
		}

		if len(importers) == 0 {
			t.Logf("WARNING: Unused Core Type: %s (consider deleting)", typeName)
		} else if len(importers) == 1 {
			var user string
			for k := range importers {
				user = k
			}
			t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
				"   Fix: Move type from pkg/core to %s.",
				typeName, user, user)
		}
	}
}

// isCohesionAllowlisted returns true for names allowed to have single usage.
func isCohesionAllowlisted(name string) bool {
	allowlist := map[string]bool{
		"Store":                 true, // Interface - one implementation
		"ErrRunNotFound":        true, // Returned by the store, matched by callers via errors.Is
		"DefaultFieldSeparator": true, // Defaults are read where the config is resolved
		"DefaultQuoteCharacter": true,
		"DefaultKeyFieldName":   true,
		"DefaultSource":         true,
	}
	return allowlist[name]
}

// =============================================================================
// PURITY TEST - Only internal/state may alias core types
// =============================================================================

// TestGovernance_NoTypeAliasReexports ensures packages don't re-export core
// types as aliases. internal/state keeps its aliases for the history call sites.
func TestGovernance_NoTypeAliasReexports(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	allowed := map[string]bool{
		modulePath + "/internal/state": true,
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 || allowed[pkg.PkgPath] || pkg.PkgPath == modulePath+"/pkg/core" {
			continue
		}

		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			typeName, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !typeName.Exported() || !typeName.IsAlias() {
				continue
			}
			named, ok := types.Unalias(typeName.Type()).(*types.Named)
			if !ok || named.Obj().Pkg() == nil {
				continue
			}
			if named.Obj().Pkg().Path() == modulePath+"/pkg/core" {
				t.Errorf("PURITY VIOLATION: Package '%s' re-exports type alias '%s'.\n"+
					"   Fix: Remove the alias. Consumers should use core.%s directly.",
					strings.TrimPrefix(pkg.PkgPath, modulePath+"/"), name, named.Obj().Name())
			}
		}
	}
}
