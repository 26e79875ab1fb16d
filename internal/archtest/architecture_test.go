package archtest_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const moduleRoot = "github.com/eykd/linemark"

// Architectural layers from inner to outer.
const (
	layerDomain         = "domain"
	layerApplication    = "application"
	layerInfrastructure = "infrastructure"
	layerPresentation   = "presentation"
)

// packageLayer maps relative package paths to their architectural layer.
var packageLayer = map[string]string{
	"internal/domain": layerDomain,
	// frontmatter is a pure text-format helper with no outward
	// dependencies; it sits with the domain.
	"internal/frontmatter": layerDomain,
	"internal/outline":     layerApplication,
	"internal/lock":        layerInfrastructure,
	"internal/slug":        layerInfrastructure,
	"internal/sqid":        layerInfrastructure,
	"internal/fs":          layerInfrastructure,
	"internal/config":      layerInfrastructure,
	"cmd":                  layerPresentation,
}

// allowedImports defines the dependency matrix:
//
//	Domain         → Domain only
//	Application    → Domain, Application
//	Infrastructure → Domain, Application, Infrastructure
//	Presentation   → everything
var allowedImports = map[string]map[string]bool{
	layerDomain:         {layerDomain: true},
	layerApplication:    {layerDomain: true, layerApplication: true},
	layerInfrastructure: {layerDomain: true, layerApplication: true, layerInfrastructure: true},
	layerPresentation:   {layerDomain: true, layerApplication: true, layerInfrastructure: true, layerPresentation: true},
}

// projectRoot returns the absolute path to the repository root by
// navigating up from this test file (internal/archtest/).
func projectRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to determine test file path")
	}
	return filepath.Join(filepath.Dir(filename), "..", "..")
}

// collectInternalImports parses all non-test Go files in dir and
// returns the module-internal packages they import.
func collectInternalImports(t *testing.T, dir string) map[string][]string {
	t.Helper()
	imports := map[string][]string{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	fset := token.NewFileSet()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parsing %s: %v", name, err)
		}
		for _, imp := range file.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if rel, ok := strings.CutPrefix(path, moduleRoot+"/"); ok {
				imports[name] = append(imports[name], rel)
			}
		}
	}
	return imports
}

func TestArchitecture_LayerDependencies(t *testing.T) {
	root := projectRoot(t)

	for pkg, layer := range packageLayer {
		dir := filepath.Join(root, filepath.FromSlash(pkg))
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Errorf("package %s listed in the layer map does not exist", pkg)
			continue
		}
		for file, imports := range collectInternalImports(t, dir) {
			for _, imported := range imports {
				importedLayer, known := packageLayer[imported]
				if !known {
					t.Errorf("%s/%s imports %s, which is not in the layer map", pkg, file, imported)
					continue
				}
				if !allowedImports[layer][importedLayer] {
					t.Errorf("%s/%s (%s) must not import %s (%s)", pkg, file, layer, imported, importedLayer)
				}
			}
		}
	}
}

func TestArchitecture_DomainImportsNoThirdParty(t *testing.T) {
	root := projectRoot(t)
	dir := filepath.Join(root, "internal", "domain")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	fset := token.NewFileSet()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parsing %s: %v", name, err)
		}
		for _, imp := range file.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if strings.Contains(path, ".") {
				t.Errorf("domain file %s imports %s; the domain stays standard-library only", name, path)
			}
		}
	}
}
