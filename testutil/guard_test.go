package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

const testForbiddenImport = "some/forbidden/package"

func TestReflectImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"reflect", true},
		{"github.com/x/reflect", false},
		{"reflectx", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ReflectImportForbidden(c.in); got != c.want {
			t.Fatalf("ReflectImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestInfraAndEngineImportForbiddenPredicates(t *testing.T) {
	cases := []struct {
		in         string
		wantInfra  bool
		wantEngine bool
	}{
		{"travelcore/internal/infra/blob/fs", true, true},
		{"travelcore/internal/shadowprice", false, true},
		{"travelcore/internal/simulation", false, true},
		{"travelcore/internal/core", false, false},
		{"travelcore/pkg/domain", false, false},
		{"infra/blob", false, false},
	}
	for _, c := range cases {
		if got := InfraImportForbidden(c.in); got != c.wantInfra {
			t.Errorf("InfraImportForbidden(%q)=%v want %v", c.in, got, c.wantInfra)
		}
		if got := EngineImportForbidden(c.in); got != c.wantEngine {
			t.Errorf("EngineImportForbidden(%q)=%v want %v", c.in, got, c.wantEngine)
		}
	}
}

func TestAssertNoDirectImportsIgnoresTestsDirsAndOtherFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, src string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	write("main.go", "package tmp\nimport (\n\t\"fmt\"\n\talias \"context\"\n)\nfunc X() { fmt.Println(alias.Background()) }\n")
	write("main_test.go", "package tmp\nimport \""+testForbiddenImport+"\"\n")
	write("sub/sub.go", "package sub\nimport \""+testForbiddenImport+"\"\n")
	write("readme.txt", "import \""+testForbiddenImport+"\"")

	AssertNoDirectImports(t, dir, func(importPath string) bool {
		return importPath == testForbiddenImport
	}, "only production files in dir are scanned")
}

func TestDirectImportViolationsReportsOffenders(t *testing.T) {
	dir := t.TempDir()
	src := []byte("package tmp\nimport \"reflect\"\nvar _ = reflect.TypeOf\n")
	if err := os.WriteFile(filepath.Join(dir, "bad.go"), src, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	viols, err := directImportViolations(dir, ReflectImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || viols[0] != "reflect (in bad.go)" {
		t.Fatalf("unexpected violations %v", viols)
	}
}

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, _ ...any) { r.msg = format }

func TestFailHelpersOnlyFailOnViolations(t *testing.T) {
	rec := &recordingFatal{}
	failIfDirectViolations(rec, "reason", nil)
	failIfTransitiveViolations(rec, "reason", nil)
	if rec.msg != "" {
		t.Fatalf("expected no failure without violations")
	}
	failIfDirectViolations(rec, "reason", []string{"x"})
	if rec.msg == "" {
		t.Fatalf("expected failure for direct violation")
	}
	rec.msg = ""
	failIfTransitiveViolations(rec, "reason", []string{"x"})
	if rec.msg == "" {
		t.Fatalf("expected failure for transitive violation")
	}
}

func TestTransitiveDependencyViolationsUsesGoList(t *testing.T) {
	prev := goListDeps
	t.Cleanup(func() { goListDeps = prev })
	goListDeps = func(string) ([]byte, error) {
		return []byte("fmt\nreflect\n\ntravelcore/internal/core\n"), nil
	}
	viols, _, err := transitiveDependencyViolations("./...", ReflectImportForbidden)
	if err != nil {
		t.Fatalf("violations: %v", err)
	}
	if len(viols) != 1 || viols[0] != "reflect" {
		t.Fatalf("unexpected violations %v", viols)
	}
}
