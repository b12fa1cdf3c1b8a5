package configfinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

func TestResolve_FindsConfigFromNestedDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "ws")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfgPath := filepath.Join(root, "cdrtools.yaml")
	if err := os.WriteFile(cfgPath, []byte("repository:\n  name: cdrtest\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f := NewFinder()
	got, found, err := f.Resolve("", nested)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !found {
		t.Fatalf("expected config to be found")
	}
	if got != cfgPath {
		t.Fatalf("expected path=%s, got=%s", cfgPath, got)
	}
}

func TestResolve_ExplicitPathWins(t *testing.T) {
	tmp := t.TempDir()

	// A config in the search path that must be ignored.
	if err := os.WriteFile(filepath.Join(tmp, "cdrtools.yaml"), []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	explicit := filepath.Join(tmp, "other.yaml")
	if err := os.WriteFile(explicit, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f := NewFinder()
	got, found, err := f.Resolve(explicit, tmp)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !found || got != explicit {
		t.Fatalf("expected explicit path %q, got %q (found=%v)", explicit, got, found)
	}
}

func TestResolve_ExplicitMissingFileIsError(t *testing.T) {
	f := NewFinder()
	_, _, err := f.Resolve(filepath.Join(t.TempDir(), "absent.yaml"), ".")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestResolve_EnvOverride(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "from-env.yaml")
	if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CDRTOOLS_CONFIG", cfgPath)

	f := NewFinder()
	got, found, err := f.Resolve("", t.TempDir())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !found || got != cfgPath {
		t.Fatalf("expected env path %q, got %q (found=%v)", cfgPath, got, found)
	}
}

func TestResolve_NothingFoundIsNotAnError(t *testing.T) {
	tmp := t.TempDir()
	_ = os.MkdirAll(filepath.Join(tmp, "a", "b"), 0o755)
	t.Setenv("CDRTOOLS_CONFIG", "")

	f := NewFinder()
	f.ConfigFile = "cdrtools-test-absent.yaml"
	_, found, err := f.Resolve("", filepath.Join(tmp, "a", "b"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if found {
		t.Fatalf("expected no config to be found")
	}
}
