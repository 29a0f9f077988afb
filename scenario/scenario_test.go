package scenario

import (
	"os"
	"path/filepath"
	"testing"

	coroutine "github.com/dispatchloop/corostate"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing scenario fixture: %v", err)
	}
	return path
}

func TestLoadAndBuild(t *testing.T) {
	path := writeScenario(t, `
name: smoke
tick: 10ms
threads:
  - method: yieldOnly
    tag: a
  - method: yieldWithVarAndArg
    start: 2
    tag: b
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "smoke" {
		t.Fatalf("Name = %q, want smoke", cfg.Name)
	}
	if len(cfg.Threads) != 2 {
		t.Fatalf("got %d threads, want 2", len(cfg.Threads))
	}

	exec := coroutine.NewExecutor()
	if err := cfg.Build(exec); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(exec.Threads()) != 2 {
		t.Fatalf("executor has %d threads, want 2", len(exec.Threads()))
	}
}

func TestLoadEmptyThreadsFails(t *testing.T) {
	path := writeScenario(t, "name: empty\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a scenario with no threads")
	}
}

func TestLoadUnknownMethodFailsAtBuild(t *testing.T) {
	path := writeScenario(t, `
threads:
  - method: doesNotExist
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	exec := coroutine.NewExecutor()
	if err := cfg.Build(exec); err == nil {
		t.Fatal("expected Build to fail for an unregistered method")
	}
}
