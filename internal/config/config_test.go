package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolateHome points the home-level config lookups at an empty directory
// so a developer's own ~/.config/bugs/config.yaml cannot leak into tests.
func isolateHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

func TestInitializeDefaults(t *testing.T) {
	isolateHome(t)
	t.Chdir(t.TempDir())
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if got := DefaultPriority(); got != "medium" {
		t.Errorf("default-priority = %q, want medium", got)
	}
	if !AutoStatus() {
		t.Error("auto-status default should be true")
	}
	if got := GetInt("quick-win-minutes"); got != 60 {
		t.Errorf("quick-win-minutes = %d, want 60", got)
	}
	if got := GetInt("summary-hours"); got != 24 {
		t.Errorf("summary-hours = %d, want 24", got)
	}
}

func TestProjectConfigFoundFromSubdirectory(t *testing.T) {
	isolateHome(t)
	root := t.TempDir()
	content := "default-priority: high\nauto-status: false\n"
	if err := os.WriteFile(filepath.Join(root, ".bugsrc.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	t.Chdir(nested)

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := DefaultPriority(); got != "high" {
		t.Errorf("default-priority = %q, want high", got)
	}
	if AutoStatus() {
		t.Error("auto-status should be false from project config")
	}
}

func TestEnvOverridesConfig(t *testing.T) {
	isolateHome(t)
	t.Chdir(t.TempDir())
	t.Setenv("BUGS_DEFAULT_PRIORITY", "low")

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := DefaultPriority(); got != "low" {
		t.Errorf("default-priority = %q, want low from env", got)
	}
}

func TestIssuesDirWalksUp(t *testing.T) {
	isolateHome(t)
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "issues"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	nested := filepath.Join(root, "pkg", "auth")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	t.Chdir(nested)
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	want := filepath.Join(filepath.Dir(filepath.Dir(cwd)), "issues")
	if got := IssuesDir(); got != want {
		t.Errorf("IssuesDir = %q, want %q", got, want)
	}
}

func TestIssuesDirFixedLocation(t *testing.T) {
	isolateHome(t)
	t.Chdir(t.TempDir())
	if err := Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Set("issues-location", "/srv/tracker")

	if got := IssuesDir(); got != filepath.Join("/srv/tracker", "issues") {
		t.Errorf("IssuesDir = %q", got)
	}
}
