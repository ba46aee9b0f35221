package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadSkipSet(t *testing.T) {
	path := writeTempFile(t, "skip.yaml", `skip:
  - Microsoft.Edge
  - Some.PinnedApp
`)
	set, err := LoadSkipSet(path)
	if err != nil {
		t.Fatalf("LoadSkipSet() error: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("len(set) = %d, want 2", len(set))
	}
	for _, id := range []string{"Microsoft.Edge", "Some.PinnedApp"} {
		if _, ok := set[id]; !ok {
			t.Errorf("set missing %s", id)
		}
	}
}

func TestLoadSkipSet_MissingFileIsFatal(t *testing.T) {
	if _, err := LoadSkipSet(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("a configured but missing skip list must be an error")
	}
}

func TestLoadSkipSet_MalformedIsFatal(t *testing.T) {
	path := writeTempFile(t, "skip.yaml", "skip: [unclosed\n")
	if _, err := LoadSkipSet(path); err == nil {
		t.Fatal("malformed YAML must be an error")
	}
}

func TestLoadSkipSet_UnknownKeysRejected(t *testing.T) {
	path := writeTempFile(t, "skip.yaml", `skipp:
  - Typo.App
`)
	if _, err := LoadSkipSet(path); err == nil {
		t.Fatal("unknown keys must be an error, a typo silently skips nothing")
	}
}

func TestLoadSkipSet_EmptyFileYieldsEmptySet(t *testing.T) {
	path := writeTempFile(t, "skip.yaml", "")
	set, err := LoadSkipSet(path)
	if err != nil {
		t.Fatalf("LoadSkipSet() error: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("len(set) = %d, want 0", len(set))
	}
}

func TestLoadFromPath_Defaults(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "winget:\n  binary: winget-test\n")
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Winget.Binary != "winget-test" {
		t.Errorf("Winget.Binary = %q", cfg.Winget.Binary)
	}
	// Unset keys fall back to defaults.
	if !cfg.History.Enabled {
		t.Error("History.Enabled default must be true")
	}
	if cfg.Run.PollInterval.Milliseconds() != 120 {
		t.Errorf("Run.PollInterval = %v, want 120ms", cfg.Run.PollInterval)
	}
}
