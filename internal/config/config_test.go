package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rebeliceyang/lazydbm/internal/models"
)

// isolate keeps the test away from any real config on the machine.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LAZYDBM_CONFIG", "")
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSingleFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "config.yaml", `
conn:
  - type: postgres
    name: local
    user: postgres
    host: localhost
    port: 5432
    database: app
ui:
  tree_width_percent: 25
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Conns) != 1 {
		t.Fatalf("got %d connections, want 1", len(cfg.Conns))
	}
	c := cfg.Conns[0]
	if c.Type != models.DatabaseTypePostgres || c.Name != "local" || c.Port != 5432 {
		t.Errorf("connection = %+v", c)
	}
	if cfg.UI.TreeWidthPercent != 25 {
		t.Errorf("tree width = %d, want 25", cfg.UI.TreeWidthPercent)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadMergesSourcesInOrder(t *testing.T) {
	isolate(t)
	envPath := writeConfig(t, "env.yaml", `
conn:
  - type: sqlite
    path: /tmp/first.db
ui:
  tree_width_percent: 30
`)
	flagPath := writeConfig(t, "flag.yaml", `
conn:
  - type: mysql
    user: root
    host: db.example.com
    port: 3306
ui:
  tree_width_percent: 40
`)
	t.Setenv("LAZYDBM_CONFIG", envPath)

	cfg, err := Load(flagPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Conns) != 2 {
		t.Fatalf("got %d connections, want 2", len(cfg.Conns))
	}
	// Environment source is read before the flag source.
	if cfg.Conns[0].Type != models.DatabaseTypeSQLite || cfg.Conns[1].Type != models.DatabaseTypeMySQL {
		t.Errorf("connection order = %v, %v", cfg.Conns[0].Type, cfg.Conns[1].Type)
	}
	// Scalar settings are last-one-wins.
	if cfg.UI.TreeWidthPercent != 40 {
		t.Errorf("tree width = %d, want 40", cfg.UI.TreeWidthPercent)
	}
}

func TestLoadMissingFilesAreSkipped(t *testing.T) {
	isolate(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Conns) != 0 {
		t.Errorf("got %d connections, want 0", len(cfg.Conns))
	}
	if cfg.UI.TreeWidthPercent != 15 {
		t.Errorf("tree width = %d, want default 15", cfg.UI.TreeWidthPercent)
	}
}

func TestLoadParseErrorIncludesSample(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "broken.yaml", "conn: [this is: not valid\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if msg := err.Error(); !strings.Contains(msg, "sample config") {
		t.Errorf("error %q should include the sample config", msg)
	}
}

func TestLoadRejectsBogusTreeWidth(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "config.yaml", `
ui:
  tree_width_percent: 150
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.TreeWidthPercent != 15 {
		t.Errorf("tree width = %d, want fallback 15", cfg.UI.TreeWidthPercent)
	}
}
