package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://scolab.example/api
  timeout_seconds: 5
database:
  path: /tmp/scolab.db
prefs:
  secret: s3cret
notify:
  port: 9999
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if c.API.BaseURL != "https://scolab.example/api" {
		t.Errorf("BaseURL = %q", c.API.BaseURL)
	}
	if got := c.API.Timeout(); got != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", got)
	}
	if c.Notify.Port != 9999 {
		t.Errorf("Notify.Port = %d, want 9999", c.Notify.Port)
	}
	// unset keys fall back to defaults
	if c.Export.Dir != "exports" {
		t.Errorf("Export.Dir = %q, want the default", c.Export.Dir)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load without config file error = %v", err)
	}
	if c.API.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q, want the default", c.API.BaseURL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://file.example
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SCL_API_BASE_URL", "https://env.example")
	t.Setenv("SCL_NOTIFY_PORT", "7777")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	// env beats file, for nested keys too
	if c.API.BaseURL != "https://env.example" {
		t.Errorf("BaseURL = %q, want the env override", c.API.BaseURL)
	}
	if c.Notify.Port != 7777 {
		t.Errorf("Notify.Port = %d, want the env override", c.Notify.Port)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load with missing explicit path error = nil, want error")
	}
}

func TestTimeoutDefault(t *testing.T) {
	if got := (APIConfig{}).Timeout(); got != 30*time.Second {
		t.Errorf("zero-value Timeout = %v, want 30s", got)
	}
}
