package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, strings.Join([]string{
		"api_url: https://file.example",
		"server_id: from-file",
		"token: file-token",
		"log_level: debug",
		"sharing_enabled: true",
		"request_timeout: 5s",
		"db_path: " + filepath.Join(dir, "db", "cache.sqlite"),
	}, "\n"))
	dotenvPath := filepath.Join(dir, ".env")
	writeFile(t, dotenvPath, "CHRONOTE_SERVER_ID=from-dotenv\nCHRONOTE_TOKEN=dotenv-token\n")

	cfg, err := Load(LoadOptions{
		ConfigPath: cfgPath,
		DotenvPath: dotenvPath,
		LookupEnv:  lookupFrom(map[string]string{"CHRONOTE_TOKEN": "env-token"}),
		Apply: func(c *AppConfig) {
			c.LogLevel = "warn"
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.APIURL != "https://file.example" {
		t.Fatalf("api url = %q", cfg.APIURL)
	}
	if cfg.ServerID != "from-dotenv" {
		t.Fatalf("server id = %q, want dotenv value", cfg.ServerID)
	}
	if cfg.Token != "env-token" {
		t.Fatalf("token = %q, want env value", cfg.Token)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("log level = %q, want flag value", cfg.LogLevel)
	}
	if cfg.RequestTimeout.Duration() != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.RequestTimeout.Duration())
	}
	if !cfg.AskAllowed || !cfg.SharingEnabled {
		t.Fatalf("flags = ask:%v sharing:%v", cfg.AskAllowed, cfg.SharingEnabled)
	}
	if _, err := os.Stat(filepath.Join(dir, "db")); err != nil {
		t.Fatalf("db dir not created: %v", err)
	}
}

func TestLoadMissingExplicitConfigFails(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(LoadOptions{
		ConfigPath: filepath.Join(dir, "nope.yaml"),
		DotenvPath: filepath.Join(dir, ".env"),
		LookupEnv:  lookupFrom(nil),
	})
	if err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoadEnvBoolsAndTimeout(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(LoadOptions{
		ConfigPath: writeEmptyConfig(t, dir),
		DotenvPath: filepath.Join(dir, ".env"),
		LookupEnv: lookupFrom(map[string]string{
			"CHRONOTE_ASK_ALLOWED":            "false",
			"CHRONOTE_PUBLIC_SHARING_ENABLED": "true",
			"CHRONOTE_REQUEST_TIMEOUT":        "2.5",
			"CHRONOTE_DB_PATH":                filepath.Join(dir, "cache.sqlite"),
		}),
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AskAllowed {
		t.Fatalf("ask should be disabled")
	}
	if cfg.PublicSharingEnabled {
		t.Fatalf("public sharing requires sharing")
	}
	if cfg.RequestTimeout.Duration() != 2500*time.Millisecond {
		t.Fatalf("timeout = %v", cfg.RequestTimeout.Duration())
	}
}

func TestLoadRejectsBadBool(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(LoadOptions{
		ConfigPath: writeEmptyConfig(t, dir),
		DotenvPath: filepath.Join(dir, ".env"),
		LookupEnv:  lookupFrom(map[string]string{"CHRONOTE_ASK_ALLOWED": "sometimes"}),
	})
	if err == nil || !strings.Contains(err.Error(), "CHRONOTE_ASK_ALLOWED") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	err := AppConfig{}.Validate()
	if err == nil || !strings.Contains(err.Error(), "api_url, server_id") {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if err := (AppConfig{APIURL: "https://x", ServerID: "g1"}).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDetectConfigPath(t *testing.T) {
	path, explicit, err := DetectConfigPath("/tmp/a/../b.yaml", nil)
	if err != nil || path != "/tmp/b.yaml" || !explicit {
		t.Fatalf("got %q %v %v", path, explicit, err)
	}
	path, explicit, err = DetectConfigPath("", lookupFrom(map[string]string{"CHRONOTE_CONFIG": "/etc/chronote.yaml"}))
	if err != nil || path != "/etc/chronote.yaml" || !explicit {
		t.Fatalf("got %q %v %v", path, explicit, err)
	}
}

func writeEmptyConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "db_path: "+filepath.Join(dir, "cache.sqlite")+"\n")
	return path
}
