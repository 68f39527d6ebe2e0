package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
)

// isolate points config discovery and data directories at an empty temp
// dir and clears NANOTASKS_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, key := range []string{"CONFIG", "STORE_BACKEND", "STORE_PATH", "WEB_ADDR", "LOG_LEVEL", "LOG_STDERR", "EXPORT_FORMAT"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		_ = os.Unsetenv(EnvPrefix + "_" + key)
	}
	t.Chdir(dir)
	return dir
}

func TestDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		Store:  StoreConfig{Backend: "json", Path: filepath.Join(dir, "data", "nanotasks", "tasks.json")},
		Web:    WebConfig{Addr: "127.0.0.1:8080"},
		Log:    LogConfig{Level: "warn"},
		Export: ExportConfig{Format: "plaintext"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigFileEnvAndFlags(t *testing.T) {
	dir := isolate(t)

	configPath := filepath.Join(dir, "custom.yaml")
	content := "store:\n  backend: sqlite\n  path: /srv/tasks.db\nlog:\n  level: info\nexport:\n  format: markdown\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NANOTASKS_CONFIG", configPath)
	t.Setenv("NANOTASKS_LOG_LEVEL", "debug")

	v := New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("store", "", "")
	flags.String("addr", "", "")
	if err := BindFlags(v, flags, map[string]string{KeyStorePath: "store", KeyWebAddr: "addr", KeyLogStderr: "verbose"}); err != nil {
		t.Fatal(err)
	}
	if err := flags.Parse([]string{"--store", "/tmp/override.db"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		Store:  StoreConfig{Backend: "sqlite", Path: "/tmp/override.db"},
		Web:    WebConfig{Addr: "127.0.0.1:8080"},
		Log:    LogConfig{Level: "debug"},
		Export: ExportConfig{Format: "markdown"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"NANOTASKS_STORE_BACKEND", "postgres"},
		{"NANOTASKS_LOG_LEVEL", "loud"},
		{"NANOTASKS_EXPORT_FORMAT", "docx"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(New()); err == nil {
				t.Errorf("Load() should reject %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestMissingExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("NANOTASKS_CONFIG", filepath.Join(dir, "missing.yaml"))
	if _, err := Load(New()); err == nil {
		t.Error("Load() should fail when NANOTASKS_CONFIG does not exist")
	}
}

func TestMemoryBackendHasNoPath(t *testing.T) {
	isolate(t)
	t.Setenv("NANOTASKS_STORE_BACKEND", "memory")
	cfg, err := Load(New())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Path != "" {
		t.Errorf("memory backend path = %q, want empty", cfg.Store.Path)
	}
}
