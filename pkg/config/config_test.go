package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return configPath
}

func TestLoad_DefaultsApplied(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: "INFO"

database:
  type: sqlite

api:
  port: 8080
  jwt:
    secret: "test-secret-key-for-testing-minimum-32-chars"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected API port 8080, got %d", cfg.API.Port)
	}
	if cfg.API.JWT.AccessTokenDuration != 15*time.Minute {
		t.Errorf("Expected default access token duration 15m, got %v", cfg.API.JWT.AccessTokenDuration)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Loading with no config file returns a valid default config so the
	// server can run without one for quick testing.
	tmpDir := t.TempDir()
	nonExistentPath := filepath.Join(tmpDir, "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected default config to be returned")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics disabled by default")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: INFO
  invalid yaml here [[[
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	configPath := writeConfig(t, `
logging:
  level: "VERBOSE"

api:
  jwt:
    secret: "test-secret-key-for-testing-minimum-32-chars"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "Logging.Level") {
		t.Errorf("Expected error to name the logging level field, got: %v", err)
	}
}

func TestLoad_DurationStrings(t *testing.T) {
	configPath := writeConfig(t, `
shutdown_timeout: "45s"

api:
  read_timeout: "20s"
  jwt:
    secret: "test-secret-key-for-testing-minimum-32-chars"
    access_token_duration: "30m"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.ShutdownTimeout != 45*time.Second {
		t.Errorf("Expected shutdown_timeout 45s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.API.ReadTimeout != 20*time.Second {
		t.Errorf("Expected read_timeout 20s, got %v", cfg.API.ReadTimeout)
	}
	if cfg.API.JWT.AccessTokenDuration != 30*time.Minute {
		t.Errorf("Expected access_token_duration 30m, got %v", cfg.API.JWT.AccessTokenDuration)
	}
}

func TestLoad_MetricsPortConflict(t *testing.T) {
	configPath := writeConfig(t, `
metrics:
  enabled: true
  port: 8080

api:
  port: 8080
  jwt:
    secret: "test-secret-key-for-testing-minimum-32-chars"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected error for metrics/API port conflict")
	}
	if !strings.Contains(err.Error(), "conflicts") {
		t.Errorf("Expected port conflict error, got: %v", err)
	}
}

func TestLoad_MetricsDefaultPort(t *testing.T) {
	configPath := writeConfig(t, `
metrics:
  enabled: true

api:
  jwt:
    secret: "test-secret-key-for-testing-minimum-32-chars"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Metrics.Port != 9090 {
		t.Errorf("Expected default metrics port 9090, got %d", cfg.Metrics.Port)
	}
}

func TestLoad_DirectoryAndPolicy(t *testing.T) {
	configPath := writeConfig(t, `
directory:
  base_url: "https://idp.example.com"
  token: "secret-token"

policy:
  shared_vault_owner_access: true

api:
  jwt:
    secret: "test-secret-key-for-testing-minimum-32-chars"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !cfg.Directory.Enabled() {
		t.Error("Expected directory to be enabled when base_url is set")
	}
	if cfg.Directory.Timeout != 5*time.Second {
		t.Errorf("Expected default directory timeout 5s, got %v", cfg.Directory.Timeout)
	}
	if !cfg.Policy.SharedVaultOwnerAccess {
		t.Error("Expected shared_vault_owner_access to be true")
	}
}

func TestLoad_DirectoryDisabledByDefault(t *testing.T) {
	cfg := GetDefaultConfig()
	if cfg.Directory.Enabled() {
		t.Error("Expected directory disabled when base_url is empty")
	}
	if cfg.Policy.SharedVaultOwnerAccess {
		t.Error("Expected shared_vault_owner_access false by default")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "saved.yaml")

	cfg := GetDefaultConfig()
	cfg.API.JWT.Secret = "test-secret-key-for-testing-minimum-32-chars"
	cfg.Policy.SharedVaultOwnerAccess = true

	if err := SaveConfig(cfg, configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// The file may hold secrets, so it must not be world-readable.
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected file mode 0600, got %o", perm)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to reload saved config: %v", err)
	}
	if loaded.API.JWT.Secret != cfg.API.JWT.Secret {
		t.Error("JWT secret did not survive the round trip")
	}
	if !loaded.Policy.SharedVaultOwnerAccess {
		t.Error("Policy flag did not survive the round trip")
	}
}

func TestInitConfigToPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "init.yaml")

	if err := InitConfigToPath(configPath, false); err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}
	if len(cfg.API.JWT.Secret) < 32 {
		t.Errorf("Expected generated JWT secret of at least 32 chars, got %d", len(cfg.API.JWT.Secret))
	}

	// Second init without --force must refuse to overwrite.
	if err := InitConfigToPath(configPath, false); err == nil {
		t.Fatal("Expected error when config already exists")
	}

	// With force it succeeds and generates a fresh secret.
	oldSecret := cfg.API.JWT.Secret
	if err := InitConfigToPath(configPath, true); err != nil {
		t.Fatalf("Failed to force-init config: %v", err)
	}
	cfg2, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if cfg2.API.JWT.Secret == oldSecret {
		t.Error("Expected a fresh secret after force init")
	}
}

func TestValidate_ShutdownTimeoutRequired(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.API.JWT.Secret = "test-secret-key-for-testing-minimum-32-chars"
	cfg.ShutdownTimeout = 0

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for zero shutdown timeout")
	}
}
