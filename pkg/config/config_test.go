package config

import (
	"os"
	"path/filepath"
	"testing"
)

// setRequiredEnv sets the env vars without which Load refuses to start.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONNECTION_CREDENTIALS_KEY", "test-passphrase")
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	t.Setenv("LLM_MODEL", "gpt-4o")
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(original)
	})
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)

	cfg, err := Load("test-version")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Version != "test-version" {
		t.Errorf("Version = %q, want %q", cfg.Version, "test-version")
	}
	if cfg.Port != "8460" {
		t.Errorf("Port = %q, want default 8460", cfg.Port)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("LLM.Provider = %q, want default openai", cfg.LLM.Provider)
	}
	if cfg.Pipeline.PromptBudgetBytes != 16384 {
		t.Errorf("PromptBudgetBytes = %d, want default 16384", cfg.Pipeline.PromptBudgetBytes)
	}
	if !cfg.Auth.EnableVerification {
		t.Error("Auth.EnableVerification should default to true")
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	yamlContent := `
port: "9000"
env: "test"
database:
  host: "db.example.com"
  database: "scoutdb"
llm:
  model: "yaml-model"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	chdir(t, tmpDir)
	setRequiredEnv(t)
	t.Setenv("PORT", "9100")
	t.Setenv("LLM_MODEL", "env-model")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9100" {
		t.Errorf("Port = %q, env should override YAML", cfg.Port)
	}
	if cfg.LLM.Model != "env-model" {
		t.Errorf("LLM.Model = %q, env should override YAML", cfg.LLM.Model)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("Database.Host = %q, want YAML value", cfg.Database.Host)
	}
}

func TestLoad_MissingCredentialsKey(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)
	t.Setenv("CONNECTION_CREDENTIALS_KEY", "")

	if _, err := Load("dev"); err == nil {
		t.Fatal("Load should fail without CONNECTION_CREDENTIALS_KEY")
	}
}

func TestLoad_MissingJWTSecretWithVerificationDisabled(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AUTH_ENABLE_VERIFICATION", "false")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load should succeed with verification disabled: %v", err)
	}
	if cfg.Auth.EnableVerification {
		t.Error("EnableVerification should be false")
	}
}

func TestDatabaseURL(t *testing.T) {
	c := DatabaseConfig{
		Host: "localhost", Port: 5432,
		User: "scout", Password: "pw",
		Database: "scoutdb", SSLMode: "disable",
	}
	want := "postgres://scout:pw@localhost:5432/scoutdb?sslmode=disable"
	if got := c.URL(); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}
