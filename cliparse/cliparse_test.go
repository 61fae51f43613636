// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("IP_HASH_SALT", "test-salt")
	t.Setenv("EXPIRE_SWEEP_CRON", "@hourly")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.ExpireSweepSpec != "@hourly" {
		t.Errorf("expected @hourly, got %q", cfg.ExpireSweepSpec)
	}
	if cfg.MetricsEnabled {
		t.Error("expected metrics disabled")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected json log format, got %q", cfg.LogFormat)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-ip-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_TYPE", "PUBLIC_BASE_URL", "EXPIRE_SWEEP_CRON", "METRICS_ENABLED", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	cfg, err := ParseFlags([]string{"-d", "survey.db", "-ip-salt", "s"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite default, got %q", cfg.DatabaseType)
	}
	if cfg.ExpireSweepSpec != "@every 5m" {
		t.Errorf("expected @every 5m, got %q", cfg.ExpireSweepSpec)
	}
	if !cfg.MetricsEnabled {
		t.Error("expected metrics enabled by default")
	}
	if cfg.PublicBaseURL != "http://localhost:3318" {
		t.Errorf("unexpected base URL %q", cfg.PublicBaseURL)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database", map[string]string{"DATABASE_URL": "", "IP_HASH_SALT": "s"}, nil},
		{"missing salt", map[string]string{"DATABASE_URL": "x.db", "IP_HASH_SALT": ""}, nil},
		{"bad port", map[string]string{"PORT": "abc", "DATABASE_URL": "x.db", "IP_HASH_SALT": "s"}, nil},
		{"bad database type", map[string]string{"DATABASE_URL": "x.db", "IP_HASH_SALT": "s"}, []string{"-t", "mysql"}},
		{"bad metrics flag", map[string]string{"DATABASE_URL": "x.db", "IP_HASH_SALT": "s"}, []string{"-metrics", "maybe"}},
		{"bad log format", map[string]string{"DATABASE_URL": "x.db", "IP_HASH_SALT": "s"}, []string{"-log-format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", "")
			t.Setenv("DATABASE_TYPE", "")
			t.Setenv("METRICS_ENABLED", "")
			t.Setenv("LOG_FORMAT", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("IP_HASH_SALT", "")
	os.Unsetenv("IP_HASH_SALT")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("IP_HASH_SALT=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv("IP_HASH_SALT"); got != "from-dotenv" {
		t.Errorf("expected from-dotenv, got %q", got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing .env should not be an error, got %v", err)
	}
}
