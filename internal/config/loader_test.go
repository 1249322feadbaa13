package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("HOUSEKEEPING_CONFIG", "")

		cfg, err := Load(nil)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.Server.HTTPPort != 3000 {
			t.Fatalf("expected default port 3000, got %d", cfg.Server.HTTPPort)
		}
		if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "housekeeping.db" {
			t.Fatalf("unexpected database defaults: %+v", cfg.Database)
		}
		if cfg.Session.TTL != 2*time.Hour {
			t.Fatalf("expected 2h session ttl, got %v", cfg.Session.TTL)
		}
		if !cfg.UsesFallbackSecret() {
			t.Fatal("expected fallback secret when none is configured")
		}
		if cfg.IsProduction() {
			t.Fatal("default environment must not be production")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("HOUSEKEEPING_CONFIG", "")
		t.Setenv("HOUSEKEEPING_SERVER_HTTP_PORT", "8081")
		t.Setenv("HOUSEKEEPING_SESSION_SECRET", "s3cret")
		t.Setenv("HOUSEKEEPING_SESSION_TTL", "90m")
		t.Setenv("HOUSEKEEPING_SESSION_DENYLIST", "Redis")
		t.Setenv("HOUSEKEEPING_DATABASE_DRIVER", "memory")

		cfg, err := Load(nil)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.Server.HTTPPort != 8081 {
			t.Fatalf("port = %d", cfg.Server.HTTPPort)
		}
		if cfg.Session.Secret != "s3cret" || cfg.UsesFallbackSecret() {
			t.Fatalf("secret = %q", cfg.Session.Secret)
		}
		if cfg.Session.TTL != 90*time.Minute {
			t.Fatalf("ttl = %v", cfg.Session.TTL)
		}
		if cfg.Session.Denylist != "redis" {
			t.Fatalf("denylist = %q", cfg.Session.Denylist)
		}
		if cfg.Database.Driver != "memory" {
			t.Fatalf("driver = %q", cfg.Database.Driver)
		}
	})

	t.Run("yaml file and flags", func(t *testing.T) {
		t.Setenv("HOUSEKEEPING_CONFIG", "")
		path := filepath.Join(t.TempDir(), "housekeeping.yaml")
		yaml := "app:\n  env: production\nsession:\n  secret: from-file\nlogs:\n  format: text\n"
		if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		RegisterFlags(fs)
		if err := fs.Parse([]string{"--config", path, "--seed", "--port", "9000"}); err != nil {
			t.Fatalf("parse flags: %v", err)
		}

		cfg, err := Load(fs)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if !cfg.IsProduction() || cfg.Session.Secret != "from-file" || cfg.Logs.Format != "text" {
			t.Fatalf("file values not applied: %+v", cfg)
		}
		if !cfg.Seed.Enabled {
			t.Fatal("expected --seed to enable seeding")
		}
		if cfg.Server.HTTPPort != 9000 {
			t.Fatalf("port = %d", cfg.Server.HTTPPort)
		}
	})

	t.Run("production rejects fallback secret", func(t *testing.T) {
		t.Setenv("HOUSEKEEPING_CONFIG", "")
		t.Setenv("HOUSEKEEPING_APP_ENV", "production")
		t.Setenv("HOUSEKEEPING_SESSION_SECRET", "")

		_, err := Load(nil)
		if err == nil || !strings.Contains(err.Error(), "session.secret") {
			t.Fatalf("expected session.secret error, got %v", err)
		}
	})

	t.Run("reports every invalid key", func(t *testing.T) {
		t.Setenv("HOUSEKEEPING_CONFIG", "")
		t.Setenv("HOUSEKEEPING_DATABASE_DRIVER", "oracle")
		t.Setenv("HOUSEKEEPING_SESSION_DENYLIST", "etcd")
		t.Setenv("HOUSEKEEPING_LOGS_FORMAT", "xml")

		_, err := Load(nil)
		if err == nil {
			t.Fatal("expected validation error")
		}
		for _, key := range []string{"database.driver", "session.denylist", "logs.format"} {
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("error %q does not mention %s", err, key)
			}
		}
	})
}
