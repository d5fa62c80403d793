package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devbyharshit/collab-khata/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Defaults.Currency != "INR" {
		t.Fatalf("currency = %s", cfg.Defaults.Currency)
	}
	if cfg.MaxUploadBytes() != 50<<20 {
		t.Fatalf("max upload bytes = %d", cfg.MaxUploadBytes())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"empty currency", func(c *config.Config) { c.Defaults.Currency = "" }, "currency"},
		{"long currency", func(c *config.Config) { c.Defaults.Currency = "RUPEES" }, "3-letter"},
		{"zero ttl", func(c *config.Config) { c.Auth.TokenTTLHours = 0 }, "token_ttl_hours"},
		{"zero size", func(c *config.Config) { c.Uploads.MaxSizeMB = 0 }, "max_size_mb"},
		{"no extensions", func(c *config.Config) { c.Uploads.AllowedExtensions = nil }, "allowed_extensions"},
		{"dotless extension", func(c *config.Config) { c.Uploads.AllowedExtensions = []string{"pdf"} }, "dot"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestExtensionAllowedCaseInsensitive(t *testing.T) {
	cfg := config.Default()
	for _, ext := range []string{".pdf", ".PDF", ".Jpg"} {
		if !cfg.ExtensionAllowed(ext) {
			t.Fatalf("%s should be allowed", ext)
		}
	}
	if cfg.ExtensionAllowed(".exe") {
		t.Fatal(".exe should not be allowed")
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadOptional(dir)
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Defaults.Currency != "INR" {
		t.Fatalf("currency = %s", cfg.Defaults.Currency)
	}

	custom := "defaults:\n  currency: USD\nauth:\n  token_ttl_hours: 24\nuploads:\n  dir: files\n  max_size_mb: 10\n  allowed_extensions: [.pdf]\n"
	if err := os.WriteFile(filepath.Join(dir, "collabkhata.yml"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = config.LoadOptional(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Defaults.Currency != "USD" || cfg.Auth.TokenTTLHours != 24 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "ck init") {
		t.Fatalf("error = %v", err)
	}
}
