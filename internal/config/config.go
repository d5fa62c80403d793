package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config models collabkhata.yml.
type Config struct {
	Defaults struct {
		Currency string `yaml:"currency"`
	} `yaml:"defaults"`
	Auth struct {
		TokenTTLHours int `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	Uploads struct {
		Dir               string   `yaml:"dir"`
		MaxSizeMB         int      `yaml:"max_size_mb"`
		AllowedExtensions []string `yaml:"allowed_extensions"`
	} `yaml:"uploads"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create with ck init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the workspace defaults when no config file exists.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Defaults.Currency == "" {
		return fmt.Errorf("config.defaults.currency is required")
	}
	if len(c.Defaults.Currency) != 3 {
		return fmt.Errorf("config.defaults.currency must be a 3-letter code")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return fmt.Errorf("config.auth.token_ttl_hours must be positive")
	}
	if c.Uploads.Dir == "" {
		return fmt.Errorf("config.uploads.dir is required")
	}
	if c.Uploads.MaxSizeMB <= 0 {
		return fmt.Errorf("config.uploads.max_size_mb must be positive")
	}
	if len(c.Uploads.AllowedExtensions) == 0 {
		return fmt.Errorf("config.uploads.allowed_extensions is required")
	}
	for _, ext := range c.Uploads.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("upload extension %s must start with a dot", ext)
		}
	}
	return nil
}

// ExtensionAllowed reports whether ext (with leading dot) may be uploaded.
// Matching is case-insensitive.
func (c *Config) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.Uploads.AllowedExtensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Uploads.MaxSizeMB) << 20
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "collabkhata.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(defaultTemplate), &cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `defaults:
  currency: INR

auth:
  token_ttl_hours: 72

uploads:
  dir: uploads
  max_size_mb: 50
  allowed_extensions: [.pdf, .png, .jpg, .jpeg, .webp, .mp4, .mov, .doc, .docx, .xls, .xlsx, .txt, .csv, .zip]
`
