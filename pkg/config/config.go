// Package config handles loading and managing Towerscope configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for Towerscope.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Scoring ScoringConfig `yaml:"scoring"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

// DataConfig locates the upgrade and research datasets.
type DataConfig struct {
	CatalogPath  string `yaml:"catalog_path"`
	ResearchPath string `yaml:"research_path"`
	ProfilesDir  string `yaml:"profiles_dir"`
}

// ScoringConfig controls ranking behavior.
type ScoringConfig struct {
	// Categories lists the known upgrade categories. Validation warns when
	// one has no representative; weights for categories outside this list
	// still resolve to the neutral default.
	Categories      []string `yaml:"categories"`
	DefaultStrategy string   `yaml:"default_strategy"`
}

// ServerConfig controls the towerscoped daemon.
type ServerConfig struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"` // empty disables the rank-run history
}

// StorageConfig selects where profile and catalog documents live.
type StorageConfig struct {
	Backend   string   `yaml:"backend"` // local, s3, gcs
	LocalDir  string   `yaml:"local_dir"`
	S3        S3Config `yaml:"s3"`
	GCSBucket string   `yaml:"gcs_bucket"`
}

// S3Config holds credentials and addressing for the S3 backend.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // set for S3-compatible stores like MinIO
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			CatalogPath:  filepath.Join("data", "upgrades.json"),
			ResearchPath: filepath.Join("data", "lab_research.json"),
			ProfilesDir:  filepath.Join("data", "profiles"),
		},
		Scoring: ScoringConfig{
			Categories:      []string{"attack", "defense", "utility"},
			DefaultStrategy: "balanced",
		},
		Server: ServerConfig{
			Port: "8080",
		},
		Storage: StorageConfig{
			Backend:  "local",
			LocalDir: "data",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.Scoring.Categories) == 0 {
		cfg.Scoring.Categories = DefaultConfig().Scoring.Categories
	}

	return cfg, nil
}

// FindConfigFile looks for .towerscope/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".towerscope", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
