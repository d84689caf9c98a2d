package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "codegraph.yaml"

type Config struct {
	Project struct {
		Root         string   `yaml:"root"`
		Exclude      []string `yaml:"exclude"`
		IgnoredDirs  []string `yaml:"ignored_dirs"`
		UseGitignore bool     `yaml:"use_gitignore"`
	} `yaml:"project"`
	Sync struct {
		Workers int `yaml:"workers"`
	} `yaml:"sync"`
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
	Watch struct {
		Debounce    string `yaml:"debounce"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"watch"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Project.UseGitignore = true
	cfg.Sync.Workers = 1
	cfg.Storage.DBPath = "codegraph.db"
	cfg.Watch.Debounce = "500ms"
	return &cfg
}

// DebounceDuration parses Watch.Debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch.debounce %q: %w", c.Watch.Debounce, err)
	}
	return d, nil
}

// LoadConfig reads path on top of the defaults. A missing file is not an
// error. CODEGRAPH_* environment variables, including those set by a .env
// file, override both.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// 3. Override with Environment Variables if present
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Sync.Workers < 1 {
		cfg.Sync.Workers = 1
	}
	if _, err := cfg.DebounceDuration(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if root := os.Getenv("CODEGRAPH_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if exclude := os.Getenv("CODEGRAPH_EXCLUDE"); exclude != "" {
		cfg.Project.Exclude = splitList(exclude)
	}
	if dbPath := os.Getenv("CODEGRAPH_DB"); dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if debounce := os.Getenv("CODEGRAPH_DEBOUNCE"); debounce != "" {
		cfg.Watch.Debounce = debounce
	}
	if addr := os.Getenv("CODEGRAPH_METRICS_ADDR"); addr != "" {
		cfg.Watch.MetricsAddr = addr
	}
	if workers := os.Getenv("CODEGRAPH_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("invalid CODEGRAPH_WORKERS %q: %w", workers, err)
		}
		cfg.Sync.Workers = n
	}
	if gi := os.Getenv("CODEGRAPH_USE_GITIGNORE"); gi != "" {
		b, err := strconv.ParseBool(gi)
		if err != nil {
			return fmt.Errorf("invalid CODEGRAPH_USE_GITIGNORE %q: %w", gi, err)
		}
		cfg.Project.UseGitignore = b
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
