package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/kokkonisd/locstats/internal/lang"
)

// Config is the resolved runtime configuration. Command line flags are
// applied on top of it by the CLI.
type Config struct {
	Path       string
	Workers    int
	CacheSize  int
	LogLevel   string
	Exclude    []string
	SkipVendor bool
	Languages  []lang.Spec
}

type fileConfig struct {
	Workers    *int                      `toml:"workers"`
	CacheSize  *int                      `toml:"cache_size"`
	LogLevel   string                    `toml:"log_level"`
	Exclude    []string                  `toml:"exclude"`
	SkipVendor bool                      `toml:"skip_vendor"`
	Languages  map[string]languageConfig `toml:"languages"`
}

type languageConfig struct {
	Name          string     `toml:"name"`
	Extensions    []string   `toml:"extensions"`
	LineComment   string     `toml:"line_comment"`
	BlockComments [][]string `toml:"block_comments"`
}

// Load resolves configuration from defaults, the config file, and the
// environment (a .env file in the working directory is loaded first).
// An explicit path must exist; the default .locstats.toml is optional.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		CacheSize: DefaultCacheSize,
		LogLevel:  "warn",
	}

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		if envPath := strings.TrimSpace(os.Getenv("LOCSTATS_CONFIG")); envPath != "" {
			path = envPath
			explicit = true
		} else {
			path = ConfigFileName
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.apply(data); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		cfg.Path = path
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(data []byte) error {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse toml: %w", err)
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.CacheSize != nil {
		c.CacheSize = *fc.CacheSize
	}
	if level := strings.TrimSpace(fc.LogLevel); level != "" {
		c.LogLevel = level
	}
	c.Exclude = append(c.Exclude, fc.Exclude...)
	c.SkipVendor = fc.SkipVendor

	keys := make([]string, 0, len(fc.Languages))
	for key := range fc.Languages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		spec, err := fc.Languages[key].spec(key)
		if err != nil {
			return err
		}
		c.Languages = append(c.Languages, spec)
	}
	return nil
}

func (lc languageConfig) spec(key string) (lang.Spec, error) {
	spec := lang.Spec{
		Key:        key,
		Name:       lc.Name,
		Extensions: lc.Extensions,
		Comments:   lang.CommentSyntax{Line: lc.LineComment},
	}
	for _, pair := range lc.BlockComments {
		if len(pair) != 2 {
			return lang.Spec{}, lang.ErrInvalidSpec.New(key, "block_comments entries must be [open, close] pairs")
		}
		spec.Comments.Blocks = append(spec.Comments.Blocks, lang.BlockComment{Open: pair[0], Close: pair[1]})
	}
	if err := spec.Validate(); err != nil {
		return lang.Spec{}, err
	}
	return spec, nil
}

func (c *Config) applyEnv() error {
	if raw := strings.TrimSpace(os.Getenv("LOCSTATS_WORKERS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("parse LOCSTATS_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if raw := strings.TrimSpace(os.Getenv("LOCSTATS_CACHE_SIZE")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("parse LOCSTATS_CACHE_SIZE: %w", err)
		}
		c.CacheSize = n
	}
	if level := strings.TrimSpace(os.Getenv("LOCSTATS_LOG_LEVEL")); level != "" {
		c.LogLevel = level
	}
	return nil
}

// Registry returns the built-in language registry extended with the
// languages declared in the config file.
func (c *Config) Registry() (*lang.Registry, error) {
	if len(c.Languages) == 0 {
		return lang.Default(), nil
	}
	return lang.Default().With(c.Languages...)
}
