// Package config loads scribe settings from defaults, an optional YAML
// file, a .env file and SCRIBE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/editor"
	"github.com/agentic-research/scribe/internal/project"
	"github.com/agentic-research/scribe/internal/resources"
	"github.com/agentic-research/scribe/internal/translations"
)

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "scribe.yaml"

type Config struct {
	ProjectDir        string   `yaml:"project_dir"`
	ResourceList      string   `yaml:"resource_list"`
	Translations      string   `yaml:"translations"`
	ArrayName         string   `yaml:"array_name"`
	ExportName        string   `yaml:"export_name"`
	Languages         []string `yaml:"languages"`
	AllowDuplicateIDs bool     `yaml:"allow_duplicate_ids"`
	BackupDB          string   `yaml:"backup_db"`
	BackupsKept       int      `yaml:"backups_kept"`
	LogLevel          string   `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ProjectDir:   ".",
		ResourceList: editor.DefaultResourceListPath,
		Translations: editor.DefaultTranslationsPath,
		ArrayName:    resources.DefaultArrayName,
		ExportName:   translations.DefaultExportName,
		Languages:    append([]string(nil), api.DefaultLanguages...),
		BackupDB:     ".scribe/backups.db",
		BackupsKept:  20,
		LogLevel:     "info",
	}
}

// Load builds the configuration. path names a YAML file that must exist;
// an empty path reads DefaultFile when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", file, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.ProjectDir = getEnv("SCRIBE_PROJECT_DIR", c.ProjectDir)
	c.ResourceList = getEnv("SCRIBE_RESOURCE_LIST", c.ResourceList)
	c.Translations = getEnv("SCRIBE_TRANSLATIONS", c.Translations)
	c.ArrayName = getEnv("SCRIBE_ARRAY_NAME", c.ArrayName)
	c.ExportName = getEnv("SCRIBE_EXPORT_NAME", c.ExportName)
	c.Languages = getEnvList("SCRIBE_LANGUAGES", c.Languages)
	c.AllowDuplicateIDs = getEnvBool("SCRIBE_ALLOW_DUPLICATE_IDS", c.AllowDuplicateIDs)
	c.BackupDB = getEnv("SCRIBE_BACKUP_DB", c.BackupDB)
	c.BackupsKept = getEnvInt("SCRIBE_BACKUPS_KEPT", c.BackupsKept)
	c.LogLevel = getEnv("SCRIBE_LOG_LEVEL", c.LogLevel)
}

// Validate rejects settings no command can work with.
func (c *Config) Validate() error {
	if len(c.Languages) == 0 {
		return errors.New("config: at least one language is required")
	}
	if c.ResourceList == "" || c.Translations == "" {
		return errors.New("config: resource_list and translations must be set")
	}
	if c.BackupsKept < 0 {
		return fmt.Errorf("config: backups_kept must be >= 0, got %d", c.BackupsKept)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// EditorOptions maps the settings onto editor.Options.
func (c *Config) EditorOptions() editor.Options {
	return editor.Options{
		ArrayName:         c.ArrayName,
		ExportName:        c.ExportName,
		Languages:         c.Languages,
		AllowDuplicateIDs: c.AllowDuplicateIDs,
		ResourceListPath:  c.ResourceList,
		TranslationsPath:  c.Translations,
	}
}

// ProjectPaths maps the settings onto project.Paths.
func (c *Config) ProjectPaths() project.Paths {
	return project.Paths{ResourceList: c.ResourceList, Translations: c.Translations}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
