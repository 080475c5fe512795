package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds every path and name the tool depends on. It is loaded once at
// startup and passed explicitly to constructors; nothing reads it from
// ambient state.
type Config struct {
	Paths PathsConfig `yaml:"paths"`
	Docs  DocsConfig  `yaml:"docs"`
	Log   LogConfig   `yaml:"log"`
}

type PathsConfig struct {
	// ProjectDir is the root under which project folders are derived.
	ProjectDir string `yaml:"project_dir"`
	// TemplateDir holds the required document templates, read-only.
	TemplateDir string `yaml:"template_dir"`
	// DatabaseFile is the SQLite file name, stored inside ProjectDir.
	DatabaseFile string `yaml:"database_file"`
}

type DocsConfig struct {
	// Required lists the template file names every provisioned folder gets.
	Required []string `yaml:"required"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from defaults, an optional YAML file (PM_CONFIG)
// and environment variable overrides, in that order.
func Load() (Config, error) {
	cfg := Config{
		Paths: PathsConfig{
			ProjectDir:   "Boligventilasjon_Prosjekter",
			TemplateDir:  "Template",
			DatabaseFile: "projects.db",
		},
		Docs: DocsConfig{
			Required: []string{"Innregulering.docx", "Sjekkliste.docx"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("PM_CONFIG"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if dir := os.Getenv("PM_PROJECT_DIR"); dir != "" {
		cfg.Paths.ProjectDir = dir
	}
	if dir := os.Getenv("PM_TEMPLATE_DIR"); dir != "" {
		cfg.Paths.TemplateDir = dir
	}
	if file := os.Getenv("PM_DB"); file != "" {
		cfg.Paths.DatabaseFile = file
	}
	if level := os.Getenv("PM_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

// DatabasePath returns the full path of the SQLite database file.
func (c Config) DatabasePath() string {
	return filepath.Join(c.Paths.ProjectDir, c.Paths.DatabaseFile)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
