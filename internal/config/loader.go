package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
)

const (
	// ProjectConfigFile is the name of the project-level config file.
	ProjectConfigFile = "proofweave.yaml"
	// UserConfigDir is the directory for user-level config.
	UserConfigDir = ".config/proofweave"
	// UserConfigFile is the name of the user-level config file.
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger  *slog.Logger
	workDir string
	homeDir string
}

// NewLoader creates a loader searching from the current directory.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	l.workDir, _ = os.Getwd()
	l.homeDir, _ = os.UserHomeDir()
	return l
}

// WithDirs overrides the working and home directories used for lookup.
func (l *Loader) WithDirs(workDir, homeDir string) *Loader {
	l.workDir, l.homeDir = workDir, homeDir
	return l
}

// Load builds the configuration with layered precedence:
//  1. Defaults
//  2. User config (~/.config/proofweave/config.yaml)
//  3. Project config (proofweave.yaml in the working directory or a parent),
//     or explicit when non-empty, which must exist
//
// The result is not validated; flags are usually merged on top first.
func (l *Loader) Load(explicit string) (*Config, error) {
	config := DefaultConfig()

	if userPath := l.userConfigPath(); userPath != "" {
		if userConfig, err := LoadFromFile(userPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userPath))
			config.Merge(userConfig)
		} else if !os.IsNotExist(err) {
			l.logger.Warn("Failed to load user config", slog.String("path", userPath), slog.String("error", err.Error()))
		}
	}

	projectPath := explicit
	if projectPath == "" {
		projectPath = l.findProjectConfig()
	}
	if projectPath == "" {
		l.logger.Debug("No project config found")
		return config, nil
	}

	projectConfig, err := LoadFromFile(projectPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIO("read config", projectPath, err)
		}
		return nil, err
	}
	l.logger.Debug("Loaded project config", slog.String("path", projectPath))
	config.Merge(projectConfig)
	return config, nil
}

func (l *Loader) userConfigPath() string {
	if l.homeDir == "" {
		return ""
	}
	return filepath.Join(l.homeDir, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for proofweave.yaml in the working directory
// and its parents.
func (l *Loader) findProjectConfig() string {
	if l.workDir == "" {
		return ""
	}
	dir := l.workDir
	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
