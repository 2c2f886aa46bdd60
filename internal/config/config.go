// Package config loads proofweave.yaml and layers it under command-line
// flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/oracle"
	"github.com/FocuswithJustin/ProofWeave/core/partition"
	"github.com/FocuswithJustin/ProofWeave/core/render"
	"github.com/FocuswithJustin/ProofWeave/internal/logging"
)

// Oracle kinds.
const (
	OracleProcess = "process"
	OracleLexical = "lexical"
)

// Config holds the settings of one run.
type Config struct {
	Writer          string `yaml:"writer"`
	OutputDirectory string `yaml:"output_directory"`
	Compress        bool   `yaml:"compress"`
	Verify          bool   `yaml:"verify"`

	Oracle    OracleConfig     `yaml:"oracle"`
	Partition partition.Policy `yaml:"partition"`
	Cache     CacheConfig      `yaml:"cache"`
	Highlight HighlightConfig  `yaml:"highlight"`
	Log       LogConfig        `yaml:"log"`
}

// OracleConfig selects and parameterizes the oracle.
type OracleConfig struct {
	Kind string `yaml:"kind"`

	// Command and CommandArgs start a process oracle.
	Command     string   `yaml:"command"`
	CommandArgs []string `yaml:"command_args"`

	// Args are forwarded with every annotate request.
	Args oracle.Args `yaml:"args"`
}

// DefaultMemoryEntries bounds the in-memory cache tier when the config does
// not.
const DefaultMemoryEntries = 64

// CacheConfig configures the oracle result cache. MemoryEntries bounds the
// in-memory tier: absent means DefaultMemoryEntries, 0 means unlimited and a
// negative value disables the tier. An empty Path disables the persistent one.
type CacheConfig struct {
	MemoryEntries *int   `yaml:"memory_entries,omitempty"`
	Path          string `yaml:"path"`
}

// MemoryTier returns the entry limit of the in-memory tier (0 = unlimited)
// and whether the tier is enabled.
func (c CacheConfig) MemoryTier() (maxEntries int, enabled bool) {
	if c.MemoryEntries == nil {
		return DefaultMemoryEntries, true
	}
	if *c.MemoryEntries < 0 {
		return 0, false
	}
	return *c.MemoryEntries, true
}

// HighlightConfig selects the chroma style.
type HighlightConfig struct {
	Style string `yaml:"style"`
}

// LogConfig configures internal/logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Writer:          "webpage",
		OutputDirectory: ".",
		Oracle:          OracleConfig{Kind: OracleLexical},
		Partition:       partition.DefaultPolicy(),
		Cache:           CacheConfig{MemoryEntries: intPtr(DefaultMemoryEntries)},
		Highlight:       HighlightConfig{Style: "tango"},
		Log:             LogConfig{Level: "warn", Format: "text"},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !slices.Contains(render.Names(), c.Writer) {
		return &errors.ValidationError{Field: "writer", Value: c.Writer, Message: fmt.Sprintf("unknown writer %q", c.Writer)}
	}
	if c.OutputDirectory == "" {
		return errors.NewValidation("output_directory", "output directory is required")
	}
	switch c.Oracle.Kind {
	case OracleLexical:
	case OracleProcess:
		if c.Oracle.Command == "" {
			return errors.NewValidation("oracle.command", "a process oracle needs a command")
		}
	default:
		return &errors.ValidationError{Field: "oracle.kind", Value: c.Oracle.Kind, Message: fmt.Sprintf("unknown oracle kind %q", c.Oracle.Kind)}
	}
	if err := c.Partition.Validate(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.NewValidation("log.level", err.Error())
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return errors.NewValidation("log.format", err.Error())
	}
	return nil
}

// LoadFromFile reads a YAML config file. Keys absent from the file are left
// at their zero value so the result can be merged over another config.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return config, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge merges another config into this one; non-zero values in other win.
// Oracle args are appended rather than replaced.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Writer != "" {
		c.Writer = other.Writer
	}
	if other.OutputDirectory != "" {
		c.OutputDirectory = other.OutputDirectory
	}
	if other.Compress {
		c.Compress = true
	}
	if other.Verify {
		c.Verify = true
	}

	// Oracle
	if other.Oracle.Kind != "" {
		c.Oracle.Kind = other.Oracle.Kind
	}
	if other.Oracle.Command != "" {
		c.Oracle.Command = other.Oracle.Command
	}
	if len(other.Oracle.CommandArgs) > 0 {
		c.Oracle.CommandArgs = other.Oracle.CommandArgs
	}
	c.Oracle.Args = c.Oracle.Args.Merge(other.Oracle.Args)

	// Partition
	if other.Partition.MinBreaks != 0 {
		c.Partition.MinBreaks = other.Partition.MinBreaks
	}

	// Cache
	if other.Cache.MemoryEntries != nil {
		c.Cache.MemoryEntries = intPtr(*other.Cache.MemoryEntries)
	}
	if other.Cache.Path != "" {
		c.Cache.Path = other.Cache.Path
	}

	if other.Highlight.Style != "" {
		c.Highlight.Style = other.Highlight.Style
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
}

func intPtr(n int) *int { return &n }
