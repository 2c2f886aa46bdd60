package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/oracle"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"unknown writer", func(c *Config) { c.Writer = "latex" }, "writer"},
		{"no output dir", func(c *Config) { c.OutputDirectory = "" }, "output_directory"},
		{"unknown oracle", func(c *Config) { c.Oracle.Kind = "serapi" }, "oracle.kind"},
		{"process without command", func(c *Config) { c.Oracle.Kind = OracleProcess }, "oracle.command"},
		{"single break", func(c *Config) { c.Partition.MinBreaks = 1 }, "partition.min_breaks"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.edit(c)
			err := c.Validate()
			var ve *errors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigFile)
	writeFile(t, path, `
writer: html
oracle:
  kind: process
  command: sertop-json
  args:
    include: [plugins]
    load_path:
      - dir: theories
        logpath: Lib
partition:
  min_breaks: 3
`)
	c, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.Writer != "html" || c.Oracle.Command != "sertop-json" || c.Partition.MinBreaks != 3 {
		t.Errorf("config = %+v", c)
	}
	want := oracle.Args{Include: []string{"plugins"}, LoadPath: []oracle.PathPair{{Dir: "theories", LogPath: "Lib"}}}
	if !reflect.DeepEqual(c.Oracle.Args, want) {
		t.Errorf("Args = %+v", c.Oracle.Args)
	}
	if c.OutputDirectory != "" {
		t.Error("absent keys should stay zero")
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "writer: [unterminated")
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestMerge(t *testing.T) {
	c := DefaultConfig()
	c.Oracle.Args.Include = []string{"a"}
	c.Merge(&Config{
		Writer:   "json",
		Compress: true,
		Oracle:   OracleConfig{Args: oracle.Args{Include: []string{"b"}}},
		Cache:    CacheConfig{Path: "cache.db"},
	})

	if c.Writer != "json" || !c.Compress || c.Cache.Path != "cache.db" {
		t.Errorf("merged = %+v", c)
	}
	if c.Oracle.Kind != OracleLexical || c.Log.Level != "warn" {
		t.Error("zero values in other overrode defaults")
	}
	if !reflect.DeepEqual(c.Oracle.Args.Include, []string{"a", "b"}) {
		t.Errorf("Include = %v, want appended", c.Oracle.Args.Include)
	}
	c.Merge(nil)
}

func TestCacheMemoryEntries(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantEntries int
		wantEnabled bool
	}{
		{name: "absent", yaml: "writer: json\n", wantEntries: DefaultMemoryEntries, wantEnabled: true},
		{name: "bounded", yaml: "cache:\n  memory_entries: 8\n", wantEntries: 8, wantEnabled: true},
		{name: "unlimited", yaml: "cache:\n  memory_entries: 0\n", wantEntries: 0, wantEnabled: true},
		{name: "disabled", yaml: "cache:\n  memory_entries: -1\n", wantEnabled: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "proofweave.yaml")
			writeFile(t, path, tt.yaml)
			file, err := LoadFromFile(path)
			if err != nil {
				t.Fatal(err)
			}
			c := DefaultConfig()
			c.Merge(file)

			entries, enabled := c.Cache.MemoryTier()
			if enabled != tt.wantEnabled || (enabled && entries != tt.wantEntries) {
				t.Errorf("MemoryTier() = %d, %v; want %d, %v", entries, enabled, tt.wantEntries, tt.wantEnabled)
			}
		})
	}

	// Merging must not alias the other config's value.
	n := 5
	c := DefaultConfig()
	c.Merge(&Config{Cache: CacheConfig{MemoryEntries: &n}})
	n = 7
	if entries, _ := c.Cache.MemoryTier(); entries != 5 {
		t.Errorf("merged value changed with its source: %d", entries)
	}
}

func TestLoaderLayering(t *testing.T) {
	root := t.TempDir()
	home := filepath.Join(root, "home")
	project := filepath.Join(root, "project")
	work := filepath.Join(project, "theories", "sub")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), "writer: html\nlog:\n  level: debug\n")
	writeFile(t, filepath.Join(project, ProjectConfigFile), "writer: json\ncompress: true\n")

	c, err := NewLoader(nil).WithDirs(work, home).Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Writer != "json" {
		t.Errorf("project config should win over user config, writer = %q", c.Writer)
	}
	if c.Log.Level != "debug" {
		t.Errorf("user config not applied, level = %q", c.Log.Level)
	}
	if !c.Compress || c.OutputDirectory != "." {
		t.Errorf("config = %+v", c)
	}
}

func TestLoaderExplicit(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "custom.yaml")
	writeFile(t, explicit, "output_directory: out\n")

	c, err := NewLoader(nil).WithDirs(dir, "").Load(explicit)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.OutputDirectory != "out" {
		t.Errorf("OutputDirectory = %q", c.OutputDirectory)
	}

	if _, err := NewLoader(nil).WithDirs(dir, "").Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing explicit config should fail")
	}
}

func TestLoaderNoFiles(t *testing.T) {
	c, err := NewLoader(nil).WithDirs(t.TempDir(), "").Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c, DefaultConfig()) {
		t.Errorf("config = %+v, want defaults", c)
	}
}
