// Command proofweave annotates proof scripts with the output of a checking
// oracle and renders them as interactive HTML or as interchange documents.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/ProofWeave/core/cache"
	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
	"github.com/FocuswithJustin/ProofWeave/core/highlight"
	"github.com/FocuswithJustin/ProofWeave/core/oracle"
	"github.com/FocuswithJustin/ProofWeave/core/partition"
	"github.com/FocuswithJustin/ProofWeave/core/render"
	"github.com/FocuswithJustin/ProofWeave/core/sqlite"
	"github.com/FocuswithJustin/ProofWeave/internal/config"
	"github.com/FocuswithJustin/ProofWeave/internal/interchange"
	"github.com/FocuswithJustin/ProofWeave/internal/logging"
	"github.com/FocuswithJustin/ProofWeave/internal/pipeline"
)

const version = "0.1.0"

// Globals are flags shared by every command.
type Globals struct {
	Config    string `help:"Config file (default: proofweave.yaml in the working directory or a parent)" type:"path"`
	Debug     bool   `help:"Report errors with every wrapping layer and keep oracle stderr"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`

	stdout io.Writer `kong:"-"`
}

// CLI defines the command-line interface for proofweave.
type CLI struct {
	Globals

	Annotate   AnnotateCmd   `cmd:"" default:"withargs" help:"Annotate and render input files"`
	Inspect    InspectCmd    `cmd:"" help:"Summarize an interchange file"`
	Writers    WritersCmd    `cmd:"" help:"List available writers"`
	CacheInfo  CacheInfoCmd  `cmd:"" name:"cache-info" help:"Summarize a persistent oracle cache"`
	InitConfig InitConfigCmd `cmd:"" name:"init-config" help:"Write the default configuration to a file"`
	Version    VersionCmd    `cmd:"" help:"Print version information"`
}

// AnnotateCmd runs the pipeline over its inputs.
type AnnotateCmd struct {
	Inputs []string `arg:"" name:"input" help:"Input files (.v, .json, .io.json, .io.json.xz); glob patterns are expanded"`

	Writer          string   `short:"w" help:"Output writer (json, html, webpage)"`
	OutputDirectory string   `name:"output-directory" short:"o" help:"Directory for output files" type:"path"`
	Compress        bool     `help:"xz-compress json writer output"`
	Verify          bool     `help:"Check each output against the annotated document before writing it"`
	SerapiArg       []string `name:"serapi-arg" sep:"none" help:"Argument passed verbatim to the oracle"`
	Include         []string `short:"I" sep:"none" help:"Add a directory to the oracle's include path"`
	LoadPath        []string `short:"Q" sep:"none" placeholder:"DIR,COQDIR" help:"Bind a directory to a logical path"`
	RecLoadPath     []string `short:"R" sep:"none" placeholder:"DIR,COQDIR" help:"Recursively bind a directory to a logical path"`
	Oracle          string   `help:"Oracle kind (lexical, process)"`
	OracleCommand   string   `name:"oracle-command" help:"Executable of a process oracle"`
	Cache           string   `help:"Persistent oracle cache database" type:"path"`
}

// Run implements the annotate command.
func (c *AnnotateCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logging.WithRunID(ctx, logging.NewRunID())

	paths, err := pipeline.ExpandInputs(c.Inputs)
	if err != nil {
		return err
	}

	o, closeOracle, err := buildOracle(ctx, cfg, g.Debug)
	if err != nil {
		return err
	}
	defer closeOracle()

	part, err := partition.New(cfg.Partition)
	if err != nil {
		return err
	}
	r, err := render.Lookup(cfg.Writer, render.Options{
		Highlighter: highlight.New(cfg.Highlight.Style),
		Generator:   "ProofWeave " + version,
	})
	if err != nil {
		return err
	}

	d := pipeline.New(o, part, r, pipeline.Options{
		OutputDirectory: cfg.OutputDirectory,
		Compress:        cfg.Compress,
		Verify:          cfg.Verify,
		Args:            cfg.Oracle.Args,
	})
	results, err := d.Run(ctx, paths)
	for _, res := range results {
		logging.LoggerFromContext(ctx).Debug("unit_done",
			"input", res.Input,
			"output", res.Output,
			"duration_ms", res.Duration.Milliseconds(),
		)
	}
	return err
}

// flagConfig returns the settings given on the command line, to be merged
// over the loaded configuration.
func (c *AnnotateCmd) flagConfig() (*config.Config, error) {
	args := oracle.Args{Raw: c.SerapiArg, Include: c.Include}
	for _, s := range c.LoadPath {
		p, ok := oracle.ParsePair(s)
		if !ok {
			return nil, &errors.ValidationError{Field: "-Q", Value: s, Message: fmt.Sprintf("expected DIR,COQDIR, got %q", s)}
		}
		args.LoadPath = append(args.LoadPath, p)
	}
	for _, s := range c.RecLoadPath {
		p, ok := oracle.ParsePair(s)
		if !ok {
			return nil, &errors.ValidationError{Field: "-R", Value: s, Message: fmt.Sprintf("expected DIR,COQDIR, got %q", s)}
		}
		args.RecLoadPath = append(args.RecLoadPath, p)
	}

	return &config.Config{
		Writer:          c.Writer,
		OutputDirectory: c.OutputDirectory,
		Compress:        c.Compress,
		Verify:          c.Verify,
		Oracle: config.OracleConfig{
			Kind:    c.Oracle,
			Command: c.OracleCommand,
			Args:    args,
		},
		Cache: config.CacheConfig{Path: c.Cache},
	}, nil
}

func loadConfig(g *Globals, c *AnnotateCmd) (*config.Config, error) {
	cfg, err := config.NewLoader(logging.GetLogger()).Load(g.Config)
	if err != nil {
		return nil, err
	}
	flags, err := c.flagConfig()
	if err != nil {
		return nil, err
	}
	flags.Log = config.LogConfig{Level: g.LogLevel, Format: g.LogFormat}
	cfg.Merge(flags)
	if g.Debug && cfg.Log.Level == "warn" {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	format, _ := logging.ParseFormat(cfg.Log.Format)
	logging.InitLogger(level, format)
	return cfg, nil
}

// buildOracle returns the configured oracle wrapped in its result cache, and
// a function releasing the cache.
func buildOracle(ctx context.Context, cfg *config.Config, debug bool) (oracle.Oracle, func() error, error) {
	var inner oracle.Oracle
	switch cfg.Oracle.Kind {
	case config.OracleProcess:
		p := oracle.NewProcess(cfg.Oracle.Command, cfg.Oracle.CommandArgs...)
		p.Debug = debug
		inner = p
	default:
		inner = oracle.NewLexical()
	}

	var store cache.Store
	var mem *cache.Memory
	if maxEntries, ok := cfg.Cache.MemoryTier(); ok {
		mem = cache.NewMemory(maxEntries)
		store = mem
	}
	if cfg.Cache.Path != "" {
		db, err := cache.OpenSQLite(ctx, cfg.Cache.Path)
		if err != nil {
			return nil, nil, err
		}
		if store != nil {
			store = cache.Tiered{Fast: store, Slow: db}
		} else {
			store = db
		}
	}
	if store == nil {
		return inner, func() error { return nil }, nil
	}

	cached := oracle.NewCached(inner, store)
	cached.OnEvent = func(e oracle.CacheEvent) {
		logging.CacheEvent(ctx, e.Key, e.Hit)
	}
	closeStore := func() error {
		if mem != nil {
			st := mem.Stats()
			logging.CacheStats(ctx, st.Hits, st.Misses, st.Evictions, st.Entries)
		}
		return store.Close()
	}
	return cached, closeStore, nil
}

// InspectCmd prints fragment counts of an interchange file.
type InspectCmd struct {
	File string `arg:"" help:"Interchange file (.io.json or .io.json.xz)" type:"existingfile"`
}

// Run implements the inspect command.
func (c *InspectCmd) Run(g *Globals) error {
	if !interchange.IsInterchange(c.File) {
		return errors.NewInputShape(c.File, "expected .io.json or .io.json.xz")
	}
	doc, err := interchange.Read(c.File)
	if err != nil {
		return err
	}
	s := fragment.Summarize(doc)
	w := g.out()
	fmt.Fprintf(w, "File:       %s\n", c.File)
	fmt.Fprintf(w, "Chunks:     %d\n", s.Chunks)
	fmt.Fprintf(w, "Texts:      %d\n", s.Texts)
	fmt.Fprintf(w, "Sentences:  %d (%d failed)\n", s.Sentences, s.Failed)
	fmt.Fprintf(w, "Goals:      %d\n", s.Goals)
	fmt.Fprintf(w, "Hypotheses: %d\n", s.Hypotheses)
	return nil
}

// WritersCmd lists the registered writers.
type WritersCmd struct{}

// Run implements the writers command.
func (c *WritersCmd) Run(g *Globals) error {
	w := g.out()
	for _, info := range render.Writers() {
		fmt.Fprintf(w, "%-8s %-16s %s\n", info.Name, info.Extension, info.Description)
	}
	return nil
}

// CacheInfoCmd reports the size of a persistent cache without modifying it.
type CacheInfoCmd struct {
	Path string `arg:"" help:"Cache database" type:"path"`
}

// Run implements the cache-info command.
func (c *CacheInfoCmd) Run(g *Globals) error {
	ctx := context.Background()
	db, err := cache.OpenSQLiteReadOnly(ctx, c.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Len(ctx)
	if err != nil {
		return err
	}
	w := g.out()
	fmt.Fprintf(w, "Cache:   %s\n", c.Path)
	fmt.Fprintf(w, "Driver:  %s\n", sqlite.DriverName())
	fmt.Fprintf(w, "Entries: %d\n", n)
	return nil
}

// InitConfigCmd writes the default configuration.
type InitConfigCmd struct {
	Path  string `arg:"" optional:"" default:"proofweave.yaml" help:"Destination file" type:"path"`
	Force bool   `help:"Overwrite an existing file"`
}

// Run implements the init-config command.
func (c *InitConfigCmd) Run(g *Globals) error {
	if _, err := os.Stat(c.Path); err == nil && !c.Force {
		return errors.NewValidation("path", fmt.Sprintf("%s already exists (use --force to overwrite)", c.Path))
	}
	if err := config.DefaultConfig().SaveToFile(c.Path); err != nil {
		return err
	}
	fmt.Fprintf(g.out(), "Wrote %s\n", c.Path)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

// Run implements the version command.
func (c *VersionCmd) Run(g *Globals) error {
	info := sqlite.GetInfo()
	w := g.out()
	fmt.Fprintf(w, "proofweave version %s\n", version)
	fmt.Fprintf(w, "sqlite driver: %s (%s, %s)\n", info.DriverName, info.DriverType, info.Package)
	return nil
}

func (g *Globals) out() io.Writer {
	if g.stdout == nil {
		return os.Stdout
	}
	return g.stdout
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("proofweave"),
		kong.Description("ProofWeave - annotate proof scripts and render them as interactive documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err := ctx.Run(&cli.Globals); err != nil {
		reportError(os.Stderr, err, cli.Debug)
		os.Exit(1)
	}
}

// reportError prints the failure line for err. Stdout carries command output,
// so failures go to w, which is stderr in main.
func reportError(w io.Writer, err error, debug bool) {
	fmt.Fprintf(w, "Exception: %s\n", pipeline.Describe(err, debug))
}
