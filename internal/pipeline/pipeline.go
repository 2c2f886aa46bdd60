// Package pipeline drives a run: read inputs, annotate them, regroup raw
// source into chunks, render, and write one output file per input.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/FocuswithJustin/ProofWeave/core/codec"
	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
	"github.com/FocuswithJustin/ProofWeave/core/oracle"
	"github.com/FocuswithJustin/ProofWeave/core/partition"
	"github.com/FocuswithJustin/ProofWeave/core/render"
	"github.com/FocuswithJustin/ProofWeave/internal/interchange"
	"github.com/FocuswithJustin/ProofWeave/internal/logging"
	"github.com/FocuswithJustin/ProofWeave/internal/validation"
)

// Options control output placement and checks.
type Options struct {
	// OutputDirectory receives every output file. Defaults to ".".
	OutputDirectory string

	// Compress xz-compresses json writer output (.io.json.xz).
	Compress bool

	// Verify checks each output before it is written: markup is parsed and
	// matched against the document, interchange output is decoded and
	// compared.
	Verify bool

	// Args are forwarded to the oracle with every call.
	Args oracle.Args
}

// Driver processes units one at a time.
type Driver struct {
	Oracle      oracle.Oracle
	Partitioner *partition.Partitioner
	Renderer    render.Renderer
	Options     Options
}

// New returns a Driver. A nil partitioner means partition.Default().
func New(o oracle.Oracle, p *partition.Partitioner, r render.Renderer, opts Options) *Driver {
	if p == nil {
		p = partition.Default()
	}
	if opts.OutputDirectory == "" {
		opts.OutputDirectory = "."
	}
	return &Driver{Oracle: o, Partitioner: p, Renderer: r, Options: opts}
}

// Result describes one written output.
type Result struct {
	Input    string
	Output   string
	Chunks   int
	Bytes    int
	Duration time.Duration
}

// Run reads every input, then processes them in order, stopping at the first
// failure. Outputs written before the failure are kept.
func (d *Driver) Run(ctx context.Context, paths []string) ([]Result, error) {
	units, err := ReadInputs(paths)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(units))
	for _, u := range units {
		res, err := d.Process(ctx, u)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Annotate returns the annotated document of u, calling the oracle unless u is
// already annotated.
func (d *Driver) Annotate(ctx context.Context, u *Unit) (fragment.Document, error) {
	if u.Kind == KindAnnotated {
		return u.Document, nil
	}
	if d.Oracle == nil {
		return nil, errors.NewValidation("oracle", "no oracle configured")
	}

	start := time.Now()
	doc, err := d.Oracle.Annotate(ctx, u.Chunks, d.Options.Args.Flatten())
	logging.OracleCall(ctx, d.Oracle.Name(), len(u.Chunks), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if u.Kind == KindSource {
		if len(doc) != 1 {
			return nil, errors.NewOracle(d.Oracle.Name(), fmt.Sprintf("returned %d chunks for one source file", len(doc)))
		}
		doc = partition.Compact(d.Partitioner.SplitSingleChunk(doc))
	}
	return doc, nil
}

// Process annotates, renders and writes one unit.
func (d *Driver) Process(ctx context.Context, u *Unit) (Result, error) {
	start := time.Now()
	logging.UnitStart(ctx, u.Path, u.Kind.String(), len(u.Chunks))

	doc, err := d.Annotate(ctx, u)
	if err != nil {
		return Result{}, errors.Wrap(err, u.Path)
	}

	data, err := d.Renderer.Render(u.Name, doc)
	if err != nil {
		return Result{}, errors.Wrapf(err, "%s: %s writer", u.Path, d.Renderer.Name())
	}
	if d.Options.Verify {
		if err := d.verify(data, doc); err != nil {
			return Result{}, errors.Wrapf(err, "%s: verify %s output", u.Path, d.Renderer.Name())
		}
	}

	out := d.OutputPath(u)
	if err := validation.ValidateFilename(filepath.Base(out)); err != nil {
		return Result{}, errors.NewValidation("output", fmt.Sprintf("%q: %v", out, err))
	}
	if err := interchange.WriteBytes(out, data); err != nil {
		return Result{}, err
	}
	logging.OutputWritten(ctx, out, d.Renderer.Name(), len(data))

	return Result{
		Input:    u.Path,
		Output:   out,
		Chunks:   len(doc),
		Bytes:    len(data),
		Duration: time.Since(start),
	}, nil
}

// OutputPath is the output directory joined with the unit's base name and
// the writer's extension.
func (d *Driver) OutputPath(u *Unit) string {
	name := u.Name + d.Renderer.Extension()
	if d.compressed() {
		name += ".xz"
	}
	return filepath.Join(d.Options.OutputDirectory, name)
}

func (d *Driver) compressed() bool {
	return d.Options.Compress && d.Renderer.Extension() == interchange.Suffix
}

func (d *Driver) verify(data []byte, doc fragment.Document) error {
	if d.Renderer.Extension() != interchange.Suffix {
		return render.CheckMarkup(data, doc)
	}
	decoded, err := codec.Read(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if !fragment.DocumentsEqual(decoded, doc) {
		return errors.NewValidation("output", "decoded document differs from the annotated one")
	}
	return nil
}

// Describe renders err for the user. Without debug it is condensed to the
// message of the innermost known error; with debug every wrapping layer is
// listed.
func Describe(err error, debug bool) string {
	if err == nil {
		return ""
	}
	if !debug {
		return errors.Condense(err)
	}
	var b strings.Builder
	b.WriteString(err.Error())
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(&b, "\n  caused by: %s", describeLayer(cause))
	}
	return b.String()
}

func describeLayer(err error) string {
	return fmt.Sprintf("%T: %s", err, err.Error())
}
