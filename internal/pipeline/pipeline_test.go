package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
	"github.com/FocuswithJustin/ProofWeave/core/oracle"
	"github.com/FocuswithJustin/ProofWeave/core/render"
	"github.com/FocuswithJustin/ProofWeave/internal/interchange"
)

const source = "Lemma l : True.\nProof.\n  exact I.\nQed.\n\n(* second *)\nDefinition x := 1.\n"

type countingOracle struct {
	inner oracle.Oracle
	calls int
}

func (c *countingOracle) Name() string { return "counting" }

func (c *countingOracle) Annotate(ctx context.Context, chunks []string, args []string) (fragment.Document, error) {
	c.calls++
	return c.inner.Annotate(ctx, chunks, args)
}

type failingOracle struct{}

func (failingOracle) Name() string { return "failing" }

func (failingOracle) Annotate(context.Context, []string, []string) (fragment.Document, error) {
	return nil, errors.NewOracle("failing", "Syntax error: '.' expected after [vernac:command] (in [vernac_aux]).")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func newDriver(t *testing.T, o oracle.Oracle, writer string, opts Options) *Driver {
	t.Helper()
	r, err := render.Lookup(writer, render.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if opts.OutputDirectory == "" {
		opts.OutputDirectory = t.TempDir()
	}
	return New(o, nil, r, opts)
}

func TestRunSource(t *testing.T) {
	in := writeFile(t, t.TempDir(), "demo.v", source)
	d := newDriver(t, oracle.NewLexical(), "json", Options{Verify: true})

	results, err := d.Run(context.Background(), []string{in})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	want := filepath.Join(d.Options.OutputDirectory, "demo.v.io.json")
	if results[0].Output != want {
		t.Errorf("output = %s, want %s", results[0].Output, want)
	}

	doc, err := interchange.Read(want)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(doc) != 2 {
		t.Fatalf("got %d chunks, want 2", len(doc))
	}
	if got := doc[0].Contents() + "\n\n" + doc[1].Contents(); got != source {
		t.Errorf("chunks do not reassemble the source:\n%q", got)
	}
	if first, ok := doc[1][0].(fragment.Text); !ok || first.String != "(* second *)\n" {
		t.Errorf("second chunk starts with %#v", doc[1][0])
	}
}

func TestRunChunksNotPartitioned(t *testing.T) {
	in := writeFile(t, t.TempDir(), "snips.json", `["Goal True.\n\nexact I.", "Qed."]`)
	d := newDriver(t, oracle.NewLexical(), "html", Options{Verify: true})

	results, err := d.Run(context.Background(), []string{in})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Chunks != 2 {
		t.Errorf("got %d chunks, want 2", results[0].Chunks)
	}
	data, err := os.ReadFile(filepath.Join(d.Options.OutputDirectory, "snips.json.snippets.html"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), `<pre class="alectryon-io`); n != 2 {
		t.Errorf("got %d blocks, want 2", n)
	}
}

func TestRunAnnotatedSkipsOracle(t *testing.T) {
	dir := t.TempDir()
	doc := fragment.Document{{fragment.Sentence{Sentence: "Check nat.", Responses: []string{"nat\n     : Set"}, Status: fragment.StatusOK}}}
	in := filepath.Join(dir, "done.v.io.json.xz")
	if err := interchange.Write(in, doc); err != nil {
		t.Fatal(err)
	}

	counter := &countingOracle{inner: oracle.NewLexical()}
	d := newDriver(t, counter, "webpage", Options{Verify: true})
	if _, err := d.Run(context.Background(), []string{in}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if counter.calls != 0 {
		t.Errorf("oracle called %d times", counter.calls)
	}
	data, err := os.ReadFile(filepath.Join(d.Options.OutputDirectory, "done.v.io.json.xz.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<title>done.v.io.json.xz</title>") {
		t.Error("page title is not the input name")
	}
}

func TestRunUnsupportedInputBeforeOracle(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a.v", source)
	bad := writeFile(t, dir, "b.txt", "hello")

	counter := &countingOracle{inner: oracle.NewLexical()}
	d := newDriver(t, counter, "json", Options{})
	_, err := d.Run(context.Background(), []string{good, bad})
	if !errors.Is(err, errors.ErrUnsupported) {
		t.Fatalf("got %v, want unsupported input", err)
	}
	if !strings.Contains(err.Error(), "b.txt") {
		t.Errorf("error does not name the file: %v", err)
	}
	if counter.calls != 0 {
		t.Errorf("oracle called %d times before input check", counter.calls)
	}
}

func TestReadInputJSONShape(t *testing.T) {
	dir := t.TempDir()
	for _, content := range []string{`{"chunks": []}`, `[1, 2]`, `null`, `not json`} {
		in := writeFile(t, dir, "x.json", content)
		if _, err := ReadInput(in); !errors.Is(err, errors.ErrUnsupported) {
			t.Errorf("%s: got %v", content, err)
		}
	}
	in := writeFile(t, dir, "ok.json", `[]`)
	u, err := ReadInput(in)
	if err != nil || u.Kind != KindChunks || len(u.Chunks) != 0 {
		t.Errorf("empty list: %+v, %v", u, err)
	}
}

func TestReadInputRejectsBinarySource(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "packed.v")
	if err := os.WriteFile(in, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x01}, 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadInput(in)
	if !errors.Is(err, errors.ErrUnsupported) || !strings.Contains(err.Error(), "xz") {
		t.Errorf("got %v", err)
	}
	if _, err := ReadInput("bad\x00name.v"); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("path with NUL byte: got %v", err)
	}
}

func TestRunOracleErrorWritesNothing(t *testing.T) {
	in := writeFile(t, t.TempDir(), "bad.v", "Lemma")
	d := newDriver(t, failingOracle{}, "webpage", Options{})

	_, err := d.Run(context.Background(), []string{in})
	if !errors.Is(err, errors.ErrOracle) {
		t.Fatalf("got %v, want oracle error", err)
	}
	if got := Describe(err, false); got != "Syntax error: '.' expected after [vernac:command] (in [vernac_aux])." {
		t.Errorf("Describe = %q", got)
	}
	entries, _ := os.ReadDir(d.Options.OutputDirectory)
	if len(entries) != 0 {
		t.Errorf("output directory not empty: %v", entries)
	}
}

func TestRunCompress(t *testing.T) {
	in := writeFile(t, t.TempDir(), "demo.v", source)
	d := newDriver(t, oracle.NewLexical(), "json", Options{Compress: true})

	results, err := d.Run(context.Background(), []string{in})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(results[0].Output, "demo.v.io.json.xz") {
		t.Fatalf("output = %s", results[0].Output)
	}
	doc, err := interchange.Read(results[0].Output)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc) != 2 {
		t.Errorf("got %d chunks", len(doc))
	}

	// Compression only applies to the interchange writer.
	w := newDriver(t, oracle.NewLexical(), "webpage", Options{Compress: true})
	if got := w.OutputPath(&Unit{Name: "demo.v"}); filepath.Base(got) != "demo.v.html" {
		t.Errorf("webpage output = %s", got)
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	a := writeFile(t, dir, "a.v", source)
	b := writeFile(t, filepath.Join(dir, "sub"), "b.v", source)
	writeFile(t, dir, "c.json", "[]")

	got, err := ExpandInputs([]string{filepath.Join(dir, "**", "*.v"), "literal.v"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != "literal.v" {
		t.Errorf("ExpandInputs = %q", got)
	}

	if _, err := ExpandInputs([]string{filepath.Join(dir, "*.lean")}); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("empty match: got %v", err)
	}
}

func TestDescribeDebug(t *testing.T) {
	err := errors.Wrap(errors.NewOracle("process", "boom"), "demo.v")
	if got := Describe(err, false); got != "boom" {
		t.Errorf("condensed = %q", got)
	}
	got := Describe(err, true)
	if !strings.HasPrefix(got, "demo.v: process oracle: boom") || !strings.Contains(got, "caused by: *errors.OracleError") {
		t.Errorf("debug = %q", got)
	}
	if Describe(nil, true) != "" {
		t.Error("nil error described")
	}
}
