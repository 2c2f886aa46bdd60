package render

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/FocuswithJustin/ProofWeave/core/codec"
	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

type plainHighlighter struct{}

func (plainHighlighter) Highlight(src string) string { return html.EscapeString(src) }
func (plainHighlighter) CSS() string                 { return ".chroma { color: black }" }

func sampleDoc() fragment.Document {
	return fragment.Document{
		{
			fragment.Text{String: "(* Intro *)\n"},
			fragment.Sentence{Sentence: "Lemma l : forall n m, n < m.", Status: fragment.StatusOK, Goals: []fragment.Goal{{
				Name:       "g1",
				Conclusion: "forall n m : nat, n < m",
			}}},
		},
		{
			fragment.Sentence{Sentence: "intros n m.", Status: fragment.StatusOK, Goals: []fragment.Goal{{
				Conclusion: "n < m",
				Hypotheses: []fragment.Hypothesis{
					{Names: []string{"n", "m"}, Type: "nat"},
					{Names: []string{"k"}, Body: fragment.StringPtr("n + m"), Type: "nat"},
				},
			}}},
			fragment.Text{String: " "},
			fragment.Sentence{Sentence: "Fail.", Responses: []string{"The command has indeed failed."}, Status: fragment.StatusError},
			fragment.Text{String: "\n"},
		},
	}
}

func lookup(t *testing.T, name string) Renderer {
	t.Helper()
	r, err := Lookup(name, Options{Highlighter: plainHighlighter{}, Generator: "ProofWeave test"})
	if err != nil {
		t.Fatalf("Lookup(%q): %v", name, err)
	}
	return r
}

func TestLookup(t *testing.T) {
	for _, tt := range []struct{ name, ext string }{
		{"json", ".io.json"},
		{"html", ".snippets.html"},
		{"webpage", ".html"},
	} {
		r := lookup(t, tt.name)
		if r.Name() != tt.name || r.Extension() != tt.ext {
			t.Errorf("%s: got %s/%s", tt.name, r.Name(), r.Extension())
		}
	}
	if _, err := Lookup("latex", Options{}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown writer: got %v", err)
	}
	if got := strings.Join(Names(), ","); got != "html,json,webpage" {
		t.Errorf("Names() = %s", got)
	}
}

func TestHighlightDoesNotMutate(t *testing.T) {
	doc := sampleDoc()
	before := doc.Clone()

	out, err := Highlight(doc, plainHighlighter{})
	if err != nil {
		t.Fatal(err)
	}
	if !fragment.DocumentsEqual(doc, before) {
		t.Error("Highlight modified its input")
	}
	hs, ok := out[0][1].(fragment.HTMLSentence)
	if !ok {
		t.Fatalf("sentence not converted: %T", out[0][1])
	}
	if hs.Markup != "Lemma l : forall n m, n &lt; m." || hs.Sentence != "Lemma l : forall n m, n < m." {
		t.Errorf("HTMLSentence = %+v", hs)
	}
	if _, ok := out[0][0].(fragment.Text); !ok {
		t.Errorf("text converted to %T", out[0][0])
	}
	if out.Contents() != doc.Contents() {
		t.Error("highlighting changed the document text")
	}
}

func TestHighlightRejectsBareGoal(t *testing.T) {
	doc := fragment.Document{{fragment.Goal{Conclusion: "True"}}}
	if _, err := Highlight(doc, plainHighlighter{}); err == nil {
		t.Error("goal at chunk level accepted")
	}
}

func TestSnippets(t *testing.T) {
	doc := sampleDoc()
	out, err := lookup(t, "html").Render("demo", doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)

	if n := strings.Count(s, `<pre class="alectryon-io chroma">`); n != len(doc) {
		t.Errorf("got %d blocks, want %d", n, len(doc))
	}
	for _, want := range []string{
		`<span class="goal-name">g1</span>`,
		`<span class="hyp-names">n, m</span>`,
		`<span class="hyp-body">:= n + m</span>`,
		`alectryon-sentence alectryon-failed`,
		`<blockquote class="alectryon-message">The command has indeed failed.</blockquote>`,
		`<input class="alectryon-toggle" type="checkbox" id="chunk-0-1"/>`,
		`<label class="alectryon-input" for="chunk-0-1">`,
		`n &lt; m`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if err := CheckMarkup(out, doc); err != nil {
		t.Errorf("CheckMarkup: %v", err)
	}
}

func TestSentenceWithoutOutput(t *testing.T) {
	doc := fragment.Document{{fragment.Sentence{Sentence: "Qed.", Status: fragment.StatusOK}}}
	out, err := lookup(t, "html").Render("x", doc)
	if err != nil {
		t.Fatal(err)
	}
	want := `<pre class="alectryon-io chroma"><span class="alectryon-sentence"><span class="alectryon-input">Qed.</span></span></pre>` + "\n"
	if string(out) != want {
		t.Errorf("Render =\n%s\nwant\n%s", out, want)
	}
}

// The interchange round trip must not change what gets rendered.
func TestRenderAfterInterchange(t *testing.T) {
	doc := sampleDoc()
	data, err := lookup(t, "json").Render("demo", doc)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := codec.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	for _, name := range []string{"html", "webpage"} {
		r := lookup(t, name)
		direct, err := r.Render("demo", doc)
		if err != nil {
			t.Fatal(err)
		}
		viaFile, err := r.Render("demo", decoded)
		if err != nil {
			t.Fatal(err)
		}
		if string(direct) != string(viaFile) {
			t.Errorf("%s: output differs after interchange round trip", name)
		}
	}
}

func TestWebpage(t *testing.T) {
	doc := sampleDoc()
	out, err := lookup(t, "webpage").Render("Demo <proof>", doc)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html class="alectryon-standalone">`,
		"<title>Demo &lt;proof&gt;</title>",
		`<meta charset="utf-8"/>`,
		`<meta name="generator" content="ProofWeave test"/>`,
		`<link rel="stylesheet" href="alectryon.css"/>`,
		`<link rel="stylesheet" href="` + FiraCodeURL + `"/>`,
		`<script src="alectryon-slideshow.js"></script>`,
		`<style type="text/css">.chroma { color: black }</style>`,
		`<article class="alectryon-windowed">`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if err := CheckMarkup(out, doc); err != nil {
		t.Errorf("CheckMarkup: %v", err)
	}

	untitled := strings.Replace(s, "<title>Demo &lt;proof&gt;</title>", "", 1)
	if err := CheckMarkup([]byte(untitled), doc); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("page without title: got %v", err)
	}
}

func TestDefaultHighlighterMarkupChecks(t *testing.T) {
	doc := sampleDoc()
	r, err := Lookup("webpage", Options{})
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.Render("demo", doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckMarkup(out, doc); err != nil {
		t.Errorf("CheckMarkup with chroma output: %v", err)
	}
}

func TestCheckMarkupMismatch(t *testing.T) {
	doc := sampleDoc()
	out, err := lookup(t, "html").Render("demo", doc)
	if err != nil {
		t.Fatal(err)
	}

	fewer := doc[:1]
	if err := CheckMarkup(out, fewer); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("chunk count mismatch: got %v", err)
	}

	extra := doc.Clone()
	extra[1] = append(extra[1], fragment.Text{String: "\n"})
	if err := CheckMarkup(out, extra); err == nil {
		t.Error("fragment count mismatch not detected")
	}

	swapped := doc.Clone()
	swapped[0][0], swapped[0][1] = swapped[0][1], swapped[0][0]
	if err := CheckMarkup(out, swapped); err == nil {
		t.Error("kind mismatch not detected")
	}

	if err := CheckMarkup([]byte("<pre class=\"alectryon-io\"><span>"), doc); err == nil {
		t.Error("malformed markup accepted")
	}
}

func TestWriters(t *testing.T) {
	infos := Writers()
	if len(infos) != 3 {
		t.Fatalf("Writers() = %d entries", len(infos))
	}
	for _, info := range infos {
		if info.Description == "" || !strings.HasPrefix(info.Extension, ".") {
			t.Errorf("incomplete writer info %+v", info)
		}
	}
}
