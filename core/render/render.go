// Package render turns annotated documents into output files.
//
// Three renderers are available:
//
//   - json: the interchange document (.io.json)
//   - html: one <pre class="alectryon-io"> snippet per chunk (.snippets.html)
//   - webpage: a standalone page wrapping the snippets (.html)
//
// Renderers are pure; writing the bytes somewhere is the caller's job.
package render

import (
	"fmt"
	"sort"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
	"github.com/FocuswithJustin/ProofWeave/core/highlight"
)

// Renderer converts a document into the bytes of one output file.
type Renderer interface {
	// Name is the writer name used on the command line.
	Name() string

	// Extension is the suffix appended to the input's base name.
	Extension() string

	// Render produces the output for the input called name.
	Render(name string, doc fragment.Document) ([]byte, error)
}

// Highlighter produces markup for statement text.
type Highlighter interface {
	Highlight(src string) string
	CSS() string
}

// Options configure renderer construction.
type Options struct {
	// Highlighter defaults to highlight.Default().
	Highlighter Highlighter

	// Generator is written to the page's generator meta tag.
	Generator string
}

func (o Options) withDefaults() Options {
	if o.Highlighter == nil {
		o.Highlighter = highlight.Default()
	}
	if o.Generator == "" {
		o.Generator = "ProofWeave"
	}
	return o
}

// Info describes a registered renderer.
type Info struct {
	Name        string
	Extension   string
	Description string
}

type entry struct {
	info Info
	new  func(Options) Renderer
}

var registry = map[string]entry{
	"json": {
		info: Info{Name: "json", Extension: ".io.json", Description: "annotated interchange document"},
		new:  func(Options) Renderer { return JSON{} },
	},
	"html": {
		info: Info{Name: "html", Extension: ".snippets.html", Description: "one HTML block per chunk"},
		new:  func(o Options) Renderer { return &Snippets{highlighter: o.Highlighter} },
	},
	"webpage": {
		info: Info{Name: "webpage", Extension: ".html", Description: "standalone HTML page"},
		new: func(o Options) Renderer {
			return &Webpage{snippets: Snippets{highlighter: o.Highlighter}, generator: o.Generator}
		},
	},
}

// Lookup returns the renderer registered under name.
func Lookup(name string, opts Options) (Renderer, error) {
	e, ok := registry[name]
	if !ok {
		return nil, errors.NewNotFound("writer", name)
	}
	return e.new(opts.withDefaults()), nil
}

// Writers lists the registered renderers by name.
func Writers() []Info {
	out := make([]Info, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the registered renderer names, sorted.
func Names() []string {
	infos := Writers()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// Highlight returns a copy of doc in which every Sentence is replaced by an
// HTMLSentence carrying h's markup. doc is not modified. HTMLSentences are
// kept as they are.
func Highlight(doc fragment.Document, h Highlighter) (fragment.Document, error) {
	out := make(fragment.Document, len(doc))
	for i, chunk := range doc {
		hc := make(fragment.Chunk, len(chunk))
		for j, f := range chunk {
			switch f := f.(type) {
			case fragment.Text:
				hc[j] = f
			case fragment.Sentence:
				hc[j] = f.Highlight(h.Highlight(f.Sentence))
			case fragment.HTMLSentence:
				hc[j] = f.Clone()
			case fragment.Goal, fragment.Hypothesis:
				return nil, fmt.Errorf("chunk %d fragment %d: %s cannot appear directly in a chunk", i, j, f.Kind())
			default:
				panic(fmt.Sprintf("render: unknown fragment type %T", f))
			}
		}
		out[i] = hc
	}
	return out, nil
}
