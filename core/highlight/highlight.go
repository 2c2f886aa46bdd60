// Package highlight turns statement text into class-annotated HTML spans
// using chroma's Coq lexer.
package highlight

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
)

// DefaultStyle is the chroma style used for the inline stylesheet.
const DefaultStyle = "tango"

// ContainerClass must be set on an ancestor of highlighted markup for the
// stylesheet to apply.
const ContainerClass = "chroma"

// Chroma highlights Coq source with a chroma lexer.
type Chroma struct {
	lexer chroma.Lexer
	style *chroma.Style
}

// New returns a highlighter using the named chroma style. Unknown styles
// fall back to chroma's default.
func New(style string) *Chroma {
	lexer := lexers.Get("coq")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return &Chroma{lexer: chroma.Coalesce(lexer), style: styles.Get(style)}
}

// Default returns a highlighter using DefaultStyle.
func Default() *Chroma { return New(DefaultStyle) }

// Highlight returns src as a sequence of escaped text and
// <span class="..."> elements. Stripping the tags and unescaping gives back
// src exactly.
func (c *Chroma) Highlight(src string) string {
	if src == "" {
		return ""
	}
	tokens, ok := c.tokenise(src)
	if !ok {
		return html.EscapeString(src)
	}

	var b strings.Builder
	for _, tok := range tokens {
		text := html.EscapeString(tok.Value)
		if cls := tokenClass(tok.Type); cls != "" {
			b.WriteString(`<span class="`)
			b.WriteString(cls)
			b.WriteString(`">`)
			b.WriteString(text)
			b.WriteString(`</span>`)
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

// tokenise lexes src and checks the tokens reproduce it. Some lexers append
// a final newline; that one is trimmed.
func (c *Chroma) tokenise(src string) ([]chroma.Token, bool) {
	it, err := c.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, src)
	if err != nil {
		return nil, false
	}
	tokens := it.Tokens()

	var joined strings.Builder
	for _, tok := range tokens {
		joined.WriteString(tok.Value)
	}
	switch got := joined.String(); {
	case got == src:
		return tokens, true
	case got == src+"\n" && len(tokens) > 0:
		last := &tokens[len(tokens)-1]
		last.Value = strings.TrimSuffix(last.Value, "\n")
		if last.Value == "" {
			tokens = tokens[:len(tokens)-1]
		}
		return tokens, true
	}
	return nil, false
}

// CSS returns the stylesheet for the classes Highlight emits, scoped under
// ContainerClass.
func (c *Chroma) CSS() string {
	var buf bytes.Buffer
	f := chromahtml.New(chromahtml.WithClasses(true))
	if err := f.WriteCSS(&buf, c.style); err != nil {
		return ""
	}
	return buf.String()
}

// tokenClass returns chroma's short class for t, trying its sub-category and
// category when t has none of its own.
func tokenClass(t chroma.TokenType) string {
	if t == chroma.Text || t == chroma.TextWhitespace {
		return ""
	}
	for _, candidate := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if cls, ok := chroma.StandardTypes[candidate]; ok && cls != "" {
			return cls
		}
	}
	return ""
}
