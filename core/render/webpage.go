package render

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// Assets referenced by standalone pages.
const (
	StylesheetAsset = "alectryon.css"
	ScriptAsset     = "alectryon-slideshow.js"
	FiraCodeURL     = "https://unpkg.com/firacode/distr/fira_code.css"
)

// Webpage renders a standalone HTML document around the snippet blocks.
type Webpage struct {
	snippets  Snippets
	generator string
}

// Name implements Renderer.
func (*Webpage) Name() string { return "webpage" }

// Extension implements Renderer.
func (*Webpage) Extension() string { return ".html" }

// Render implements Renderer. name becomes the page title.
func (w *Webpage) Render(name string, doc fragment.Document) ([]byte, error) {
	blocks, err := w.snippets.Nodes(doc)
	if err != nil {
		return nil, err
	}

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	page := element(atom.Html, ClassStandalone)
	root.AppendChild(page)

	head := element(atom.Head, "")
	title := element(atom.Title, "")
	title.AppendChild(text(name))
	head.AppendChild(title)

	charset := element(atom.Meta, "")
	setAttr(charset, "charset", "utf-8")
	head.AppendChild(charset)

	generator := element(atom.Meta, "")
	setAttr(generator, "name", "generator")
	setAttr(generator, "content", w.generator)
	head.AppendChild(generator)

	head.AppendChild(stylesheet(StylesheetAsset))

	script := element(atom.Script, "")
	setAttr(script, "src", ScriptAsset)
	head.AppendChild(script)

	head.AppendChild(stylesheet(FiraCodeURL))

	if css := w.snippets.highlighter.CSS(); css != "" {
		style := element(atom.Style, "")
		setAttr(style, "type", "text/css")
		style.AppendChild(text(css))
		head.AppendChild(style)
	}
	page.AppendChild(head)

	body := element(atom.Body, "")
	article := element(atom.Article, ClassWindowed)
	for _, b := range blocks {
		article.AppendChild(text("\n"))
		article.AppendChild(b)
	}
	article.AppendChild(text("\n"))
	body.AppendChild(article)
	page.AppendChild(body)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func stylesheet(href string) *html.Node {
	link := element(atom.Link, "")
	setAttr(link, "rel", "stylesheet")
	setAttr(link, "href", href)
	return link
}
