package render

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/FocuswithJustin/ProofWeave/core/fragment"
	"github.com/FocuswithJustin/ProofWeave/core/highlight"
)

// Class names of the rendered structure. Stylesheets and scripts key on these.
const (
	ClassIO         = "alectryon-io"
	ClassText       = "alectryon-wsp"
	ClassSentence   = "alectryon-sentence"
	ClassFailed     = "alectryon-failed"
	ClassToggle     = "alectryon-toggle"
	ClassInput      = "alectryon-input"
	ClassOutput     = "alectryon-output"
	ClassGoals      = "alectryon-goals"
	ClassGoal       = "alectryon-goal"
	ClassMessages   = "alectryon-messages"
	ClassMessage    = "alectryon-message"
	ClassHyps       = "goal-hyps"
	ClassHyp        = "goal-hyp"
	ClassHypNames   = "hyp-names"
	ClassHypBody    = "hyp-body"
	ClassHypType    = "hyp-type"
	ClassSeparator  = "goal-separator"
	ClassGoalName   = "goal-name"
	ClassConclusion = "goal-conclusion"
	ClassWindowed   = "alectryon-windowed"
	ClassStandalone = "alectryon-standalone"
)

// Snippets renders one <pre> block per chunk, separated by newlines.
type Snippets struct {
	highlighter Highlighter
}

// Name implements Renderer.
func (*Snippets) Name() string { return "html" }

// Extension implements Renderer.
func (*Snippets) Extension() string { return ".snippets.html" }

// Render implements Renderer.
func (s *Snippets) Render(_ string, doc fragment.Document) ([]byte, error) {
	blocks, err := s.Nodes(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for i, n := range blocks {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if err := html.Render(&buf, n); err != nil {
			return nil, fmt.Errorf("failed to render chunk %d: %w", i, err)
		}
	}
	if len(blocks) > 0 {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Nodes highlights doc and builds one block per chunk.
func (s *Snippets) Nodes(doc fragment.Document) ([]*html.Node, error) {
	highlighted, err := Highlight(doc, s.highlighter)
	if err != nil {
		return nil, err
	}
	b := &builder{h: s.highlighter}
	blocks := make([]*html.Node, len(highlighted))
	for i, chunk := range highlighted {
		blocks[i] = b.chunk(i, chunk)
	}
	return blocks, nil
}

type builder struct {
	h Highlighter
}

// chunk builds a <pre> holding exactly one child element per fragment.
func (b *builder) chunk(i int, chunk fragment.Chunk) *html.Node {
	pre := element(atom.Pre, ClassIO+" "+highlight.ContainerClass)
	for j, f := range chunk {
		switch f := f.(type) {
		case fragment.Text:
			span := element(atom.Span, ClassText)
			span.AppendChild(text(f.String))
			pre.AppendChild(span)
		case fragment.HTMLSentence:
			pre.AppendChild(b.sentence(fmt.Sprintf("chunk-%d-%d", i, j), f))
		default:
			panic(fmt.Sprintf("render: unexpected %T after highlighting", f))
		}
	}
	return pre
}

func (b *builder) sentence(id string, s fragment.HTMLSentence) *html.Node {
	class := ClassSentence
	if s.Status == fragment.StatusError {
		class += " " + ClassFailed
	}
	span := element(atom.Span, class)

	hasOutput := len(s.Goals) > 0 || len(s.Responses) > 0
	input := element(atom.Span, ClassInput)
	if hasOutput {
		toggle := element(atom.Input, ClassToggle)
		setAttr(toggle, "type", "checkbox")
		setAttr(toggle, "id", id)
		span.AppendChild(toggle)

		input = element(atom.Label, ClassInput)
		setAttr(input, "for", id)
	}
	appendMarkup(input, s.Markup)
	span.AppendChild(input)

	if !hasOutput {
		return span
	}

	out := element(atom.Small, ClassOutput)
	if len(s.Goals) > 0 {
		goals := element(atom.Div, ClassGoals)
		for _, g := range s.Goals {
			goals.AppendChild(b.goal(g))
		}
		out.AppendChild(goals)
	}
	if len(s.Responses) > 0 {
		msgs := element(atom.Div, ClassMessages)
		for _, r := range s.Responses {
			m := element(atom.Blockquote, ClassMessage)
			m.AppendChild(text(r))
			msgs.AppendChild(m)
		}
		out.AppendChild(msgs)
	}
	span.AppendChild(out)
	return span
}

func (b *builder) goal(g fragment.Goal) *html.Node {
	q := element(atom.Blockquote, ClassGoal)
	if len(g.Hypotheses) > 0 {
		hyps := element(atom.Div, ClassHyps)
		for _, h := range g.Hypotheses {
			hyps.AppendChild(b.hypothesis(h))
		}
		q.AppendChild(hyps)
	}

	sep := element(atom.Span, ClassSeparator)
	sep.AppendChild(&html.Node{Type: html.ElementNode, Data: "hr", DataAtom: atom.Hr})
	if g.Name != "" {
		name := element(atom.Span, ClassGoalName)
		name.AppendChild(text(g.Name))
		sep.AppendChild(name)
	}
	q.AppendChild(sep)

	concl := element(atom.Div, ClassConclusion)
	appendMarkup(concl, b.h.Highlight(g.Conclusion))
	q.AppendChild(concl)
	return q
}

func (b *builder) hypothesis(h fragment.Hypothesis) *html.Node {
	div := element(atom.Div, ClassHyp)

	names := element(atom.Span, ClassHypNames)
	names.AppendChild(text(strings.Join(h.Names, ", ")))
	div.AppendChild(names)

	if h.Body != nil {
		body := element(atom.Span, ClassHypBody)
		body.AppendChild(text(":= "))
		appendMarkup(body, b.h.Highlight(*h.Body))
		div.AppendChild(body)
	}

	typ := element(atom.Span, ClassHypType)
	typ.AppendChild(text(": "))
	appendMarkup(typ, b.h.Highlight(h.Type))
	div.AppendChild(typ)
	return div
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	if class != "" {
		setAttr(n, "class", class)
	}
	return n
}

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// appendMarkup parses highlighter output in the context of parent and
// appends the resulting nodes. Unparseable markup is inserted as text.
func appendMarkup(parent *html.Node, markup string) {
	if markup == "" {
		return
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type: html.ElementNode, Data: "span", DataAtom: atom.Span,
	})
	if err != nil {
		parent.AppendChild(text(markup))
		return
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
}
