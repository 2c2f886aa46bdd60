package oracle

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// coqLexer tokenizes vernacular just enough to find sentence boundaries.
// Rules are tried in order, so comments and strings win over words.
var coqLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `\(\*(?:[^*]|\*+[^*)])*\*+\)`},
	{Name: "String", Pattern: `"(?:[^"]|"")*"`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Word", Pattern: `[^\s."(]+|\(`},
})

var (
	tokComment    = coqLexer.Symbols()["Comment"]
	tokWhitespace = coqLexer.Symbols()["Whitespace"]
	tokDot        = coqLexer.Symbols()["Dot"]
)

var bulletPattern = regexp.MustCompile(`^(?:[-+*]+|[{}])$`)

// Lexical is an oracle that splits sentences without checking them. Every
// sentence is reported with no goals and StatusOK. It is useful for rendering
// scripts when no prover is installed, and as the reference oracle process.
type Lexical struct{}

// NewLexical returns a Lexical oracle.
func NewLexical() *Lexical { return &Lexical{} }

// Name implements Oracle.
func (*Lexical) Name() string { return "lexical" }

// Annotate implements Oracle. The search-path args are ignored.
func (l *Lexical) Annotate(ctx context.Context, chunks []string, _ []string) (fragment.Document, error) {
	doc := make(fragment.Document, 0, len(chunks))
	for i, src := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunk, err := l.splitChunk(src)
		if err != nil {
			return nil, &errors.OracleError{Oracle: l.Name(), Message: fmt.Sprintf("chunk %d: %s", i, err.Error())}
		}
		doc = append(doc, chunk)
	}
	return doc, nil
}

func (l *Lexical) splitChunk(src string) (fragment.Chunk, error) {
	lex, err := coqLexer.Lex("", strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}

	chunk := fragment.Chunk{}
	var text, sent strings.Builder
	flushText := func() {
		if text.Len() > 0 {
			chunk = append(chunk, fragment.Text{String: text.String()})
			text.Reset()
		}
	}
	emit := func() {
		chunk = append(chunk, fragment.Sentence{Sentence: sent.String(), Status: fragment.StatusOK})
		sent.Reset()
	}

	for i, tok := range tokens {
		if tok.EOF() {
			break
		}
		if sent.Len() == 0 && (tok.Type == tokWhitespace || tok.Type == tokComment) {
			text.WriteString(tok.Value)
			continue
		}
		starting := sent.Len() == 0
		if starting {
			flushText()
		}
		sent.WriteString(tok.Value)

		switch {
		case tok.Type == tokDot && endsSentence(tokens, i):
			emit()
		case starting && bulletPattern.MatchString(tok.Value):
			emit()
		}
	}

	if sent.Len() > 0 {
		return nil, fmt.Errorf("incomplete sentence %q", truncate(sent.String(), 40))
	}
	flushText()
	return chunk, nil
}

// endsSentence reports whether the dot at tokens[i] is followed by
// whitespace or the end of input.
func endsSentence(tokens []lexer.Token, i int) bool {
	if i+1 >= len(tokens) {
		return true
	}
	next := tokens[i+1]
	return next.EOF() || next.Type == tokWhitespace
}
