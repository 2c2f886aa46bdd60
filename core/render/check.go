package render

import (
	"bytes"
	"fmt"

	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
	"github.com/FocuswithJustin/ProofWeave/core/xml"
)

var blockExpr = mustCompile(`//pre[contains(concat(' ', normalize-space(@class), ' '), ' ` + ClassIO + ` ')]`)

func mustCompile(expr string) *xpath.Expr {
	e, err := xml.Compile(expr)
	if err != nil {
		panic(err)
	}
	return e
}

// CheckMarkup parses rendered snippet or page markup and checks that it has
// one block per chunk of doc and one element per fragment of each chunk, of
// the matching kind. Full pages must also carry a title.
func CheckMarkup(markup []byte, doc fragment.Document) error {
	page := bytes.HasPrefix(bytes.TrimSpace(markup), []byte("<!DOCTYPE"))
	parse := xml.ParseFragment
	if page {
		parse = xml.Parse
	}
	parsed, err := parse(markup)
	if err != nil {
		return errors.NewValidation("markup", err.Error())
	}
	if page {
		title, err := parsed.XPathFirst("//head/title")
		if err != nil {
			return errors.NewValidation("markup", err.Error())
		}
		if title == nil {
			return errors.NewValidation("markup", "page has no title")
		}
	}

	blocks := parsed.Select(blockExpr)
	if len(blocks) != len(doc) {
		return errors.NewValidation("markup", fmt.Sprintf("%d blocks for %d chunks", len(blocks), len(doc)))
	}
	for i, block := range blocks {
		nodes := block.Children()
		if len(nodes) != len(doc[i]) {
			return errors.NewValidation("markup", fmt.Sprintf("chunk %d: %d elements for %d fragments", i, len(nodes), len(doc[i])))
		}
		for j, f := range doc[i] {
			want := ClassSentence
			if f.Kind() == fragment.KindText {
				want = ClassText
			}
			if !nodes[j].HasClass(want) {
				return errors.NewValidation("markup", fmt.Sprintf("chunk %d fragment %d: expected class %q, got %q", i, j, want, nodes[j].Attr("class")))
			}
		}
	}
	return nil
}
