package render

import (
	"github.com/FocuswithJustin/ProofWeave/core/codec"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// JSON renders the interchange document. Sentences are written as they are,
// without highlighting.
type JSON struct{}

// Name implements Renderer.
func (JSON) Name() string { return "json" }

// Extension implements Renderer.
func (JSON) Extension() string { return ".io.json" }

// Render implements Renderer.
func (JSON) Render(_ string, doc fragment.Document) ([]byte, error) {
	return codec.Marshal(doc)
}
