// Package oracle defines the contract with the external checking engine and
// ships the implementations the pipeline can use.
//
//   - Process runs an oracle executable speaking the JSON stdin/stdout protocol
//   - Lexical splits statements without checking them
//   - Cached wraps another oracle with a content-addressed result cache
package oracle

import (
	"context"
	"fmt"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// Oracle annotates raw chunks with proof state.
//
// Annotate returns one chunk of fragments per input chunk, in order. The call
// may block for a long time; the core sets no deadline on ctx. A checking
// failure is reported as a single *errors.OracleError.
type Oracle interface {
	Name() string
	Annotate(ctx context.Context, chunks []string, args []string) (fragment.Document, error)
}

// VerifyContents checks that doc has one chunk per input and that each chunk
// reproduces its input text exactly.
func VerifyContents(name string, chunks []string, doc fragment.Document) error {
	if len(doc) != len(chunks) {
		return errors.NewOracle(name, fmt.Sprintf("returned %d chunks for %d inputs", len(doc), len(chunks)))
	}
	for i, c := range doc {
		if got := c.Contents(); got != chunks[i] {
			return errors.NewOracle(name, fmt.Sprintf("chunk %d text does not match its input (%d bytes returned, %d sent)", i, len(got), len(chunks[i])))
		}
	}
	return nil
}
