// Package partition regroups annotated fragments into chunks at blank-line
// boundaries.
//
// Raw source is annotated as one large chunk because the oracle only knows
// statement boundaries. Partitioning afterwards recovers paragraph-level
// structure: a Text fragment that opens with a run of blank lines starts a new
// chunk, and the run itself is discarded.
package partition

import (
	"fmt"
	"regexp"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// DefaultMinBreaks is the number of line breaks (each optionally preceded by
// spaces or tabs) that make a blank run.
const DefaultMinBreaks = 2

// Policy configures what counts as a separator.
type Policy struct {
	// MinBreaks is the minimum number of consecutive line breaks in a blank
	// run. Must be at least 2: a single line break never splits.
	MinBreaks int `yaml:"min_breaks"`
}

// DefaultPolicy returns the policy matching `(?:[ \t]*\n){2,}`.
func DefaultPolicy() Policy {
	return Policy{MinBreaks: DefaultMinBreaks}
}

// Validate checks the policy.
func (p Policy) Validate() error {
	if p.MinBreaks < 2 {
		return errors.NewValidation("partition.min_breaks", fmt.Sprintf("must be at least 2, got %d", p.MinBreaks))
	}
	return nil
}

// Partitioner splits chunks according to a Policy. It holds no mutable state.
type Partitioner struct {
	policy Policy
	blank  *regexp.Regexp
}

// New returns a Partitioner for p.
func New(p Policy) (*Partitioner, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Partitioner{
		policy: p,
		blank:  regexp.MustCompile(fmt.Sprintf(`^(?:[ \t]*\n){%d,}`, p.MinBreaks)),
	}, nil
}

// Default returns a Partitioner using DefaultPolicy.
func Default() *Partitioner {
	p, err := New(DefaultPolicy())
	if err != nil {
		panic(err)
	}
	return p
}

// Policy returns the partitioner's policy.
func (p *Partitioner) Policy() Policy {
	return p.policy
}

// Fragments splits one chunk into whitespace-delimited runs.
//
// Output starts with one empty chunk. A Text fragment whose contents begin
// with a blank run opens a new chunk (unless the current one is still empty)
// and loses that run; if nothing remains it is dropped. Every other fragment
// is appended unchanged to the last chunk.
func (p *Partitioner) Fragments(chunk fragment.Chunk) fragment.Document {
	out := fragment.Document{fragment.Chunk{}}
	for _, f := range chunk {
		if t, ok := f.(fragment.Text); ok {
			if loc := p.blank.FindStringIndex(t.String); loc != nil {
				if len(out[len(out)-1]) > 0 {
					out = append(out, fragment.Chunk{})
				}
				t = fragment.Text{String: t.String[loc[1]:]}
				if t.String == "" {
					continue
				}
				f = t
			}
		}
		last := len(out) - 1
		out[last] = append(out[last], fragment.Clone(f))
	}
	return out
}

// SplitSingleChunk partitions a document that must hold exactly one chunk.
// Raw source files are annotated as a single chunk and split afterwards.
// Any other chunk count is a programming error and panics.
func (p *Partitioner) SplitSingleChunk(doc fragment.Document) fragment.Document {
	errors.Precondition(len(doc) == 1, "partition.SplitSingleChunk", "expected exactly 1 chunk, got %d", len(doc))
	return p.Fragments(doc[0])
}

// Separators returns, in order, the blank runs Fragments would consume from
// chunk. Joining the partitioned text with these restores the original.
func (p *Partitioner) Separators(chunk fragment.Chunk) []string {
	var seps []string
	for _, f := range chunk {
		if t, ok := f.(fragment.Text); ok {
			if loc := p.blank.FindStringIndex(t.String); loc != nil {
				seps = append(seps, t.String[:loc[1]])
			}
		}
	}
	return seps
}

// Compact drops empty chunks.
func Compact(doc fragment.Document) fragment.Document {
	out := make(fragment.Document, 0, len(doc))
	for _, c := range doc {
		if len(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}
