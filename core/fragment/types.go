package fragment

import "fmt"

// Kind identifies the concrete type of a Fragment.
type Kind int

// Fragment kinds.
const (
	KindText Kind = iota + 1
	KindSentence
	KindGoal
	KindHypothesis
	KindHTMLSentence
)

var kindNames = map[Kind]string{
	KindText:         "Text",
	KindSentence:     "Sentence",
	KindGoal:         "Goal",
	KindHypothesis:   "Hypothesis",
	KindHTMLSentence: "HTMLSentence",
}

// String returns the Go type name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsValid returns true if k is one of the declared kinds.
func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

// Kinds returns every declared kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindText, KindSentence, KindGoal, KindHypothesis, KindHTMLSentence}
}

// Status is the oracle's success/failure indicator for a Sentence.
// The core never interprets it; it is carried through unchanged.
type Status string

// Status values produced by the bundled oracles.
const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Fragment is the sealed union of annotated document pieces.
type Fragment interface {
	// Kind reports the concrete kind.
	Kind() Kind
	fragment()
}

// Text is prose or comment material that is not subject to checking.
type Text struct {
	// String is the raw contents, whitespace included.
	String string
}

// Sentence is one executable statement as checked by the oracle.
type Sentence struct {
	// Sentence is the original statement text.
	Sentence string

	// Responses holds messages the oracle printed while running the statement.
	Responses []string

	// Goals is the proof state after execution, in oracle order.
	Goals []Goal

	// Status is the oracle's opaque success/failure indicator.
	Status Status
}

// Goal is one open proof obligation.
type Goal struct {
	// Name is the goal's name or index as reported by the oracle.
	Name string

	// Conclusion is the statement still to be proved.
	Conclusion string

	// Hypotheses are the assumptions in scope, in order.
	Hypotheses []Hypothesis
}

// Hypothesis is one assumption in scope for a Goal.
type Hypothesis struct {
	// Names holds one or more bound names sharing this hypothesis.
	Names []string

	// Body is the definition body for let-bound hypotheses, nil otherwise.
	Body *string

	// Type is the hypothesis statement.
	Type string
}

// HTMLSentence is a Sentence whose statement has been highlighted for
// presentation. Renderers build it from a Sentence; the oracle never does.
type HTMLSentence struct {
	Sentence  string
	Markup    string
	Responses []string
	Goals     []Goal
	Status    Status
}

func (Text) Kind() Kind         { return KindText }
func (Sentence) Kind() Kind     { return KindSentence }
func (Goal) Kind() Kind         { return KindGoal }
func (Hypothesis) Kind() Kind   { return KindHypothesis }
func (HTMLSentence) Kind() Kind { return KindHTMLSentence }

func (Text) fragment()         {}
func (Sentence) fragment()     {}
func (Goal) fragment()         {}
func (Hypothesis) fragment()   {}
func (HTMLSentence) fragment() {}

// StringPtr returns a pointer to s, for Hypothesis.Body literals.
func StringPtr(s string) *string {
	return &s
}

// Contents returns the raw source text f contributes to its chunk.
// Goals and hypotheses contribute nothing.
func Contents(f Fragment) string {
	switch v := f.(type) {
	case Text:
		return v.String
	case Sentence:
		return v.Sentence
	case HTMLSentence:
		return v.Sentence
	case Goal, Hypothesis:
		return ""
	default:
		panic(fmt.Sprintf("fragment: unknown fragment type %T", f))
	}
}

// Highlight builds the renderer-side variant of s. The slices are copied so
// the result never aliases s.
func (s Sentence) Highlight(markup string) HTMLSentence {
	c := s.Clone()
	return HTMLSentence{
		Sentence:  c.Sentence,
		Markup:    markup,
		Responses: c.Responses,
		Goals:     c.Goals,
		Status:    c.Status,
	}
}
