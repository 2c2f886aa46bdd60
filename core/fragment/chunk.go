package fragment

import "strings"

// Chunk is an ordered run of fragments for one logical unit of a document.
type Chunk []Fragment

// Document is an ordered list of chunks, one per logical input unit.
type Document []Chunk

// Contents concatenates the raw text of every fragment in the chunk.
func (c Chunk) Contents() string {
	var b strings.Builder
	for _, f := range c {
		b.WriteString(Contents(f))
	}
	return b.String()
}

// Sentences returns the number of Sentence and HTMLSentence fragments.
func (c Chunk) Sentences() int {
	n := 0
	for _, f := range c {
		switch f.(type) {
		case Sentence, HTMLSentence:
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the chunk.
func (c Chunk) Clone() Chunk {
	if c == nil {
		return nil
	}
	out := make(Chunk, len(c))
	for i, f := range c {
		out[i] = Clone(f)
	}
	return out
}

// Contents concatenates the raw text of every chunk in the document.
func (d Document) Contents() string {
	var b strings.Builder
	for _, c := range d {
		b.WriteString(c.Contents())
	}
	return b.String()
}

// Fragments returns the total fragment count across all chunks.
func (d Document) Fragments() int {
	n := 0
	for _, c := range d {
		n += len(c)
	}
	return n
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for i, c := range d {
		out[i] = c.Clone()
	}
	return out
}

// Stats summarizes a document's shape.
type Stats struct {
	Chunks     int
	Texts      int
	Sentences  int
	Goals      int
	Hypotheses int
	Failed     int
}

// Summarize counts fragments by kind. Goals and hypotheses nested inside
// sentences are included.
func Summarize(d Document) Stats {
	s := Stats{Chunks: len(d)}
	countGoals := func(goals []Goal) {
		s.Goals += len(goals)
		for _, g := range goals {
			s.Hypotheses += len(g.Hypotheses)
		}
	}
	for _, c := range d {
		for _, f := range c {
			switch v := f.(type) {
			case Text:
				s.Texts++
			case Sentence:
				s.Sentences++
				if v.Status == StatusError {
					s.Failed++
				}
				countGoals(v.Goals)
			case HTMLSentence:
				s.Sentences++
				if v.Status == StatusError {
					s.Failed++
				}
				countGoals(v.Goals)
			case Goal:
				countGoals([]Goal{v})
			case Hypothesis:
				s.Hypotheses++
			}
		}
	}
	return s
}
