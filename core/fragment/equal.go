package fragment

import "fmt"

// Clone returns a deep copy of f.
func Clone(f Fragment) Fragment {
	switch v := f.(type) {
	case Text:
		return v
	case Sentence:
		return v.Clone()
	case HTMLSentence:
		return v.Clone()
	case Goal:
		return v.Clone()
	case Hypothesis:
		return v.Clone()
	default:
		panic(fmt.Sprintf("fragment: unknown fragment type %T", f))
	}
}

// Clone returns a deep copy of s.
func (s Sentence) Clone() Sentence {
	s.Responses = cloneStrings(s.Responses)
	s.Goals = cloneGoals(s.Goals)
	return s
}

// Clone returns a deep copy of s.
func (s HTMLSentence) Clone() HTMLSentence {
	s.Responses = cloneStrings(s.Responses)
	s.Goals = cloneGoals(s.Goals)
	return s
}

// Clone returns a deep copy of g.
func (g Goal) Clone() Goal {
	if g.Hypotheses != nil {
		hyps := make([]Hypothesis, len(g.Hypotheses))
		for i, h := range g.Hypotheses {
			hyps[i] = h.Clone()
		}
		g.Hypotheses = hyps
	}
	return g
}

// Clone returns a deep copy of h.
func (h Hypothesis) Clone() Hypothesis {
	h.Names = cloneStrings(h.Names)
	if h.Body != nil {
		h.Body = StringPtr(*h.Body)
	}
	return h
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneGoals(goals []Goal) []Goal {
	if goals == nil {
		return nil
	}
	out := make([]Goal, len(goals))
	for i, g := range goals {
		out[i] = g.Clone()
	}
	return out
}

// Equal reports whether a and b are the same fragment field for field.
// A nil slice and an empty slice compare equal.
func Equal(a, b Fragment) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Text:
		return x.String == b.(Text).String
	case Sentence:
		y := b.(Sentence)
		return x.Sentence == y.Sentence && x.Status == y.Status &&
			stringsEqual(x.Responses, y.Responses) && goalsEqual(x.Goals, y.Goals)
	case HTMLSentence:
		y := b.(HTMLSentence)
		return x.Sentence == y.Sentence && x.Markup == y.Markup && x.Status == y.Status &&
			stringsEqual(x.Responses, y.Responses) && goalsEqual(x.Goals, y.Goals)
	case Goal:
		return goalEqual(x, b.(Goal))
	case Hypothesis:
		return hypothesisEqual(x, b.(Hypothesis))
	default:
		panic(fmt.Sprintf("fragment: unknown fragment type %T", a))
	}
}

// ChunksEqual reports whether two chunks hold equal fragments in the same order.
func ChunksEqual(a, b Chunk) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// DocumentsEqual reports whether two documents hold equal chunks in the same order.
func DocumentsEqual(a, b Document) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ChunksEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func goalsEqual(a, b []Goal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !goalEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func goalEqual(a, b Goal) bool {
	if a.Name != b.Name || a.Conclusion != b.Conclusion || len(a.Hypotheses) != len(b.Hypotheses) {
		return false
	}
	for i := range a.Hypotheses {
		if !hypothesisEqual(a.Hypotheses[i], b.Hypotheses[i]) {
			return false
		}
	}
	return true
}

func hypothesisEqual(a, b Hypothesis) bool {
	if a.Type != b.Type || !stringsEqual(a.Names, b.Names) {
		return false
	}
	if a.Body == nil || b.Body == nil {
		return a.Body == nil && b.Body == nil
	}
	return *a.Body == *b.Body
}
