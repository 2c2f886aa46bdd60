package codec

import (
	"fmt"

	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// Encode converts v to its plain-tree form. Fragments become discriminated
// maps; chunks, documents and slices become []any; maps are encoded value by
// value; scalars encode to themselves.
func Encode(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case fragment.Fragment:
		return EncodeFragment(x)
	case fragment.Document:
		out := make([]any, len(x))
		for i, c := range x {
			out[i] = Encode(c)
		}
		return out
	case fragment.Chunk:
		out := make([]any, len(x))
		for i, f := range x {
			out[i] = EncodeFragment(f)
		}
		return out
	case []fragment.Fragment:
		return Encode(fragment.Chunk(x))
	case []fragment.Chunk:
		return Encode(fragment.Document(x))
	case []fragment.Goal:
		return encodeGoals(x)
	case []fragment.Hypothesis:
		return encodeHypotheses(x)
	case []string:
		return encodeStrings(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Encode(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Encode(e)
		}
		return out
	case *string:
		if x == nil {
			return nil
		}
		return *x
	default:
		return v
	}
}

// EncodeFragment converts a single fragment to its discriminated map.
func EncodeFragment(f fragment.Fragment) map[string]any {
	switch x := f.(type) {
	case fragment.Text:
		return map[string]any{
			TypeKey:  TokenText,
			"string": x.String,
		}
	case fragment.Sentence:
		return map[string]any{
			TypeKey:     TokenSentence,
			"sentence":  x.Sentence,
			"responses": encodeStrings(x.Responses),
			"goals":     encodeGoals(x.Goals),
			"status":    string(x.Status),
		}
	case fragment.HTMLSentence:
		return map[string]any{
			TypeKey:     TokenHTMLSentence,
			"sentence":  x.Sentence,
			"markup":    x.Markup,
			"responses": encodeStrings(x.Responses),
			"goals":     encodeGoals(x.Goals),
			"status":    string(x.Status),
		}
	case fragment.Goal:
		return encodeGoal(x)
	case fragment.Hypothesis:
		return encodeHypothesis(x)
	default:
		panic(fmt.Sprintf("codec: unknown fragment type %T", f))
	}
}

// EncodeDocument converts a document to a list of lists of fragment maps.
func EncodeDocument(doc fragment.Document) []any {
	return Encode(doc).([]any)
}

func encodeGoal(g fragment.Goal) map[string]any {
	return map[string]any{
		TypeKey:      TokenGoal,
		"name":       g.Name,
		"conclusion": g.Conclusion,
		"hypotheses": encodeHypotheses(g.Hypotheses),
	}
}

func encodeHypothesis(h fragment.Hypothesis) map[string]any {
	var body any
	if h.Body != nil {
		body = *h.Body
	}
	return map[string]any{
		TypeKey: TokenHypothesis,
		"names": encodeStrings(h.Names),
		"body":  body,
		"type":  h.Type,
	}
}

func encodeGoals(goals []fragment.Goal) []any {
	out := make([]any, len(goals))
	for i, g := range goals {
		out[i] = encodeGoal(g)
	}
	return out
}

func encodeHypotheses(hyps []fragment.Hypothesis) []any {
	out := make([]any, len(hyps))
	for i, h := range hyps {
		out[i] = encodeHypothesis(h)
	}
	return out
}

func encodeStrings(s []string) []any {
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = e
	}
	return out
}
