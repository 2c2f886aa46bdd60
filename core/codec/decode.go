package codec

import (
	"fmt"
	"sort"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// Decode reverses Encode. Maps carrying a "_type" entry decode to fragments;
// other maps and slices decode element by element; scalars are returned as is.
func Decode(v any) (any, error) {
	return decodeValue(v, "")
}

// DecodeFragment decodes a single discriminated map.
func DecodeFragment(v any) (fragment.Fragment, error) {
	return decodeFragmentAt(v, "")
}

// DecodeDocument decodes a list of chunks, each a list of encoded fragments.
// On failure no partial document is returned.
func DecodeDocument(v any) (fragment.Document, error) {
	chunks, ok := v.([]any)
	if !ok {
		return nil, errors.NewDecode("", "", "/", fmt.Sprintf("document must be a list of chunks, got %s", describe(v)))
	}
	doc := make(fragment.Document, len(chunks))
	for i, c := range chunks {
		path := fmt.Sprintf("/%d", i)
		items, ok := c.([]any)
		if !ok {
			return nil, errors.NewDecode("", "", path, fmt.Sprintf("chunk must be a list of fragments, got %s", describe(c)))
		}
		chunk := make(fragment.Chunk, len(items))
		for j, item := range items {
			f, err := decodeFragmentAt(item, fmt.Sprintf("%s/%d", path, j))
			if err != nil {
				return nil, err
			}
			chunk[j] = f
		}
		doc[i] = chunk
	}
	return doc, nil
}

func decodeValue(v any, path string) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		if _, tagged := x[TypeKey]; tagged {
			return decodeFragmentAt(x, path)
		}
		out := make(map[string]any, len(x))
		for k, e := range x {
			d, err := decodeValue(e, path+"/"+k)
			if err != nil {
				return nil, err
			}
			out[k] = d
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			d, err := decodeValue(e, fmt.Sprintf("%s/%d", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	default:
		return v, nil
	}
}

func decodeFragmentAt(v any, path string) (fragment.Fragment, error) {
	if path == "" {
		path = "/"
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.NewDecode("", "", path, fmt.Sprintf("expected a fragment mapping, got %s", describe(v)))
	}
	raw, present := m[TypeKey]
	if !present {
		return nil, errors.NewDecode("", TypeKey, path, "missing field")
	}
	tok, ok := raw.(string)
	if !ok {
		return nil, errors.NewDecode("", TypeKey, path, fmt.Sprintf("discriminator must be a string, got %s", describe(raw)))
	}
	kind, ok := kindByToken[tok]
	if !ok {
		return nil, errors.NewDecode(tok, "", path, "unknown discriminator")
	}

	fields := fieldsByKind[kind]
	if err := checkFields(m, tok, fields, path); err != nil {
		return nil, err
	}

	r := &reader{m: m, tok: tok, path: path}
	var f fragment.Fragment
	switch kind {
	case fragment.KindText:
		f = fragment.Text{String: r.str("string")}
	case fragment.KindSentence:
		f = fragment.Sentence{
			Sentence:  r.str("sentence"),
			Responses: r.strs("responses"),
			Goals:     r.goals("goals"),
			Status:    fragment.Status(r.str("status")),
		}
	case fragment.KindHTMLSentence:
		f = fragment.HTMLSentence{
			Sentence:  r.str("sentence"),
			Markup:    r.str("markup"),
			Responses: r.strs("responses"),
			Goals:     r.goals("goals"),
			Status:    fragment.Status(r.str("status")),
		}
	case fragment.KindGoal:
		f = fragment.Goal{
			Name:       r.str("name"),
			Conclusion: r.str("conclusion"),
			Hypotheses: r.hyps("hypotheses"),
		}
	case fragment.KindHypothesis:
		h := fragment.Hypothesis{
			Names: r.strs("names"),
			Body:  r.optStr("body"),
			Type:  r.str("type"),
		}
		if r.err == nil && len(h.Names) == 0 {
			r.fail("names", "hypothesis must bind at least one name")
		}
		f = h
	default:
		panic(fmt.Sprintf("codec: no decoder for %v", kind))
	}
	if r.err != nil {
		return nil, r.err
	}
	return f, nil
}

// checkFields rejects missing declared fields and undeclared extras so that
// re-encoding a decoded value reproduces the input map exactly.
func checkFields(m map[string]any, tok string, fields []string, path string) error {
	for _, name := range fields {
		if _, ok := m[name]; !ok {
			return errors.NewDecode(tok, name, path, "missing field")
		}
	}
	var extra []string
	for k := range m {
		if k == TypeKey || contains(fields, k) {
			continue
		}
		extra = append(extra, k)
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return errors.NewDecode(tok, extra[0], path, "unexpected field")
	}
	return nil
}

// reader extracts typed fields from one encoded fragment, keeping the first
// error it meets.
type reader struct {
	m    map[string]any
	tok  string
	path string
	err  error
}

func (r *reader) fail(field, msg string) {
	if r.err == nil {
		r.err = errors.NewDecode(r.tok, field, r.path, msg)
	}
}

func (r *reader) str(field string) string {
	if r.err != nil {
		return ""
	}
	s, ok := r.m[field].(string)
	if !ok {
		r.fail(field, fmt.Sprintf("expected string, got %s", describe(r.m[field])))
	}
	return s
}

func (r *reader) optStr(field string) *string {
	if r.err != nil {
		return nil
	}
	switch v := r.m[field].(type) {
	case nil:
		return nil
	case string:
		return fragment.StringPtr(v)
	default:
		r.fail(field, fmt.Sprintf("expected string or null, got %s", describe(v)))
		return nil
	}
}

func (r *reader) list(field string) []any {
	if r.err != nil {
		return nil
	}
	l, ok := r.m[field].([]any)
	if !ok {
		r.fail(field, fmt.Sprintf("expected list, got %s", describe(r.m[field])))
	}
	return l
}

func (r *reader) strs(field string) []string {
	items := r.list(field)
	if r.err != nil || len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			r.fail(field, fmt.Sprintf("element %d: expected string, got %s", i, describe(item)))
			return nil
		}
		out[i] = s
	}
	return out
}

func (r *reader) goals(field string) []fragment.Goal {
	items := r.list(field)
	if r.err != nil || len(items) == 0 {
		return nil
	}
	out := make([]fragment.Goal, len(items))
	for i, item := range items {
		f, err := decodeFragmentAt(item, fmt.Sprintf("%s/%s/%d", trimRoot(r.path), field, i))
		if err != nil {
			r.err = err
			return nil
		}
		g, ok := f.(fragment.Goal)
		if !ok {
			r.fail(field, fmt.Sprintf("element %d: expected %s, got %s", i, TokenGoal, Discriminator(f.Kind())))
			return nil
		}
		out[i] = g
	}
	return out
}

func (r *reader) hyps(field string) []fragment.Hypothesis {
	items := r.list(field)
	if r.err != nil || len(items) == 0 {
		return nil
	}
	out := make([]fragment.Hypothesis, len(items))
	for i, item := range items {
		f, err := decodeFragmentAt(item, fmt.Sprintf("%s/%s/%d", trimRoot(r.path), field, i))
		if err != nil {
			r.err = err
			return nil
		}
		h, ok := f.(fragment.Hypothesis)
		if !ok {
			r.fail(field, fmt.Sprintf("element %d: expected %s, got %s", i, TokenHypothesis, Discriminator(f.Kind())))
			return nil
		}
		out[i] = h
	}
	return out
}

func trimRoot(path string) string {
	if path == "/" {
		return ""
	}
	return path
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case map[string]any:
		return "mapping"
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}
