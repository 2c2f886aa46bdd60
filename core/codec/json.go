package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// Indent is the indentation used for interchange files.
const Indent = "    "

// Marshal encodes doc as indented JSON. Fragment entries are written with
// "_type" first followed by the declared field order; plain maps are written
// with sorted keys.
func Marshal(doc fragment.Document) ([]byte, error) {
	return MarshalValue(Encode(doc))
}

// MarshalValue writes an already-encoded tree as indented JSON.
func MarshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Unmarshal parses interchange JSON and decodes it into a document.
func Unmarshal(data []byte) (fragment.Document, error) {
	return Read(bytes.NewReader(data))
}

// Read parses one interchange JSON value from r and decodes it.
func Read(r io.Reader) (fragment.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, &errors.DecodeError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if dec.More() {
		return nil, &errors.DecodeError{Message: "trailing data after document"}
	}
	return DecodeDocument(tree)
}

func writeValue(buf *bytes.Buffer, v any, depth int) error {
	switch x := v.(type) {
	case []any:
		if len(x) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, e := range x {
			buf.WriteString(strings.Repeat(Indent, depth+1))
			if err := writeValue(buf, e, depth+1); err != nil {
				return err
			}
			if i < len(x)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(Indent, depth))
		buf.WriteByte(']')
		return nil
	case map[string]any:
		if len(x) == 0 {
			buf.WriteString("{}")
			return nil
		}
		keys := orderedKeys(x)
		buf.WriteString("{\n")
		for i, k := range keys {
			buf.WriteString(strings.Repeat(Indent, depth+1))
			if err := writeScalar(buf, k); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := writeValue(buf, x[k], depth+1); err != nil {
				return err
			}
			if i < len(keys)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(Indent, depth))
		buf.WriteByte('}')
		return nil
	default:
		return writeScalar(buf, v)
	}
}

func writeScalar(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %T: %w", v, err)
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// orderedKeys returns "_type" and the declared fields first for fragment
// maps, then any remaining keys sorted.
func orderedKeys(m map[string]any) []string {
	var keys []string
	seen := make(map[string]bool, len(m))
	if tok, ok := m[TypeKey].(string); ok {
		keys = append(keys, TypeKey)
		seen[TypeKey] = true
		if kind, ok := kindByToken[tok]; ok {
			for _, f := range fieldsByKind[kind] {
				if _, present := m[f]; present {
					keys = append(keys, f)
					seen[f] = true
				}
			}
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
