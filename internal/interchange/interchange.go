// Package interchange reads and writes annotated documents on disk, plain or
// xz-compressed.
package interchange

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/ProofWeave/core/codec"
	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
	"github.com/FocuswithJustin/ProofWeave/internal/fileutil"
)

// File suffixes.
const (
	Suffix           = ".io.json"
	CompressedSuffix = ".io.json.xz"
	xzSuffix         = ".xz"
)

// IsInterchange reports whether path names an interchange file.
func IsInterchange(path string) bool {
	return strings.HasSuffix(path, Suffix) || strings.HasSuffix(path, CompressedSuffix)
}

// IsCompressed reports whether path names an xz-compressed file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, xzSuffix)
}

// Read decodes the interchange file at path.
func Read(path string) (fragment.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if IsCompressed(path) {
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, errors.NewIO("decompress", path, err)
		}
		r = xzr
	}

	doc, err := codec.Read(r)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return doc, nil
}

// Write encodes doc to path atomically, compressing when path ends in .xz.
func Write(path string, doc fragment.Document) error {
	data, err := codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return WriteBytes(path, data)
}

// WriteBytes writes already encoded data to path atomically, compressing it
// when path ends in .xz.
func WriteBytes(path string, data []byte) error {
	if IsCompressed(path) {
		var err error
		if data, err = Compress(data); err != nil {
			return errors.NewIO("compress", path, err)
		}
	}
	if err := fileutil.WriteFileAtomic(path, data, 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// Compress returns data xz-compressed.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("xz writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("xz write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("xz close: %w", err)
	}
	return buf.Bytes(), nil
}
