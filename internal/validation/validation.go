// Package validation checks input paths and contents before they reach the
// oracle, and the names of the files a run writes.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits on inputs, to keep a stray argument from exhausting memory.
const (
	// MaxFileSize is the maximum allowed input size (256 MB).
	MaxFileSize = 256 << 20
	// MaxFilenameLength is the maximum allowed output file name length.
	MaxFilenameLength = 255
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrPathTooLong      = errors.New("path too long")
	ErrFilenameTooLong  = errors.New("filename too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrFileTooLarge     = errors.New("file too large")
	ErrNotText          = errors.New("not a text file")
)

// ValidatePath checks an input path for length limits and invalid
// characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateFilename checks an output file name: no separators, no control
// characters, no reserved names.
func ValidateFilename(filename string) error {
	if filename == "" {
		return ErrInvalidFilename
	}
	if len(filename) > MaxFilenameLength {
		return ErrFilenameTooLong
	}
	if filename == "." || filename == ".." {
		return fmt.Errorf("%w: reserved name", ErrInvalidFilename)
	}
	if strings.ContainsAny(filename, "/\\") {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidFilename)
	}
	for _, r := range filename {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidFilename)
		}
	}
	return nil
}

// ValidateSize rejects inputs larger than MaxFileSize.
func ValidateSize(size int64) error {
	if size > MaxFileSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, MaxFileSize)
	}
	return nil
}

type magic struct {
	name  string
	bytes []byte
}

var binaryMagic = []magic{
	{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{"gzip", []byte{0x1f, 0x8b}},
	{"zip", []byte{0x50, 0x4b, 0x03, 0x04}},
	{"sqlite", []byte("SQLite format 3")},
}

// DetectBinary returns the name of the binary format data starts with, or ""
// if none matches.
func DetectBinary(data []byte) string {
	for _, m := range binaryMagic {
		if bytes.HasPrefix(data, m.bytes) {
			return m.name
		}
	}
	return ""
}

// ValidateText checks that data can be source text: valid UTF-8 with no NUL
// bytes and no known binary signature.
func ValidateText(data []byte) error {
	if name := DetectBinary(data); name != "" {
		return fmt.Errorf("%w: content is %s data", ErrNotText, name)
	}
	if bytes.IndexByte(data, 0) != -1 {
		return fmt.Errorf("%w: contains NUL bytes", ErrNotText)
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: invalid UTF-8", ErrNotText)
	}
	return nil
}
