package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError error
	}{
		{name: "relative", path: "theories/Nat.v"},
		{name: "absolute", path: "/home/user/proofs/Nat.v"},
		{name: "unicode", path: "preuves/théorème.v"},
		{name: "empty", path: "", wantError: ErrEmptyPath},
		{name: "too long", path: strings.Repeat("a", MaxPathLength+1), wantError: ErrPathTooLong},
		{name: "null byte", path: "a\x00.v", wantError: ErrInvalidCharacter},
		{name: "control character", path: "a\x1b.v", wantError: ErrInvalidCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantError == nil {
				if err != nil {
					t.Errorf("ValidatePath() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("ValidatePath() error = %v, want %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		wantError error
	}{
		{name: "output name", filename: "Nat.v.io.json"},
		{name: "leading hyphen", filename: "-draft.v.html"},
		{name: "empty", filename: "", wantError: ErrInvalidFilename},
		{name: "dot", filename: ".", wantError: ErrInvalidFilename},
		{name: "dotdot", filename: "..", wantError: ErrInvalidFilename},
		{name: "slash", filename: "a/b.html", wantError: ErrInvalidFilename},
		{name: "backslash", filename: "a\\b.html", wantError: ErrInvalidFilename},
		{name: "newline", filename: "a\nb.html", wantError: ErrInvalidFilename},
		{name: "too long", filename: strings.Repeat("x", MaxFilenameLength+1), wantError: ErrFilenameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			if tt.wantError == nil {
				if err != nil {
					t.Errorf("ValidateFilename() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("ValidateFilename() error = %v, want %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	if err := ValidateSize(MaxFileSize); err != nil {
		t.Errorf("limit rejected: %v", err)
	}
	if err := ValidateSize(MaxFileSize + 1); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("oversized accepted: %v", err)
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{name: "source", data: []byte("Lemma l : True.\nProof. exact I. Qed.\n")},
		{name: "unicode", data: []byte("Notation \"x ≤ y\" := (le x y).")},
		{name: "empty", data: nil},
		{name: "xz", data: []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}, wantErr: true},
		{name: "gzip", data: []byte{0x1f, 0x8b, 0x08}, wantErr: true},
		{name: "nul", data: []byte("Check\x00nat."), wantErr: true},
		{name: "latin1", data: []byte{'C', 0xe9, '.'}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrNotText) {
				t.Errorf("error does not wrap ErrNotText: %v", err)
			}
		})
	}
}

func TestDetectBinary(t *testing.T) {
	if got := DetectBinary([]byte("SQLite format 3\x00")); got != "sqlite" {
		t.Errorf("DetectBinary(sqlite) = %q", got)
	}
	if got := DetectBinary([]byte("[\"chunk\"]")); got != "" {
		t.Errorf("DetectBinary(json) = %q", got)
	}
}
