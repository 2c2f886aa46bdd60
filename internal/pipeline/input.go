package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
	"github.com/FocuswithJustin/ProofWeave/internal/interchange"
	"github.com/FocuswithJustin/ProofWeave/internal/validation"
)

// InputKind says how a unit's chunks were obtained.
type InputKind int

const (
	// KindSource is raw .v source, annotated as one chunk and partitioned.
	KindSource InputKind = iota
	// KindChunks is a .json list of raw chunks, never partitioned.
	KindChunks
	// KindAnnotated is an interchange file; the oracle is skipped.
	KindAnnotated
)

func (k InputKind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindChunks:
		return "chunks"
	case KindAnnotated:
		return "annotated"
	}
	return "unknown"
}

// Unit is one input file, read and classified.
type Unit struct {
	// Path is the file as given.
	Path string
	// Name is the base name, used for output files and page titles.
	Name string
	Kind InputKind

	// Chunks holds raw chunk text for KindSource and KindChunks.
	Chunks []string
	// Document holds the decoded document for KindAnnotated.
	Document fragment.Document
}

// ReadInput reads and classifies the file at path.
func ReadInput(path string) (*Unit, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, errors.NewValidation("input", fmt.Sprintf("%q: %v", path, err))
	}
	unit := &Unit{Path: path, Name: filepath.Base(path)}

	switch {
	case interchange.IsInterchange(path):
		doc, err := interchange.Read(path)
		if err != nil {
			return nil, err
		}
		unit.Kind, unit.Document = KindAnnotated, doc
		return unit, nil
	case filepath.Ext(path) == ".v":
		data, err := readText(path)
		if err != nil {
			return nil, err
		}
		unit.Kind, unit.Chunks = KindSource, []string{string(data)}
		return unit, nil
	case filepath.Ext(path) == ".json":
		data, err := readText(path)
		if err != nil {
			return nil, err
		}
		var chunks []string
		if err := json.Unmarshal(data, &chunks); err != nil || chunks == nil {
			return nil, errors.NewInputShape(path, "a .json input must be a list of strings")
		}
		unit.Kind, unit.Chunks = KindChunks, chunks
		return unit, nil
	}
	return nil, errors.NewInputShape(path, "input files must have extension .v, .json, .io.json or .io.json.xz")
}

// readText reads a source or chunk-list file, rejecting oversized and
// binary content.
func readText(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewIO("stat", path, err)
	}
	if err := validation.ValidateSize(info.Size()); err != nil {
		return nil, errors.NewInputShape(path, err.Error())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	if err := validation.ValidateText(data); err != nil {
		return nil, errors.NewInputShape(path, err.Error())
	}
	return data, nil
}

// ReadInputs reads every path before any is processed, so a bad input fails
// the run before the oracle is called.
func ReadInputs(paths []string) ([]*Unit, error) {
	units := make([]*Unit, 0, len(paths))
	for _, p := range paths {
		u, err := ReadInput(p)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// ExpandInputs expands arguments containing glob meta characters, including
// "**", and keeps the others as they are.
func ExpandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			out = append(out, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, errors.NewInputShape(arg, err.Error())
		}
		if len(matches) == 0 {
			return nil, errors.NewInputShape(arg, "pattern matches no files")
		}
		out = append(out, matches...)
	}
	return out, nil
}
