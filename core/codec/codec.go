// Package codec converts annotated fragments to and from a tree of plain
// maps, slices and scalars suitable for JSON persistence.
//
// Every fragment encodes to a map holding one entry per declared field plus
// a "_type" discriminator:
//
//	{"_type": "hypothesis", "names": ["n"], "body": null, "type": "nat"}
//
// Field order is declared per kind (see Fields) rather than derived by
// reflection, so the wire layout is fixed independently of the Go structs.
package codec

import (
	"fmt"
	"sort"

	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// TypeKey is the reserved discriminator entry present in every encoded fragment.
const TypeKey = "_type"

// Discriminator tokens. These are stable across versions.
const (
	TokenText         = "text"
	TokenSentence     = "sentence"
	TokenGoal         = "goal"
	TokenHypothesis   = "hypothesis"
	TokenHTMLSentence = "html_sentence"
)

var tokenByKind = map[fragment.Kind]string{
	fragment.KindText:         TokenText,
	fragment.KindSentence:     TokenSentence,
	fragment.KindGoal:         TokenGoal,
	fragment.KindHypothesis:   TokenHypothesis,
	fragment.KindHTMLSentence: TokenHTMLSentence,
}

var kindByToken = map[string]fragment.Kind{
	TokenText:         fragment.KindText,
	TokenSentence:     fragment.KindSentence,
	TokenGoal:         fragment.KindGoal,
	TokenHypothesis:   fragment.KindHypothesis,
	TokenHTMLSentence: fragment.KindHTMLSentence,
}

// fieldsByKind lists the encoded field names of each kind in wire order.
var fieldsByKind = map[fragment.Kind][]string{
	fragment.KindText:         {"string"},
	fragment.KindSentence:     {"sentence", "responses", "goals", "status"},
	fragment.KindGoal:         {"name", "conclusion", "hypotheses"},
	fragment.KindHypothesis:   {"names", "body", "type"},
	fragment.KindHTMLSentence: {"sentence", "markup", "responses", "goals", "status"},
}

// Discriminator returns the token recorded for kind k.
func Discriminator(k fragment.Kind) string {
	tok, ok := tokenByKind[k]
	if !ok {
		panic(fmt.Sprintf("codec: no discriminator for %v", k))
	}
	return tok
}

// KindOf returns the kind identified by token.
func KindOf(token string) (fragment.Kind, bool) {
	k, ok := kindByToken[token]
	return k, ok
}

// Tokens returns every discriminator token, sorted.
func Tokens() []string {
	out := make([]string, 0, len(kindByToken))
	for tok := range kindByToken {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// Fields returns the encoded field names of kind k in wire order.
func Fields(k fragment.Kind) []string {
	return append([]string(nil), fieldsByKind[k]...)
}
