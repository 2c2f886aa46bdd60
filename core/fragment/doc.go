// Package fragment defines the annotated-fragment model shared by the oracle,
// the partitioner, the interchange codec and every renderer.
//
// # Kinds
//
// A Fragment is one of a closed set of value types:
//
//   - Text: prose or comment material that is not checked
//   - Sentence: one executable statement with the proof state after it ran
//   - Goal: one open proof obligation
//   - Hypothesis: one assumption in scope for a Goal
//   - HTMLSentence: a Sentence enriched with highlighted markup; produced by
//     renderers only, never by the oracle
//
// The set is sealed: Fragment carries an unexported method, so only this
// package can add kinds. Consumers switch on the concrete type and must treat
// any other case as a programming error.
//
// # Chunks and documents
//
// A Chunk is an ordered run of fragments covering one logical unit of the
// source. Concatenating Contents over a chunk reproduces that unit's text
// byte for byte. A Document is an ordered list of chunks.
//
// # Example
//
//	chunk := fragment.Chunk{
//	    fragment.Text{String: "(* Prelude *)\n"},
//	    fragment.Sentence{
//	        Sentence: "intros n.",
//	        Goals: []fragment.Goal{{
//	            Name:       "1",
//	            Conclusion: "n + 0 = n",
//	            Hypotheses: []fragment.Hypothesis{{Names: []string{"n"}, Type: "nat"}},
//	        }},
//	        Status: fragment.StatusOK,
//	    },
//	}
package fragment
