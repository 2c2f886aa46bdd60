package oracle

import (
	"encoding/json"
	"fmt"

	"github.com/FocuswithJustin/ProofWeave/core/codec"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// CommandAnnotate is the only command the host sends to an oracle process.
const CommandAnnotate = "annotate"

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request is the JSON request written to an oracle's stdin.
type Request struct {
	Command string      `json:"command"`
	Args    AnnotateArgs `json:"args"`
}

// AnnotateArgs are the arguments of an annotate request.
type AnnotateArgs struct {
	Chunks []string `json:"chunks"`
	Args   []string `json:"args"`
}

// Response is the JSON response read from an oracle's stdout.
type Response struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// AnnotateResult is the result payload of a successful annotate call.
// Chunks holds an interchange document.
type AnnotateResult struct {
	Chunks json.RawMessage `json:"chunks"`
}

// NewAnnotateRequest creates an annotate request.
func NewAnnotateRequest(chunks, args []string) *Request {
	if chunks == nil {
		chunks = []string{}
	}
	if args == nil {
		args = []string{}
	}
	return &Request{
		Command: CommandAnnotate,
		Args:    AnnotateArgs{Chunks: chunks, Args: args},
	}
}

// NewAnnotateResponse builds a successful response carrying doc.
func NewAnnotateResponse(doc fragment.Document) (*Response, error) {
	data, err := codec.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	result, err := json.Marshal(AnnotateResult{Chunks: data})
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &Response{Status: StatusOK, Result: result}, nil
}

// NewErrorResponse builds an error response.
func NewErrorResponse(msg string) *Response {
	return &Response{Status: StatusError, Error: msg}
}

// ParseAnnotateResult decodes the document carried by a successful response.
func ParseAnnotateResult(resp *Response) (fragment.Document, error) {
	if resp.Status != StatusOK {
		return nil, fmt.Errorf("unexpected response status %q", resp.Status)
	}
	var result AnnotateResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to parse annotate result: %w", err)
	}
	if len(result.Chunks) == 0 {
		return nil, fmt.Errorf("annotate result has no chunks")
	}
	return codec.Unmarshal(result.Chunks)
}
