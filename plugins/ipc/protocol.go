// Package ipc provides the oracle side of the annotate protocol, so that an
// oracle executable only has to supply an annotate function.
package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
	"github.com/FocuswithJustin/ProofWeave/core/oracle"
)

// AnnotateFunc annotates chunks. It has the shape of oracle.Oracle.Annotate.
type AnnotateFunc func(ctx context.Context, chunks []string, args []string) (fragment.Document, error)

// ReadRequest reads and decodes one request from r.
func ReadRequest(r io.Reader) (*oracle.Request, error) {
	var req oracle.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	return &req, nil
}

// Respond writes a success response carrying doc to w.
func Respond(w io.Writer, doc fragment.Document) error {
	resp, err := oracle.NewAnnotateResponse(doc)
	if err != nil {
		return err
	}
	return write(w, resp)
}

// RespondError writes an error response to w. Does NOT exit - caller decides.
func RespondError(w io.Writer, msg string) error {
	return write(w, oracle.NewErrorResponse(msg))
}

// RespondErrorf writes a formatted error response to w.
func RespondErrorf(w io.Writer, format string, args ...interface{}) error {
	return RespondError(w, fmt.Sprintf(format, args...))
}

func write(w io.Writer, resp *oracle.Response) error {
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}

// Serve handles one request read from r and writes its response to w.
// Checking failures become error responses carrying the oracle's message
// unchanged; the returned error only reports failures to talk to the host.
func Serve(ctx context.Context, r io.Reader, w io.Writer, annotate AnnotateFunc) error {
	req, err := ReadRequest(r)
	if err != nil {
		if rerr := RespondError(w, err.Error()); rerr != nil {
			return rerr
		}
		return err
	}

	if req.Command != oracle.CommandAnnotate {
		return RespondErrorf(w, "unknown command %q", req.Command)
	}

	doc, err := annotate(ctx, req.Args.Chunks, req.Args.Args)
	if err != nil {
		var oerr *errors.OracleError
		if errors.As(err, &oerr) {
			return RespondError(w, oerr.Message)
		}
		return RespondError(w, err.Error())
	}
	return Respond(w, doc)
}
