package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/ProofWeave/core/errors"
	"github.com/FocuswithJustin/ProofWeave/core/fragment"
)

// Process runs an external oracle executable once per Annotate call. The
// request is written to its stdin and one JSON response is read from stdout.
type Process struct {
	// Command is the executable path or name looked up in PATH.
	Command string

	// ExtraArgs are passed on the oracle's command line.
	ExtraArgs []string

	// Dir is the working directory; empty means the current one.
	Dir string

	// Debug keeps the oracle's stderr in returned errors and makes Stderr
	// available after each call.
	Debug bool

	lastStderr string
}

// NewProcess returns a Process oracle for command.
func NewProcess(command string, extraArgs ...string) *Process {
	return &Process{Command: command, ExtraArgs: extraArgs}
}

// Name implements Oracle.
func (p *Process) Name() string { return "process" }

// Identity implements Identifier: the command and its extra arguments, each
// quoted, so two process oracles running different provers never share cache
// entries.
func (p *Process) Identity() string {
	parts := make([]string, 0, len(p.ExtraArgs)+2)
	parts = append(parts, p.Name(), strconv.Quote(p.Command))
	for _, a := range p.ExtraArgs {
		parts = append(parts, strconv.Quote(a))
	}
	return strings.Join(parts, " ")
}

// Stderr returns what the oracle wrote to stderr during the last call.
func (p *Process) Stderr() string { return p.lastStderr }

// Annotate implements Oracle.
func (p *Process) Annotate(ctx context.Context, chunks []string, args []string) (fragment.Document, error) {
	if p.Command == "" {
		return nil, errors.NewValidation("oracle.command", "no oracle command configured")
	}

	reqData, err := json.Marshal(NewAnnotateRequest(chunks, args))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.Command, p.ExtraArgs...)
	cmd.Dir = p.Dir
	cmd.Stdin = bytes.NewReader(reqData)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	p.lastStderr = stderr.String()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("oracle %s interrupted: %w", p.Command, ctx.Err())
	}

	// An oracle may exit non-zero after writing a well-formed error response;
	// the response wins over the exit status.
	var resp Response
	if decErr := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &resp); decErr != nil {
		if runErr != nil {
			return nil, fmt.Errorf("oracle execution failed: %w%s", runErr, p.stderrSuffix())
		}
		return nil, fmt.Errorf("failed to decode oracle response: %w (output: %s)", decErr, truncate(stdout.String(), 200))
	}

	switch resp.Status {
	case StatusError:
		return nil, &errors.OracleError{Oracle: p.Name(), Message: resp.Error}
	case StatusOK:
	default:
		return nil, fmt.Errorf("oracle returned unknown status %q", resp.Status)
	}

	doc, err := ParseAnnotateResult(&resp)
	if err != nil {
		return nil, errors.Wrap(err, "oracle response")
	}
	if err := VerifyContents(p.Name(), chunks, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (p *Process) stderrSuffix() string {
	if !p.Debug || p.lastStderr == "" {
		return ""
	}
	return " (stderr: " + strings.TrimSpace(p.lastStderr) + ")"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
