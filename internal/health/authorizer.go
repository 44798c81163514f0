package health

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Authorizer obtains the user's consent to read workout data.
type Authorizer interface {
	Authorize(ctx context.Context) (bool, error)
}

// StaticAuthorizer answers with a fixed decision.
type StaticAuthorizer bool

// Authorize implements Authorizer.
func (a StaticAuthorizer) Authorize(context.Context) (bool, error) {
	return bool(a), nil
}

// PromptAuthorizer asks a yes/no question on a terminal.
type PromptAuthorizer struct {
	In  io.Reader
	Out io.Writer
}

// NewPromptAuthorizer creates a prompt reading from in and writing to out.
func NewPromptAuthorizer(in io.Reader, out io.Writer) *PromptAuthorizer {
	return &PromptAuthorizer{In: in, Out: out}
}

// Authorize prints the consent question and reads one answer line.
// Anything other than y/yes counts as a refusal.
func (p *PromptAuthorizer) Authorize(ctx context.Context) (bool, error) {
	if _, err := fmt.Fprint(p.Out, "Allow garmindash to read your running workouts? [y/N] "); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-ch:
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", a.err)
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}
