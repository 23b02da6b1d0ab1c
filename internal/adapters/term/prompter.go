package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/relvane/botsessions/internal/ports"
)

// Prompter reads operator answers line by line from a single terminal. The
// mutex makes the one-outstanding-prompt constraint structural: a second
// caller blocks until the first prompt is answered, even if callers ever
// become concurrent.
type Prompter struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

var _ ports.Prompter = (*Prompter)(nil)

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Prompt writes the message and blocks until the operator answers with one
// line. ctx is only honored before the read starts: once the terminal read
// is in flight it cannot be abandoned without stealing the next line.
func (p *Prompter) Prompt(ctx context.Context, message string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, err := fmt.Fprintf(p.out, "%s\n> ", message); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && (line == "" || err != io.EOF) {
		return "", fmt.Errorf("read prompt answer: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
