package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// ErrInputClosed is returned once the input stream is exhausted.
var ErrInputClosed = errors.New("input closed")

// Prompter reads answers line by line. Numeric and yes/no prompts repeat until
// the answer parses. A single goroutine owns the reader so a pending prompt
// can return as soon as its context is cancelled.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer

	start   sync.Once
	lines   chan string
	readErr error
}

// NewPrompter wraps in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out, lines: make(chan string)}
}

// Printf writes formatted text to the output.
func (p *Prompter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

// Println writes a line to the output.
func (p *Prompter) Println(args ...interface{}) {
	fmt.Fprintln(p.out, args...)
}

func (p *Prompter) read() {
	defer close(p.lines)
	for p.scanner.Scan() {
		p.lines <- p.scanner.Text()
	}
	if err := p.scanner.Err(); err != nil {
		p.readErr = fmt.Errorf("read input: %w", err)
		return
	}
	p.readErr = ErrInputClosed
}

// String asks once and returns the trimmed answer. It gives up with the
// context error when ctx is done before a line arrives.
func (p *Prompter) String(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.start.Do(func() { go p.read() })
	fmt.Fprint(p.out, label)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", p.readErr
		}
		return strings.TrimSpace(line), nil
	}
}

// StringDefault returns current when the answer is blank.
func (p *Prompter) StringDefault(ctx context.Context, label, current string) (string, error) {
	answer, err := p.String(ctx, fmt.Sprintf("%s [%s]: ", label, current))
	if err != nil || answer == "" {
		return current, err
	}
	return answer, nil
}

// Int asks until the answer is a whole number.
func (p *Prompter) Int(ctx context.Context, label string) (int, error) {
	for {
		answer, err := p.String(ctx, label)
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(answer); err == nil {
			return n, nil
		}
		p.Println("Invalid input. Please enter a valid number.")
	}
}

// IntDefault behaves like Int but keeps current on a blank answer.
func (p *Prompter) IntDefault(ctx context.Context, label string, current int) (int, error) {
	for {
		answer, err := p.String(ctx, fmt.Sprintf("%s [%d]: ", label, current))
		if err != nil {
			return current, err
		}
		if answer == "" {
			return current, nil
		}
		if n, err := strconv.Atoi(answer); err == nil {
			return n, nil
		}
		p.Println("Invalid input. Please enter a valid number.")
	}
}

// Float asks until the answer is a number.
func (p *Prompter) Float(ctx context.Context, label string) (float64, error) {
	for {
		answer, err := p.String(ctx, label)
		if err != nil {
			return 0, err
		}
		if f, err := strconv.ParseFloat(answer, 64); err == nil {
			return f, nil
		}
		p.Println("Invalid input. Please enter a valid number.")
	}
}

// YesNo asks until the answer is one of y, yes, true, n, no or false.
func (p *Prompter) YesNo(ctx context.Context, label string) (bool, error) {
	for {
		answer, err := p.String(ctx, label)
		if err != nil {
			return false, err
		}
		if v, ok := parseYesNo(answer); ok {
			return v, nil
		}
		p.Println("Please enter 'y' or 'n'.")
	}
}

func parseYesNo(raw string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true":
		return true, true
	case "n", "no", "false":
		return false, true
	default:
		return false, false
	}
}
