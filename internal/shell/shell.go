package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Action runs one menu entry. Returning an error prints it and keeps the
// shell running.
type Action func(ctx context.Context, s *Session) error

// Option is one numbered menu entry. A nil Action quits the shell.
type Option struct {
	Label  string
	Action Action
}

// Shell presents a numbered menu and dispatches to the chosen action
type Shell struct {
	title   string
	options []Option
	session *Session
}

func New(options []Option, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		title:   "Library Management",
		options: options,
		session: &Session{
			in:  bufio.NewReader(in),
			out: out,
		},
	}
}

// Run loops until a quit option is chosen, input ends, or ctx is canceled
func (sh *Shell) Run(ctx context.Context) error {
	sh.session.ctx = ctx

	for {
		sh.printMenu()
		choice, err := sh.session.readLine(ctx, "Choose an option: ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				fmt.Fprintln(sh.session.out, "\nGoodbye!")
				return nil
			}
			return err
		}

		n, ok := parseChoice(choice)
		if !ok || n < 1 || n > len(sh.options) {
			fmt.Fprintln(sh.session.out, "Invalid option.")
			continue
		}

		opt := sh.options[n-1]
		if opt.Action == nil {
			fmt.Fprintln(sh.session.out, "Goodbye!")
			return nil
		}

		slog.Debug("Running menu action", "option", n, "label", opt.Label)
		if err := opt.Action(ctx, sh.session); err != nil {
			fmt.Fprintf(sh.session.out, "Error: %v\n", err)
		}
	}
}

// parseChoice accepts only plain decimal digits, so signs and spaces are invalid
func parseChoice(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func (sh *Shell) printMenu() {
	fmt.Fprintf(sh.session.out, "\n%s\n", sh.title)
	for i, opt := range sh.options {
		fmt.Fprintf(sh.session.out, "%d. %s\n", i+1, opt.Label)
	}
}

// Session is the input and output an action works with
type Session struct {
	ctx context.Context
	in  *bufio.Reader
	out io.Writer
}

// Out is where actions print their results
func (s *Session) Out() io.Writer {
	return s.out
}

func (s *Session) Printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// Ask prints label and returns the trimmed reply. Closed input reads as "".
func (s *Session) Ask(label string) string {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	line, err := s.readLine(ctx, label)
	if err != nil {
		return ""
	}
	return line
}

// Require is Ask for a field that must not be empty
func (s *Session) Require(label, field string) (string, error) {
	v := s.Ask(label)
	if v == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	return v, nil
}

// readLine waits for a line of input or for ctx to be canceled
func (s *Session) readLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := s.in.ReadString('\n')
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		line := strings.TrimSpace(r.line)
		if r.err != nil {
			if errors.Is(r.err, io.EOF) && line != "" {
				return line, nil
			}
			return "", r.err
		}
		return line, nil
	}
}
