// Package prompt asks yes/no questions and reads passwords on a plain
// line-oriented stream.
package prompt

//go:generate mockgen -source=prompt.go -destination=prompt_mock.go -package=prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

var (
	// ErrEmptyInput is returned when a required answer is empty.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidInput is returned for an answer that is not y or n.
	ErrInvalidInput = errors.New("invalid input")
)

// Prompter asks the user questions.
type Prompter interface {
	// Confirm asks a yes/no question. An empty answer picks defaultValue.
	Confirm(prompt string, defaultValue bool) (bool, error)

	// Secret reads a line without echoing it when reading a terminal.
	Secret(prompt string) (string, error)
}

// StdPrompter reads answers from a reader and writes prompts to a writer.
type StdPrompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

// NewStdPrompter prompts on stderr so stdout stays clean for reports.
func NewStdPrompter() *StdPrompter {
	return NewPrompter(os.Stdin, os.Stderr)
}

func NewPrompter(in io.Reader, out io.Writer) *StdPrompter {
	return &StdPrompter{in: in, reader: bufio.NewReader(in), out: out}
}

var answers = map[string]bool{"y": true, "yes": true, "n": false, "no": false}

func (p *StdPrompter) Confirm(prompt string, defaultValue bool) (bool, error) {
	hint := "y/N"
	if defaultValue {
		hint = "Y/n"
	}

	if err := p.ask(prompt + " [" + hint + "]"); err != nil {
		return false, err
	}

	line, err := p.readLine()
	if err != nil {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "" {
		return defaultValue, nil
	}

	yes, ok := answers[answer]
	if !ok {
		return false, errors.Wrapf(ErrInvalidInput, "expected y/n, got %q", answer)
	}

	return yes, nil
}

// Secret reads one line. On a terminal echo is disabled, otherwise the line
// is read as is so a password can be piped in. Only the trailing line break
// is removed.
func (p *StdPrompter) Secret(prompt string) (string, error) {
	if prompt != "" {
		if err := p.ask(prompt); err != nil {
			return "", err
		}
	}

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: fds are small
		data, err := term.ReadPassword(int(f.Fd())) //nolint:gosec // G115: fds are small
		_, _ = fmt.Fprintln(p.out)

		if err != nil {
			return "", errors.Wrap(err, "failed to read secret")
		}

		return string(data), nil
	}

	line, err := p.readLine()
	if err != nil {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (p *StdPrompter) ask(prompt string) error {
	_, err := fmt.Fprintf(p.out, "%s: ", prompt)

	return errors.Wrap(err, "failed to write prompt")
}

// readLine reads through the next newline. A final line without one is
// accepted; only an empty read at EOF is an error.
func (p *StdPrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Wrap(err, "failed to read input")
	}

	return line, nil
}
