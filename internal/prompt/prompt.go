// Package prompt asks the user for confirmation on interactive commands.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidInput is returned when the answer is not yes or no.
var ErrInvalidInput = errors.New("invalid input")

// Confirmer asks yes/no questions.
type Confirmer interface {
	Confirm(prompt string, defaultValue bool) (bool, error)
}

// Prompter reads answers from a reader and writes prompts to a writer.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// New creates a Prompter.
func New(reader io.Reader, writer io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// Confirm prompts for a yes/no answer. An empty answer or EOF returns
// defaultValue.
func (p *Prompter) Confirm(prompt string, defaultValue bool) (bool, error) {
	choices := "y/N"
	if defaultValue {
		choices = "Y/n"
	}

	if _, err := fmt.Fprintf(p.writer, "%s [%s]: ", prompt, choices); err != nil {
		return false, errors.Wrap(err, "failed to write prompt")
	}

	input, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, errors.Wrap(err, "failed to read input")
	}

	switch strings.TrimSpace(strings.ToLower(input)) {
	case "":
		return defaultValue, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, errors.Wrapf(ErrInvalidInput, "expected y/n, got %q", strings.TrimSpace(input))
	}
}

// AlwaysYes confirms everything. It stands in for a Prompter when the
// session is not interactive or the user passed --yes.
type AlwaysYes struct{}

func (AlwaysYes) Confirm(string, bool) (bool, error) { return true, nil }
