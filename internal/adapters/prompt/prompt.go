package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/bnema/nmoo-cli/internal/ports"
)

// Line asks questions on a line-oriented terminal.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

var _ ports.Prompter = (*Line)(nil)

func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

// Confirm defaults to no; EOF counts as no.
func (l *Line) Confirm(prompt string) bool {
	_, _ = fmt.Fprintf(l.out, "%s [y/N] ", prompt)

	answer, err := l.readLine()
	if err != nil {
		_, _ = fmt.Fprintln(l.out)
		return false
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// PickVerb reads a verb name or its index in verbs. An empty answer or EOF
// ends the session.
func (l *Line) PickVerb(verbs []domain.VerbID) (domain.VerbID, error) {
	_, _ = fmt.Fprint(l.out, "verb (name or number, empty to quit)> ")

	answer, err := l.readLine()
	if err != nil {
		if err == io.EOF {
			_, _ = fmt.Fprintln(l.out)
			return "", nil
		}
		return "", fmt.Errorf("read verb choice: %w", err)
	}
	if answer == "" {
		return "", nil
	}

	if index, convErr := strconv.Atoi(answer); convErr == nil {
		if index < 1 || index > len(verbs) {
			return "", fmt.Errorf("%w: no verb number %d", domain.ErrVerbNotFound, index)
		}
		return verbs[index-1], nil
	}

	return domain.VerbID(answer), nil
}

func (l *Line) readLine() (string, error) {
	line, err := l.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
