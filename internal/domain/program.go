package domain

import "strings"

const ProgramTerminator = "."

// ProgramLines is the upload sequence the world server expects for a verb:
// "@program <verb>", the source lines, then a lone ".".
func ProgramLines(verb string, text string) ([]string, error) {
	verb = strings.TrimSpace(verb)
	if verb == "" {
		return nil, ErrMissingVerbName
	}

	source := strings.Split(strings.TrimSpace(text), "\n")

	lines := make([]string, 0, len(source)+2)
	lines = append(lines, "@program "+verb)
	lines = append(lines, source...)
	lines = append(lines, ProgramTerminator)

	return lines, nil
}

// ListCommand asks the server to print a verb inside a code block.
func ListCommand(verb string) string {
	return "@list " + verb + " tags"
}

func LoginCommand(name, pass string) string {
	return "connect " + name + " " + pass
}
