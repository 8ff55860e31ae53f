package cli

import (
	"strings"
)

// multiLineTerminator ends multi-line input when it appears alone on a line,
// or terminates a single line of input when it appears as a suffix.
const multiLineTerminator = "###"

// controlWord returns the control command carried by a first input line, or
// the empty string for ordinary text. Control words are recognized only as
// the entirety of the first line.
func controlWord(firstLine string) string {
	switch strings.ToLower(strings.TrimSpace(firstLine)) {
	case "exit":
		return "exit"
	case "save":
		return "save"
	case "clear":
		return "clear"
	case "model":
		return "model"
	}
	return ""
}

// assembleInput builds the full user input from the first line, reading
// further lines through readLine until the terminator when the first line
// does not terminate itself.
func assembleInput(firstLine string, readLine func() (string, error)) (string, error) {
	if rest, ok := strings.CutSuffix(firstLine, multiLineTerminator); ok {
		return strings.TrimSpace(rest), nil
	}

	lines := []string{firstLine}
	for {
		line, err := readLine()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == multiLineTerminator {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
