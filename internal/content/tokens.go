package content

import "strings"

type tokenKind int

const (
	tokText     tokenKind = iota
	tokQuestion           // Q<digits>:
	tokAnswer             // A<digits>:
	tokOption             // [A-D])
	tokCorrect            // Correct:
)

// token is one non-empty, trimmed input line. body is the remainder after the
// line's label (trimmed); for tokText it is the whole line.
type token struct {
	kind  tokenKind
	label string // option letter for tokOption, upper-cased
	line  string
	body  string
}

// tokenize splits text into classified, non-empty trimmed lines, preserving order.
func tokenize(text string) []token {
	raw := strings.Split(text, "\n")
	out := make([]token, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, classify(l))
	}
	return out
}

func classify(line string) token {
	if body, ok := cutNumberedLabel(line, 'q'); ok {
		return token{kind: tokQuestion, line: line, body: body}
	}
	if body, ok := cutNumberedLabel(line, 'a'); ok {
		return token{kind: tokAnswer, line: line, body: body}
	}
	if label, body, ok := cutOptionLabel(line); ok {
		return token{kind: tokOption, label: label, line: line, body: body}
	}
	if body, ok := cutPrefixFold(line, "correct:"); ok {
		return token{kind: tokCorrect, line: line, body: body}
	}
	return token{kind: tokText, line: line, body: line}
}

// cutNumberedLabel matches `<letter><digits>:` case-insensitively.
func cutNumberedLabel(line string, letter byte) (string, bool) {
	if len(line) < 3 || lower(line[0]) != letter {
		return "", false
	}
	i := 1
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 1 || i >= len(line) || line[i] != ':' {
		return "", false
	}
	return strings.TrimSpace(line[i+1:]), true
}

// cutOptionLabel matches `[A-D])` case-insensitively.
func cutOptionLabel(line string) (string, string, bool) {
	if len(line) < 2 || line[1] != ')' {
		return "", "", false
	}
	c := lower(line[0])
	if c < 'a' || c > 'd' {
		return "", "", false
	}
	return string(c - 'a' + 'A'), strings.TrimSpace(line[2:]), true
}

func cutPrefixFold(line, prefix string) (string, bool) {
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(line[len(prefix):]), true
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
