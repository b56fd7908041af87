package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded value after extraction.
type SchemaValidator[T any] func(T) error

// ExtractJSON pulls the first JSON object out of model output and decodes
// it into T. Markdown fences, surrounding prose, comments, trailing commas
// and bare leading-decimal numbers (".5") are tolerated.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	doc, ok := scanObject(fencedBody(raw))
	if !ok {
		doc, ok = scanObject(raw)
	}
	if !ok {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(doc), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// fencedBody returns the contents of the first ``` fence, or "" if there is
// none. An info string such as "json" on the opening line is dropped.
func fencedBody(s string) string {
	_, after, found := strings.Cut(s, "```")
	if !found {
		return ""
	}
	if nl := strings.IndexByte(after, '\n'); nl >= 0 && !strings.ContainsAny(after[:nl], "{[") {
		after = after[nl+1:]
	}
	body, _, _ := strings.Cut(after, "```")
	return body
}

// scanObject copies the first balanced {...} block out of s, cleaning it
// up on the way so encoding/json accepts it.
func scanObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	var (
		out          strings.Builder
		depth        int
		inString     bool
		escaped      bool
		pendingComma bool
		prev         byte // last significant byte written
	)
	out.Grow(len(s) - start)

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			out.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				prev = c
			}
			continue
		}

		// comments
		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				for i+1 < len(s) && s[i+1] != '\n' {
					i++
				}
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end < 0 {
					return "", false
				}
				i += end + 3
				continue
			}
		}

		if isSpace(c) {
			if !pendingComma {
				out.WriteByte(c)
			}
			continue
		}

		if c == ',' {
			pendingComma = true
			continue
		}
		if pendingComma {
			pendingComma = false
			if c != '}' && c != ']' {
				out.WriteByte(',')
				prev = ','
			}
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case '.':
			if i+1 < len(s) && isDigit(s[i+1]) && startsNumber(prev) {
				out.WriteByte('0')
			}
		}
		out.WriteByte(c)
		prev = c

		if depth == 0 {
			return out.String(), true
		}
	}
	return "", false
}

// startsNumber reports whether a number may begin right after b.
func startsNumber(b byte) bool {
	switch b {
	case ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
