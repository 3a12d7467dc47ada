package helpers

import (
	"errors"
	"strings"
)

// ExtractJSON returns the first balanced JSON object or array in s. Model
// output wrapped in a fenced code block or surrounded by prose is accepted.
func ExtractJSON(s string) (string, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "\uFEFF")
	if inner, ok := unfence(s); ok {
		s = strings.TrimSpace(inner)
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}
		if end := balancedEnd(s, i); end > 0 {
			return s[i:end], nil
		}
	}
	return "", errors.New("no balanced JSON object/array found")
}

// unfence strips a leading ``` or ~~~ block, with or without a language tag.
func unfence(s string) (string, bool) {
	for _, fence := range []string{"```", "~~~"} {
		if !strings.HasPrefix(s, fence) {
			continue
		}
		rest := s[len(fence):]
		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			return "", false
		}
		rest = rest[nl+1:]
		if end := strings.Index(rest, fence); end >= 0 {
			return rest[:end], true
		}
		return rest, true
	}
	return "", false
}

// balancedEnd returns the index just past the value opened at s[start], or -1.
func balancedEnd(s string, start int) int {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				return -1
			}
			open := stack[len(stack)-1]
			if (open == '{' && c != '}') || (open == '[' && c != ']') {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1
			}
		}
	}
	return -1
}
