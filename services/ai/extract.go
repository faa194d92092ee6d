package aiService

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Structured-output extraction from free-form generative-text responses.
// The service is asked for strict JSON but routinely wraps it in prose or
// markdown fences, or emits raw control characters inside string values.
// Recovery proceeds through ordered repair tiers; when every tier fails the
// extractor returns nil, which callers treat as an ordinary retry signal.

var fencedBlockRegex = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ExtractObject recovers a JSON object from raw model text, or nil
func ExtractObject(raw string) map[string]interface{} {
	candidate := locateCandidate(raw, '{', '}')
	if candidate == "" {
		return nil
	}

	var parsed map[string]interface{}
	for _, attempt := range repairTiers(candidate) {
		if umErr := json.Unmarshal([]byte(attempt), &parsed); umErr == nil {
			return parsed
		}
	}

	return nil
}

// ExtractArray recovers a JSON array from raw model text, or nil
func ExtractArray(raw string) []interface{} {
	candidate := locateCandidate(raw, '[', ']')
	if candidate == "" {
		return nil
	}

	var parsed []interface{}
	for _, attempt := range repairTiers(candidate) {
		if umErr := json.Unmarshal([]byte(attempt), &parsed); umErr == nil {
			return parsed
		}
	}

	return nil
}

// locateCandidate takes the inner text of the first fenced code block when
// one exists, otherwise the greedy outer span between the first opening and
// the last closing bracket
func locateCandidate(raw string, open byte, close byte) string {
	if raw == "" {
		return ""
	}

	if match := fencedBlockRegex.FindStringSubmatch(raw); match != nil {
		return match[1]
	}

	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start == -1 || end == -1 || end < start {
		return ""
	}

	return raw[start : end+1]
}

// repairTiers yields the candidate in escalating stages of repair:
// control characters stripped, then bare newlines/tabs escaped, then all
// whitespace runs collapsed
func repairTiers(candidate string) []string {
	stripped := stripControlChars(candidate)
	return []string{
		stripped,
		escapeBareControls(stripped),
		collapseWhitespace(stripped),
	}
}

// stripControlChars removes raw control characters (below 0x20) except
// tab / newline / carriage return, which get their own repair stage
func stripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// escapeBareControls escapes newline / carriage-return / tab characters that
// are not already part of an escape sequence
func escapeBareControls(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	var prev byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\n':
			if prev == '\\' {
				out.WriteByte(c)
			} else {
				out.WriteString(`\n`)
			}
		case '\r':
			if prev == '\\' {
				out.WriteByte(c)
			} else {
				out.WriteString(`\r`)
			}
		case '\t':
			if prev == '\\' {
				out.WriteByte(c)
			} else {
				out.WriteString(`\t`)
			}
		default:
			out.WriteByte(c)
		}
		prev = c
	}

	return out.String()
}

// collapseWhitespace reduces every whitespace run to a single space
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
