package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RepairJSON applies the fixes needed for the malformed objects models
// commonly emit, in order:
//
//  1. slice from the first '{' to the last '}' (drops surrounding prose and code fences)
//  2. remove commas that directly precede ']' or '}'
//  3. quote bare object keys (key: -> "key":)
//
// Rules 2 and 3 only apply outside string literals. It is not a JSON5
// parser; text without braces is returned trimmed.
func RepairJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return trimmed
	}
	return repairStructure(trimmed[start : end+1])
}

func repairStructure(src string) string {
	var out strings.Builder
	out.Grow(len(src) + 16)
	inString := false
	escaped := false
	// lastSignificant is the last non-space byte written outside a string.
	var lastSignificant byte

	for i := 0; i < len(src); i++ {
		ch := src[i]
		if inString {
			out.WriteByte(ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
				lastSignificant = '"'
			}
			continue
		}

		switch {
		case ch == '"':
			inString = true
			out.WriteByte(ch)
		case ch == ',':
			if next := nextSignificant(src, i+1); next == ']' || next == '}' {
				continue
			}
			out.WriteByte(ch)
			lastSignificant = ch
		case isKeyStart(ch) && (lastSignificant == '{' || lastSignificant == ','):
			j := i
			for j < len(src) && isKeyPart(src[j]) {
				j++
			}
			if nextSignificant(src, j) == ':' {
				out.WriteByte('"')
				out.WriteString(src[i:j])
				out.WriteByte('"')
			} else {
				out.WriteString(src[i:j])
			}
			lastSignificant = src[j-1]
			i = j - 1
		default:
			out.WriteByte(ch)
			if !isSpace(ch) {
				lastSignificant = ch
			}
		}
	}
	return out.String()
}

func nextSignificant(src string, from int) byte {
	for i := from; i < len(src); i++ {
		if !isSpace(src[i]) {
			return src[i]
		}
	}
	return 0
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isKeyStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isKeyPart(ch byte) bool {
	return isKeyStart(ch) || (ch >= '0' && ch <= '9')
}

// DecodeLLMJSON decodes JSON from a model response. It tries the payload as
// is, then the code-fence stripped payload, then RepairJSON's output.
func DecodeLLMJSON(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}

	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return nil
	}

	candidates := []string{stripCodeFenceBlock(trimmed), RepairJSON(trimmed)}
	tried := map[string]struct{}{trimmed: {}}
	lastErr := directErr
	lastPayload := trimmed
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if _, ok := tried[candidate]; ok {
			continue
		}
		tried[candidate] = struct{}{}
		err := json.Unmarshal([]byte(candidate), target)
		if err == nil {
			return nil
		}
		lastErr = err
		lastPayload = candidate
	}
	return fmt.Errorf("%w (payload snippet: %s)", lastErr, summarizePayloadSnippet(lastPayload))
}

func stripCodeFenceBlock(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
		body = strings.TrimLeft(body, " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

// SummarizePayload collapses whitespace and truncates content for log lines
// and error messages.
func SummarizePayload(content string) string {
	return summarizePayloadSnippet(content)
}

func summarizePayloadSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
