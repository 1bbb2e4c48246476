package classify

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"flowlist/internal/services/llm"
)

// ErrUnparseable is returned when no assignments can be recovered from a
// response.
var ErrUnparseable = errors.New("the response could not be understood")

// Assignment places one task line in a bucket.
type Assignment struct {
	Text   string `json:"text"`
	Bucket string `json:"bucket"`
}

type response struct {
	Tasks []Assignment `json:"tasks"`
}

var pairPattern = regexp.MustCompile(`"text"\s*:\s*"((?:[^"\\]|\\.)*)"\s*,\s*"bucket"\s*:\s*"((?:[^"\\]|\\.)*)"`)

// ParseAssignments decodes a classification response. A well-formed object
// with no tasks yields an empty result, not an error.
func ParseAssignments(content string) ([]Assignment, error) {
	var parsed response
	decodeErr := llm.DecodeLLMJSON(content, &parsed)
	if decodeErr == nil {
		if tasks := normalize(parsed.Tasks); len(tasks) > 0 {
			return tasks, nil
		}
	}
	if salvaged := ExtractAssignments(content); len(salvaged) > 0 {
		return salvaged, nil
	}
	if decodeErr == nil {
		return []Assignment{}, nil
	}
	return nil, ErrUnparseable
}

// ExtractAssignments scans raw text for "text": "...", "bucket": "..." pairs.
func ExtractAssignments(raw string) []Assignment {
	matches := pairPattern.FindAllStringSubmatch(raw, -1)
	out := make([]Assignment, 0, len(matches))
	for _, m := range matches {
		out = append(out, Assignment{Text: unescape(m[1]), Bucket: unescape(m[2])})
	}
	return normalize(out)
}

func unescape(value string) string {
	if unquoted, err := strconv.Unquote(`"` + value + `"`); err == nil {
		return unquoted
	}
	return value
}

// normalize trims both fields and drops entries without text. A blank bucket
// is kept; the accumulator files it under the fallback folder.
func normalize(in []Assignment) []Assignment {
	out := make([]Assignment, 0, len(in))
	for _, a := range in {
		a.Text = strings.TrimSpace(a.Text)
		a.Bucket = strings.TrimSpace(a.Bucket)
		if a.Text == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}
