package classify

import (
	"fmt"
	"strings"
)

// SystemPrompt frames every classification request. Keep the JSON shape in
// sync with the response type decoded by ParseAssignments.
const SystemPrompt = `You sort a brain dump of to-do items into buckets.

Rules:

- Every input line becomes exactly one task. Keep the task text as written.

- Prefer an existing bucket whenever one fits, spelled exactly as listed.

- Only invent a new bucket when nothing fits. New bucket names are one or two words and describe an area of action (e.g. "Errands", "Health", "Side Project").

- Do not nest buckets and do not add commentary.

You must respond ONLY with a JSON object like: {"tasks": [{"text": "buy milk", "bucket": "Errands"}]}`

// BuildUserPrompt renders the batch and the known bucket names.
func BuildUserPrompt(lines, buckets []string) string {
	var b strings.Builder
	if len(buckets) == 0 {
		b.WriteString("Existing buckets: none yet.\n\n")
	} else {
		b.WriteString("Existing buckets:\n")
		for _, name := range buckets {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}
	b.WriteString("Tasks:\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}
