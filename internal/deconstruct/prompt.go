package deconstruct

import (
	"fmt"
	"strings"
)

// SystemPrompt frames every deconstruction request.
const SystemPrompt = `You help people start tasks they keep putting off.

Break the task into 2 or 3 milestones. Each milestone has:

- "title": a short name for the milestone.

- "why": one sentence on why it matters.

- "steps": 2 or 3 concrete physical actions, each doable in under 3 minutes.

You must respond ONLY with a JSON object like: {"milestones": [{"title": "Gather receipts", "why": "Deductions need proof", "steps": ["Open the receipts folder", "Photograph the top five"]}]}`

// BuildUserPrompt renders the task and the folder it lives in.
func BuildUserPrompt(task, area string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", strings.TrimSpace(task))
	if area = strings.TrimSpace(area); area != "" {
		fmt.Fprintf(&b, "Area: %s\n", area)
	}
	return b.String()
}
