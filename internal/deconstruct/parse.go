package deconstruct

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"flowlist/internal/tasktree"
)

const (
	// DefaultMaxSteps caps the steps kept per milestone.
	DefaultMaxSteps = 3
	// FlatStepsTitle names the milestone wrapping a flat step list.
	FlatStepsTitle = "Next steps"
)

// ErrUnparseable is returned when a response holds no usable milestones.
var ErrUnparseable = errors.New("could not parse response")

var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Milestone is one stage of a deconstructed task.
type Milestone struct {
	Title string `json:"title"`
	Why   string `json:"why"`
	Steps []Step `json:"steps"`
}

// Step is a single small action. It decodes from a plain string or from an
// object carrying "text", "step" or "title".
type Step string

func (s *Step) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = Step(text)
		return nil
	}
	var obj struct {
		Text  string `json:"text"`
		Step  string `json:"step"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = Step(firstNonEmpty(obj.Text, obj.Step, obj.Title))
	return nil
}

type response struct {
	Milestones []Milestone `json:"milestones"`
	Steps      []Step      `json:"steps"`
}

// ParseMilestones extracts the outermost JSON object from content. A flat
// "steps" list is wrapped in a single milestone titled FlatStepsTitle.
func ParseMilestones(content string) ([]Milestone, error) {
	span := objectPattern.FindString(content)
	if span == "" {
		return nil, ErrUnparseable
	}
	var parsed response
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	milestones := make([]Milestone, 0, len(parsed.Milestones))
	for _, m := range parsed.Milestones {
		m.Title = strings.TrimSpace(m.Title)
		m.Why = strings.TrimSpace(m.Why)
		m.Steps = cleanSteps(m.Steps)
		if m.Title == "" && len(m.Steps) == 0 {
			continue
		}
		if m.Title == "" {
			m.Title = FlatStepsTitle
		}
		milestones = append(milestones, m)
	}
	if len(milestones) == 0 {
		if steps := cleanSteps(parsed.Steps); len(steps) > 0 {
			milestones = append(milestones, Milestone{Title: FlatStepsTitle, Steps: steps})
		}
	}
	if len(milestones) == 0 {
		return nil, ErrUnparseable
	}
	return milestones, nil
}

func cleanSteps(steps []Step) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		if text := strings.TrimSpace(string(s)); text != "" {
			out = append(out, Step(text))
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// toNodes converts milestones into task nodes with at most maxSteps steps
// each. Non-positive maxSteps means DefaultMaxSteps.
func toNodes(milestones []Milestone, maxSteps int) []tasktree.Node {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	nodes := make([]tasktree.Node, 0, len(milestones))
	for _, m := range milestones {
		node := tasktree.NewNode(tasktree.MilestonePrefix + m.Title)
		node.Note = m.Why
		for i, step := range m.Steps {
			if i == maxSteps {
				break
			}
			node.Children = append(node.Children, tasktree.NewNode(string(step)))
		}
		nodes = append(nodes, node)
	}
	return nodes
}
