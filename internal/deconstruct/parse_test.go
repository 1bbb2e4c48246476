package deconstruct

import (
	"errors"
	"testing"

	"flowlist/internal/tasktree"
)

func TestParseMilestones(t *testing.T) {
	content := "Here is the plan:\n```json\n" + `{"milestones": [
		{"title": "Gather receipts", "why": "Deductions need proof", "steps": ["Open folder", {"text": "Photograph top five"}, " "]},
		{"title": " ", "why": "", "steps": []}
	]}` + "\n```\nGood luck!"

	got, err := ParseMilestones(content)
	if err != nil {
		t.Fatalf("ParseMilestones: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("milestones = %+v", got)
	}
	m := got[0]
	if m.Title != "Gather receipts" || m.Why != "Deductions need proof" {
		t.Fatalf("milestone = %+v", m)
	}
	if len(m.Steps) != 2 || m.Steps[1] != "Photograph top five" {
		t.Fatalf("steps = %q", m.Steps)
	}
}

func TestParseMilestonesFlatSteps(t *testing.T) {
	got, err := ParseMilestones(`{"steps": ["Open laptop", "Create file"]}`)
	if err != nil {
		t.Fatalf("ParseMilestones: %v", err)
	}
	if len(got) != 1 || got[0].Title != FlatStepsTitle || len(got[0].Steps) != 2 {
		t.Fatalf("milestones = %+v", got)
	}
}

func TestParseMilestonesUnparseable(t *testing.T) {
	for _, content := range []string{
		"no json here",
		`{"milestones": [{"title": "a",}]}`,
		`{"milestones": []}`,
		`{"other": 1}`,
	} {
		if _, err := ParseMilestones(content); !errors.Is(err, ErrUnparseable) {
			t.Fatalf("content %q: err = %v", content, err)
		}
	}
}

func TestToNodes(t *testing.T) {
	nodes := toNodes([]Milestone{
		{Title: "Prepare", Why: "Start small", Steps: []Step{"one", "two\nparts", "three", "four"}},
		{Title: "Ship", Steps: nil},
	}, 0)
	if len(nodes) != 2 {
		t.Fatalf("nodes = %d", len(nodes))
	}
	first := nodes[0]
	if first.Text != tasktree.MilestonePrefix+"Prepare" || !first.IsMilestone() || first.Note != "Start small" {
		t.Fatalf("milestone node = %+v", first)
	}
	if len(first.Children) != DefaultMaxSteps {
		t.Fatalf("steps kept = %d, want %d", len(first.Children), DefaultMaxSteps)
	}
	if first.Children[1].Text != "two parts" {
		t.Fatalf("step text kept line break: %q", first.Children[1].Text)
	}
	for _, step := range first.Children {
		if step.Completed || !step.IsLeaf() || step.ID == "" {
			t.Fatalf("step = %+v", step)
		}
	}
	if !nodes[1].IsLeaf() {
		t.Fatal("milestone without steps should be a leaf")
	}
}
