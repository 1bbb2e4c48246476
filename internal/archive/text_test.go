package archive

import (
	"strings"
	"testing"

	"flowlist/internal/tasktree"
)

type shape struct {
	Text      string
	Completed bool
	Children  []shape
}

func shapeOf(nodes []tasktree.Node) []shape {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]shape, len(nodes))
	for i, n := range nodes {
		out[i] = shape{Text: n.Text, Completed: n.Completed, Children: shapeOf(n.Children)}
	}
	return out
}

func equalShapes(a, b []shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Text != b[i].Text || a[i].Completed != b[i].Completed {
			return false
		}
		if !equalShapes(a[i].Children, b[i].Children) {
			return false
		}
	}
	return true
}

func TestFormatTasks(t *testing.T) {
	root := tasktree.NewNode("write report")
	child := tasktree.NewNode("outline")
	child.Completed = true
	root.Children = []tasktree.Node{child, tasktree.NewNode("draft")}

	got := FormatTasks([]tasktree.Node{root, tasktree.NewNode("call mom")})
	want := "[ ] write report\n  [x] outline\n  [ ] draft\n[ ] call mom\n"
	if got != want {
		t.Fatalf("FormatTasks = %q, want %q", got, want)
	}
}

func TestParseTasksIndentation(t *testing.T) {
	text := strings.Join([]string{
		"- [ ] plan trip",
		"  - [x] book flights",
		"    * [ ] pick seats",
		"  - [X] book hotel",
		"",
		"\t[ ] pack",
		"[ ]   ",
		"loose line",
	}, "\n")

	got := shapeOf(ParseTasks(text))
	want := []shape{
		{Text: "plan trip", Children: []shape{
			{Text: "book flights", Completed: true, Children: []shape{{Text: "pick seats"}}},
			{Text: "book hotel", Completed: true},
			{Text: "pack"},
		}},
		{Text: "loose line"},
	}
	if !equalShapes(got, want) {
		t.Fatalf("ParseTasks shape = %+v, want %+v", got, want)
	}
}

func TestParseTasksAttachesToNearestShallowerLine(t *testing.T) {
	text := "[ ] a\n      [ ] deep\n  [ ] mid\n"
	got := shapeOf(ParseTasks(text))
	want := []shape{{Text: "a", Children: []shape{{Text: "deep"}, {Text: "mid"}}}}
	if !equalShapes(got, want) {
		t.Fatalf("ParseTasks shape = %+v, want %+v", got, want)
	}
}

func TestParseTasksAssignsFreshIDs(t *testing.T) {
	nodes := ParseTasks("[ ] one\n  [ ] two\n")
	if nodes[0].ID == "" || nodes[0].Children[0].ID == "" {
		t.Fatalf("expected ids on parsed nodes: %+v", nodes)
	}
	if nodes[0].ID == nodes[0].Children[0].ID {
		t.Fatal("expected distinct ids")
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	build := func(prefix string, depth int) tasktree.Node {
		var rec func(level int) tasktree.Node
		rec = func(level int) tasktree.Node {
			n := tasktree.NewNode(prefix + " level " + string(rune('0'+level)))
			n.Completed = level%2 == 1
			if level < depth {
				n.Children = []tasktree.Node{rec(level + 1), tasktree.NewNode(prefix + " sibling")}
			}
			return n
		}
		return rec(0)
	}

	original := []tasktree.Node{build("alpha", 5), build("beta", 2), tasktree.NewNode(tasktree.MilestonePrefix + "ship it")}
	parsed := ParseTasks(FormatTasks(original))
	if !equalShapes(shapeOf(parsed), shapeOf(original)) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", shapeOf(parsed), shapeOf(original))
	}
}

func TestParseTasksKeepsLinesAfterVeryLongLine(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	nodes := ParseTasks("[ ] first\n[ ] " + long + "\n[ ] third\n")
	if len(nodes) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(nodes))
	}
	if len(nodes[1].Text) != len(long) || nodes[2].Text != "third" {
		t.Fatalf("unexpected tasks around long line: len=%d third=%q", len(nodes[1].Text), nodes[2].Text)
	}
}

func TestFormatTasksFlattensLineBreaks(t *testing.T) {
	step := tasktree.Node{ID: "n1", Text: "open the drawer\nfind the charger\r\nplug it in"}
	parent := tasktree.Node{ID: "p1", Text: "charge phone", Children: []tasktree.Node{step}}

	out := FormatTasks([]tasktree.Node{parent})
	want := "[ ] charge phone\n  [ ] open the drawer find the charger plug it in\n"
	if out != want {
		t.Fatalf("FormatTasks = %q, want %q", out, want)
	}

	back := ParseTasks(out)
	if len(back) != 1 || len(back[0].Children) != 1 {
		t.Fatalf("round trip changed shape: %+v", back)
	}
	if back[0].Children[0].Text != "open the drawer find the charger plug it in" {
		t.Fatalf("unexpected step text %q", back[0].Children[0].Text)
	}
}
