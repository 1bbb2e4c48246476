package tasktree

import (
	"errors"
	"testing"
)

func sampleFolder() Folder {
	f := NewFolder("Work")
	f.Tasks = []Node{
		{ID: "root", Text: "Ship release", Children: []Node{
			{ID: "m1", Text: MilestonePrefix + "Prepare", Children: []Node{
				{ID: "s1", Text: "Write changelog"},
				{ID: "s2", Text: "Tag build", Completed: true},
			}},
			{ID: "m2", Text: MilestonePrefix + "Announce", Children: []Node{
				{ID: "s3", Text: "Post update", Children: []Node{
					{ID: "d1", Text: "Draft post"},
				}},
			}},
		}},
		{ID: "other", Text: "Review PRs"},
	}
	return f
}

func allCompleted(nodes []Node) bool {
	ok := true
	Walk(nodes, func(n Node, _ int) bool {
		if !n.Completed {
			ok = false
			return false
		}
		return true
	})
	return ok
}

func TestToggleCascadesToEveryDescendant(t *testing.T) {
	f := sampleFolder()
	done := true
	got := Toggle(f, "root", &done)

	root, ok := Find(got.Tasks, "root")
	if !ok {
		t.Fatal("root not found after toggle")
	}
	if !root.Completed || !allCompleted(root.Children) {
		t.Fatalf("expected cascade to all descendants, got %+v", root)
	}
	if got.Completed {
		t.Fatal("folder should not be complete while another top-level task is open")
	}
}

func TestToggleBackLeavesDescendantsAlone(t *testing.T) {
	f := sampleFolder()
	done := true
	f = Toggle(f, "root", &done)

	undone := false
	f = Toggle(f, "root", &undone)
	root, _ := Find(f.Tasks, "root")
	if root.Completed {
		t.Fatal("expected root to be incomplete")
	}
	if !allCompleted(root.Children) {
		t.Fatalf("descendants must keep the value of the last cascade, got %+v", root.Children)
	}

	// Inverting without an explicit value behaves the same way.
	f = Toggle(f, "m2", nil)
	m2, _ := Find(f.Tasks, "m2")
	if m2.Completed || !allCompleted(m2.Children) {
		t.Fatalf("unexpected m2 state: %+v", m2)
	}
}

func TestToggleDoesNotMutateOriginal(t *testing.T) {
	f := sampleFolder()
	before := f.Clone()

	_ = Toggle(f, "d1", nil)

	leaf, _ := Find(f.Tasks, "d1")
	if leaf.Completed {
		t.Fatal("original snapshot was mutated")
	}
	if Count(f.Tasks) != Count(before.Tasks) {
		t.Fatal("original snapshot changed shape")
	}
}

func TestToggleInvertsWithoutExplicitValue(t *testing.T) {
	f := sampleFolder()
	f = Toggle(f, "s2", nil)
	node, _ := Find(f.Tasks, "s2")
	if node.Completed {
		t.Fatal("expected s2 to flip to incomplete")
	}
}

func TestToggleMissingIDIsNoop(t *testing.T) {
	f := sampleFolder()
	got := Toggle(f, "does-not-exist", nil)
	if Count(got.Tasks) != Count(f.Tasks) || got.Completed != f.Completed {
		t.Fatal("expected unchanged folder on identity miss")
	}
}

func TestFolderCompletionDerivedFromTopLevel(t *testing.T) {
	f := sampleFolder()
	done := true
	f = Toggle(f, "root", &done)
	f = Toggle(f, "other", &done)
	if !f.Completed {
		t.Fatal("expected folder complete when all top-level tasks are done")
	}
	f = Toggle(f, "other", nil)
	if f.Completed {
		t.Fatal("expected folder incomplete after reopening a top-level task")
	}
}

func TestSetCompletedCascades(t *testing.T) {
	f := SetCompleted(sampleFolder(), true)
	if !f.Completed || !allCompleted(f.Tasks) {
		t.Fatal("expected every task completed")
	}
	f = SetCompleted(f, false)
	if f.Completed {
		t.Fatal("expected folder reopened")
	}
	for _, task := range f.Tasks {
		if task.Completed {
			t.Fatalf("expected top-level task %q reopened", task.ID)
		}
		if !allCompleted(task.Children) {
			t.Fatal("reopening the folder must not touch nested tasks")
		}
	}
	empty := SetCompleted(NewFolder("Empty"), true)
	if empty.Completed {
		t.Fatal("an empty folder cannot be complete")
	}
}

func TestAttachChildrenAppends(t *testing.T) {
	f := sampleFolder()
	got := AttachChildren(f, "m1", []Node{NewNode("Email team")})

	m1, _ := Find(got.Tasks, "m1")
	if len(m1.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(m1.Children))
	}
	if m1.Children[0].ID != "s1" || m1.Children[2].Text != "Email team" {
		t.Fatalf("unexpected children order: %+v", m1.Children)
	}
	orig, _ := Find(f.Tasks, "m1")
	if len(orig.Children) != 2 {
		t.Fatal("original folder was mutated")
	}
}

func TestAddSubtaskRejectsBlank(t *testing.T) {
	f := sampleFolder()
	if _, err := AddSubtask(f, "other", "   "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	got, err := AddSubtask(f, "other", "  Check CI  ")
	if err != nil {
		t.Fatalf("AddSubtask: %v", err)
	}
	other, _ := Find(got.Tasks, "other")
	if len(other.Children) != 1 || other.Children[0].Text != "Check CI" {
		t.Fatalf("unexpected children: %+v", other.Children)
	}
	if other.Children[0].ID == "" || other.Children[0].Completed {
		t.Fatal("new subtask must be an open leaf with an ID")
	}
}

func TestAddTaskReopensFolder(t *testing.T) {
	f := SetCompleted(sampleFolder(), true)
	f, err := AddTask(f, "New thing")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if f.Completed {
		t.Fatal("adding an open task must reopen the folder")
	}
	if _, err := AddTask(f, ""); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestWalkIsPreOrder(t *testing.T) {
	var ids []string
	Walk(sampleFolder().Tasks, func(n Node, _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	want := []string{"root", "m1", "s1", "s2", "m2", "s3", "d1", "other"}
	if len(ids) != len(want) {
		t.Fatalf("got %v want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v want %v", ids, want)
		}
	}
}

func TestKnownTextsLowercasesEveryDepth(t *testing.T) {
	known := KnownTexts([]Folder{sampleFolder()})
	for _, key := range []string{"ship release", "draft post", "review prs"} {
		if _, ok := known[key]; !ok {
			t.Fatalf("missing %q in %v", key, known)
		}
	}
}

func TestNameKeyFoldsCase(t *testing.T) {
	if NameKey(" Health ") != NameKey("HEALTH") {
		t.Fatal("expected case-insensitive key")
	}
	if NameKey("Health") == NameKey("Healthcare") {
		t.Fatal("near-synonyms must stay distinct")
	}
}

func TestResolveID(t *testing.T) {
	a := Node{ID: "abc123", Text: "a"}
	b := Node{ID: "abd456", Text: "b", Children: []Node{{ID: "xyz", Text: "c"}}}
	nodes := []Node{a, b}

	if n, ok := ResolveID(nodes, "xy"); !ok || n.Text != "c" {
		t.Fatalf("prefix lookup = %+v, %v", n, ok)
	}
	if n, ok := ResolveID(nodes, "abd456"); !ok || n.Text != "b" {
		t.Fatalf("exact lookup = %+v, %v", n, ok)
	}
	if _, ok := ResolveID(nodes, "ab"); ok {
		t.Fatal("ambiguous prefix resolved")
	}
	if _, ok := ResolveID(nodes, " "); ok {
		t.Fatal("blank ref resolved")
	}
}
