package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"flowlist/internal/tasktree"
)

func folder(name string, tier tasktree.Tier, texts ...string) tasktree.Folder {
	f := tasktree.NewFolder(name)
	f.Tier = tier
	for _, text := range texts {
		f.Tasks = append(f.Tasks, tasktree.NewNode(text))
	}
	return f
}

func entryNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestWriteLayout(t *testing.T) {
	folders := []tasktree.Folder{
		folder("Errands", tasktree.TierUnrated, "buy milk"),
		folder("Work: Q3", tasktree.TierS, "report", "email"),
		folder("Health", tasktree.TierB, "run"),
	}
	var buf bytes.Buffer
	if err := Write(&buf, folders, WriteOptions{IncludeCounts: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := entryNames(t, buf.Bytes())
	want := []string{"S/Work- Q3 (2).txt", "B/Health (1).txt", "Unsorted/Errands (1).txt"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}
}

func TestWriteDisambiguatesCollidingNames(t *testing.T) {
	folders := []tasktree.Folder{
		folder("a/b", tasktree.TierUnrated, "x"),
		folder("a:b", tasktree.TierUnrated, "y"),
	}
	var buf bytes.Buffer
	if err := Write(&buf, folders, WriteOptions{UnsortedDir: "Inbox"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := entryNames(t, buf.Bytes())
	if len(got) != 2 || got[0] != "Inbox/a-b.txt" || got[1] != "Inbox/a-b-2.txt" {
		t.Fatalf("entries = %v", got)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	work := folder("Work", tasktree.TierA, "report")
	work.Tasks[0].Children = []tasktree.Node{tasktree.NewNode("outline")}
	work.Tasks[0].Children[0].Completed = true
	folders := []tasktree.Folder{work, folder("Someday", tasktree.TierUnrated, "learn piano")}

	var buf bytes.Buffer
	if err := Write(&buf, folders, WriteOptions{IncludeCounts: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()), ReadOptions{Ignore: DefaultIgnore})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("folders = %d, want 2", len(got))
	}
	if got[0].Name != "Work" || got[0].Tier != tasktree.TierA {
		t.Fatalf("first folder = %s/%s", got[0].Name, got[0].Tier)
	}
	if !equalShapes(shapeOf(got[0].Tasks), shapeOf(work.Tasks)) {
		t.Fatalf("work tasks = %+v", shapeOf(got[0].Tasks))
	}
	if got[1].Name != "Someday" || got[1].Tier != tasktree.TierUnrated {
		t.Fatalf("second folder = %s/%s", got[1].Name, got[1].Tier)
	}
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := io.WriteString(w, entries[name]); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestReadHandAssembledArchive(t *testing.T) {
	data := buildZip(t, map[string]string{
		"export/S/Work (3).txt":       "- [ ] report\n",
		"export/Unsorted/work.md":     "- [x] expenses\n",
		"[c] Garden.txt":              "[ ] weed\n",
		"__MACOSX/S/._Work (3).txt":   "junk",
		"export/.DS_Store":            "junk",
		"export/B/notes.pdf":          "binary",
		"export/B/._Hidden.txt":       "junk",
		"export/Priority/Reading.txt": "[ ] novel\n",
	})

	got, err := Read(bytes.NewReader(data), int64(len(data)), ReadOptions{Ignore: DefaultIgnore})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	byName := make(map[string]tasktree.Folder, len(got))
	for _, f := range got {
		byName[f.Name] = f
	}
	if len(byName) != 3 {
		t.Fatalf("folders = %v", tasktree.Names(got))
	}
	garden, ok := byName["Garden"]
	if !ok || garden.Tier != tasktree.TierC {
		t.Fatalf("garden = %+v", garden)
	}
	reading, ok := byName["Reading"]
	if !ok || reading.Tier != tasktree.TierA {
		t.Fatalf("reading = %+v", reading)
	}
	work, ok := byName["Work"]
	if !ok {
		t.Fatalf("work folder missing from %v", tasktree.Names(got))
	}
	if work.Tier != tasktree.TierS {
		t.Fatalf("work tier = %s, want S", work.Tier)
	}
	if len(work.Tasks) != 2 || !work.Tasks[1].Completed {
		t.Fatalf("work tasks = %+v", shapeOf(work.Tasks))
	}
}

func TestReadRejectsNonZip(t *testing.T) {
	data := []byte("not a zip")
	if _, err := Read(bytes.NewReader(data), int64(len(data)), ReadOptions{}); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestCountFromName(t *testing.T) {
	if n, ok := countFromName("S/Work (12).txt"); !ok || n != 12 {
		t.Fatalf("countFromName = %d, %v", n, ok)
	}
	if _, ok := countFromName("S/Work.txt"); ok {
		t.Fatal("expected no count")
	}
}

func TestReadWarnsOnCountMismatch(t *testing.T) {
	data := buildZip(t, map[string]string{
		"S/Work (3).txt": "[ ] report\n[ ] email\n",
		"A/Home (1).txt": "[ ] dishes\n",
	})
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	folders, err := Read(bytes.NewReader(data), int64(len(data)), ReadOptions{Logger: logger})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("expected 2 folders, got %d", len(folders))
	}
	out := logs.String()
	if strings.Count(out, "archive entry count mismatch") != 1 {
		t.Fatalf("expected one mismatch warning, got %q", out)
	}
	if !strings.Contains(out, `"entry":"S/Work (3).txt"`) || !strings.Contains(out, `"parsed":2`) {
		t.Fatalf("warning missing entry details: %q", out)
	}
}
