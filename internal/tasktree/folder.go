package tasktree

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// ErrEmptyText is returned when a task would be created without text.
var ErrEmptyText = errors.New("task text is empty")

// Folder is a named bucket of top-level tasks.
type Folder struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Tier      Tier   `json:"tier" yaml:"tier"`
	Tasks     []Node `json:"tasks" yaml:"tasks"`
	Completed bool   `json:"completed" yaml:"completed"`
	Expanded  bool   `json:"expanded" yaml:"expanded"`
}

// NewFolder returns an empty, unrated folder with a fresh ID.
func NewFolder(name string) Folder {
	return Folder{ID: uuid.NewString(), Name: strings.TrimSpace(name), Tasks: []Node{}}
}

// Clone returns a deep copy of the folder.
func (f Folder) Clone() Folder {
	f.Tasks = cloneNodes(f.Tasks)
	if f.Tasks == nil {
		f.Tasks = []Node{}
	}
	return f
}

// CloneAll deep-copies a folder collection.
func CloneAll(folders []Folder) []Folder {
	out := make([]Folder, len(folders))
	for i, f := range folders {
		out[i] = f.Clone()
	}
	return out
}

// NameKey returns the merge key for a folder name. Names that differ only in
// case or surrounding whitespace share a key.
func NameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// TextKey returns the dedup key for task text.
func TextKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// KnownTexts returns the dedup keys of every task text at every depth.
func KnownTexts(folders []Folder) map[string]struct{} {
	known := make(map[string]struct{})
	for _, f := range folders {
		Walk(f.Tasks, func(n Node, _ int) bool {
			if key := TextKey(n.Text); key != "" {
				known[key] = struct{}{}
			}
			return true
		})
	}
	return known
}

// Names returns folder names in collection order.
func Names(folders []Folder) []string {
	names := make([]string, 0, len(folders))
	for _, f := range folders {
		names = append(names, f.Name)
	}
	return names
}

// Progress returns the number of completed nodes and the total node count.
func (f Folder) Progress() (done, total int) {
	Walk(f.Tasks, func(n Node, _ int) bool {
		total++
		if n.Completed {
			done++
		}
		return true
	})
	return done, total
}

func allTopLevelDone(tasks []Node) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}
