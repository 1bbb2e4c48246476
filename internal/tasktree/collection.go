package tasktree

import "strings"

// FallbackFolderName receives tasks whose bucket name is blank.
const FallbackFolderName = "Unsorted"

// Collection is an ordered set of folders keyed by NameKey. Adding tasks to a
// name that already exists appends to that folder; it never creates a second
// one. A Collection is not safe for concurrent use.
type Collection struct {
	folders []Folder
	index   map[string]int
}

// NewCollection seeds a collection with deep copies of folders. Seed folders
// whose names collide are merged into the first.
func NewCollection(seed []Folder) *Collection {
	c := &Collection{index: make(map[string]int, len(seed))}
	for _, f := range seed {
		c.Merge(f)
	}
	return c
}

// Add appends nodes to the folder called bucket, creating it when the name
// is new. It reports whether a folder was created.
func (c *Collection) Add(bucket string, nodes ...Node) bool {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		bucket = FallbackFolderName
	}
	key := NameKey(bucket)
	if idx, ok := c.index[key]; ok {
		c.folders[idx] = AppendTasks(c.folders[idx], nodes...)
		return false
	}
	f := AppendTasks(NewFolder(bucket), nodes...)
	c.index[key] = len(c.folders)
	c.folders = append(c.folders, f)
	return true
}

// Merge folds a whole folder in by name. An existing folder keeps its ID,
// name and flags, gains the incoming tasks, and adopts the incoming tier only
// while it is unrated.
func (c *Collection) Merge(f Folder) bool {
	key := NameKey(f.Name)
	if idx, ok := c.index[key]; ok {
		existing := AppendTasks(c.folders[idx], f.Tasks...)
		if !existing.Tier.Rated() {
			existing.Tier = f.Tier
		}
		c.folders[idx] = existing
		return false
	}
	clone := f.Clone()
	if clone.ID == "" {
		clone.ID = NewFolder(clone.Name).ID
	}
	c.index[key] = len(c.folders)
	c.folders = append(c.folders, clone)
	return true
}

// Has reports whether a folder with an equivalent name exists.
func (c *Collection) Has(name string) bool {
	_, ok := c.index[NameKey(name)]
	return ok
}

// Len returns the number of folders.
func (c *Collection) Len() int {
	return len(c.folders)
}

// Names returns folder names in insertion order.
func (c *Collection) Names() []string {
	return Names(c.folders)
}

// Folders returns a deep copy of the folders in insertion order.
func (c *Collection) Folders() []Folder {
	return CloneAll(c.folders)
}
