package archive

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"flowlist/internal/tasktree"
)

// PlaceholderTask fills every folder of a skeleton archive.
const PlaceholderTask = "Placeholder task"

// Structure maps tiers to folder names. It is the YAML shape read by
// LoadStructure:
//
//	S: [Work, Health]
//	B:
//	  - Errands
type Structure map[tasktree.Tier][]string

// LoadStructure decodes a tier structure document. Keys are any value
// ParseTier accepts; blank names are dropped.
func LoadStructure(r io.Reader) (Structure, error) {
	var raw map[string][]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return Structure{}, nil
		}
		return nil, fmt.Errorf("decode structure: %w", err)
	}
	structure := make(Structure, len(raw))
	for key, names := range raw {
		tier, err := tasktree.ParseTier(key)
		if err != nil {
			return nil, fmt.Errorf("structure key: %w", err)
		}
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				structure[tier] = append(structure[tier], name)
			}
		}
	}
	return structure, nil
}

// StructureOf captures the tier layout of existing folders.
func StructureOf(folders []tasktree.Folder) Structure {
	structure := make(Structure)
	for _, f := range folders {
		structure[f.Tier] = append(structure[f.Tier], f.Name)
	}
	return structure
}

// Folders expands the structure into folders holding one placeholder task
// each, in tier order with unrated last. Names within a tier are sorted.
func (s Structure) Folders() []tasktree.Folder {
	order := append(append([]tasktree.Tier(nil), tasktree.Tiers...), tasktree.TierUnrated)
	collection := tasktree.NewCollection(nil)
	for _, tier := range order {
		names := append([]string(nil), s[tier]...)
		sort.Strings(names)
		for _, name := range names {
			f := tasktree.NewFolder(name)
			f.Tier = tier
			f.Tasks = []tasktree.Node{tasktree.NewNode(PlaceholderTask)}
			collection.Merge(f)
		}
	}
	return collection.Folders()
}

// WriteSkeleton writes an archive with the structure's folders, each holding
// a single placeholder task.
func WriteSkeleton(w io.Writer, s Structure, opts WriteOptions) error {
	return Write(w, s.Folders(), opts)
}
