package tasktree

import "strings"

// Toggle sets the completion of the node with the given ID. When explicit is
// nil the current value is inverted. Completing a node completes every
// descendant; reopening it touches only the node itself, so descendants keep
// whatever the last cascade set. Ancestors are never updated. The folder's
// own Completed flag is then recomputed from its top-level tasks.
func Toggle(f Folder, nodeID string, explicit *bool) Folder {
	tasks, ok := updateNode(f.Tasks, nodeID, func(n Node) Node {
		value := !n.Completed
		if explicit != nil {
			value = *explicit
		}
		if value {
			return setCompleted(n, true)
		}
		n.Completed = false
		return n
	})
	if !ok {
		return f
	}
	f.Tasks = tasks
	f.Completed = allTopLevelDone(tasks)
	return f
}

// SetCompleted marks the whole folder done or not done. Marking it done
// completes every task at every depth; reopening it reopens the top-level
// tasks only.
func SetCompleted(f Folder, value bool) Folder {
	tasks := make([]Node, len(f.Tasks))
	for i, t := range f.Tasks {
		if value {
			tasks[i] = setCompleted(t, true)
			continue
		}
		t.Completed = false
		tasks[i] = t
	}
	f.Tasks = tasks
	f.Completed = value && len(tasks) > 0
	return f
}

// AttachChildren appends children to the node with the given ID. Existing
// children are kept.
func AttachChildren(f Folder, nodeID string, children []Node) Folder {
	if len(children) == 0 {
		return f
	}
	tasks, ok := updateNode(f.Tasks, nodeID, func(n Node) Node {
		merged := make([]Node, 0, len(n.Children)+len(children))
		merged = append(merged, n.Children...)
		merged = append(merged, cloneNodes(children)...)
		n.Children = merged
		return n
	})
	if !ok {
		return f
	}
	f.Tasks = tasks
	f.Completed = allTopLevelDone(tasks)
	return f
}

// AddSubtask appends a new leaf with the given text under the node.
func AddSubtask(f Folder, nodeID, text string) (Folder, error) {
	if strings.TrimSpace(text) == "" {
		return f, ErrEmptyText
	}
	return AttachChildren(f, nodeID, []Node{NewNode(text)}), nil
}

// AddTask appends a new top-level task to the folder.
func AddTask(f Folder, text string) (Folder, error) {
	if strings.TrimSpace(text) == "" {
		return f, ErrEmptyText
	}
	tasks := make([]Node, 0, len(f.Tasks)+1)
	tasks = append(tasks, f.Tasks...)
	tasks = append(tasks, NewNode(text))
	f.Tasks = tasks
	f.Completed = false
	return f, nil
}

// AppendTasks appends top-level tasks, keeping the existing ones.
func AppendTasks(f Folder, nodes ...Node) Folder {
	if len(nodes) == 0 {
		return f
	}
	tasks := make([]Node, 0, len(f.Tasks)+len(nodes))
	tasks = append(tasks, f.Tasks...)
	tasks = append(tasks, cloneNodes(nodes)...)
	f.Tasks = tasks
	f.Completed = allTopLevelDone(tasks)
	return f
}
