package archive

import (
	"strings"

	"flowlist/internal/tasktree"
)

const indentUnit = "  "

// FormatTasks renders nodes as checkbox lines, two spaces per depth level.
func FormatTasks(nodes []tasktree.Node) string {
	var b strings.Builder
	tasktree.Walk(nodes, func(n tasktree.Node, depth int) bool {
		b.WriteString(strings.Repeat(indentUnit, depth))
		if n.Completed {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
		b.WriteString(tasktree.OneLine(n.Text))
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

type draft struct {
	node     tasktree.Node
	children []*draft
}

func (d *draft) build() tasktree.Node {
	n := d.node
	if len(d.children) == 0 {
		return n
	}
	n.Children = make([]tasktree.Node, 0, len(d.children))
	for _, child := range d.children {
		n.Children = append(n.Children, child.build())
	}
	return n
}

type stackEntry struct {
	level int
	d     *draft
}

// ParseTasks reads checkbox lines back into a tree. The indentation level of
// a line is its leading whitespace width divided by two (a tab counts as two
// columns). A line attaches to the nearest preceding line with a smaller
// level; with none it becomes top-level. Every node gets a fresh ID.
func ParseTasks(text string) []tasktree.Node {
	var roots []*draft
	var stack []stackEntry

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		level := indentWidth(line) / 2
		taskText, completed := parseLine(line)
		if taskText == "" {
			continue
		}

		d := &draft{node: tasktree.NewNode(taskText)}
		d.node.Completed = completed

		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, d)
		} else {
			parent := stack[len(stack)-1].d
			parent.children = append(parent.children, d)
		}
		stack = append(stack, stackEntry{level: level, d: d})
	}

	nodes := make([]tasktree.Node, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, root.build())
	}
	return nodes
}

func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 2
		default:
			return width
		}
	}
	return width
}

// parseLine strips indentation, an optional "- " or "* " bullet, and the
// checkbox token. A line is completed when it contains "[x]" in either case.
func parseLine(line string) (string, bool) {
	completed := strings.Contains(line, "[x]") || strings.Contains(line, "[X]")
	text := strings.TrimLeft(line, " \t")
	for _, bullet := range []string{"- ", "* "} {
		if strings.HasPrefix(text, bullet) {
			text = text[len(bullet):]
			break
		}
	}
	for _, box := range []string{"[ ]", "[x]", "[X]"} {
		if strings.HasPrefix(text, box) {
			text = text[len(box):]
			break
		}
	}
	return strings.TrimSpace(text), completed
}
