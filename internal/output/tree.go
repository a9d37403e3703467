package output

import (
	"path"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// statusColumn is where file statuses start in a rendered tree.
	statusColumn = 36
)

// FileEntry is one generated file shown in a tree.
type FileEntry struct {
	// Path is slash-separated and relative to the tree root.
	Path string

	// Status is one of the Status* constants (may be empty).
	Status string
}

type treeNode struct {
	name     string
	status   string
	isDir    bool
	children []*treeNode
}

// RenderFileTree renders the entries below root as a tree with statuses
// aligned in one column. Directories sort before files.
func RenderFileTree(root string, entries []FileEntry) string {
	if len(entries) == 0 {
		return ""
	}

	top := &treeNode{name: root, isDir: true}
	for _, e := range entries {
		parts := strings.Split(path.Clean(e.Path), "/")
		current := top
		for i, part := range parts {
			last := i == len(parts)-1
			child := current.child(part)
			if child == nil {
				child = &treeNode{name: part, isDir: !last}
				current.children = append(current.children, child)
			}
			if last {
				child.status = e.Status
			}
			current = child
		}
	}
	top.sort()

	var sb strings.Builder
	sb.WriteString(StyleSummary.Render(strings.TrimSuffix(root, "/") + "/"))
	sb.WriteString("\n")
	for i, c := range top.children {
		c.render(&sb, "", i == len(top.children)-1)
	}
	return sb.String()
}

func (n *treeNode) child(name string) *treeNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (n *treeNode) sort() {
	sort.Slice(n.children, func(i, j int) bool {
		if n.children[i].isDir != n.children[j].isDir {
			return n.children[i].isDir
		}
		return n.children[i].name < n.children[j].name
	})
	for _, c := range n.children {
		c.sort()
	}
}

func (n *treeNode) render(sb *strings.Builder, prefix string, last bool) {
	connector := treeEdge
	next := prefix + treeVert
	if last {
		connector = treeLast
		next = prefix + treeSpace
	}

	name := n.name
	if n.isDir {
		name += "/"
	}
	line := prefix + connector + name
	if n.status != "" {
		// Box-drawing runes are multi-byte; pad on rune count.
		padding := statusColumn - len([]rune(line))
		if padding < 2 {
			padding = 2
		}
		line += strings.Repeat(" ", padding) + statusStyle(n.status).Render(n.status)
	}
	sb.WriteString(line)
	sb.WriteString("\n")

	for i, c := range n.children {
		c.render(sb, next, i == len(n.children)-1)
	}
}
