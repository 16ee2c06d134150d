package toc

// Node is a heading with the headings nested beneath it.
type Node struct {
	Entry
	Children []*Node `json:"children,omitempty"`
}

// Outline nests a flat entry list by depth. A heading becomes the child of
// the nearest preceding heading with a smaller depth; skipped levels
// (h1 followed by h3) nest directly.
func Outline(entries []Entry) []*Node {
	type stackEntry struct {
		node  *Node
		depth int
	}

	// Root is depth 0, so every heading nests under it.
	root := &Node{}
	stack := []stackEntry{{node: root, depth: 0}}

	for _, e := range entries {
		n := &Node{Entry: e}

		// Pop until the top has a lower depth.
		for len(stack) > 1 && stack[len(stack)-1].depth >= e.Depth {
			stack = stack[:len(stack)-1]
		}

		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, n)
		stack = append(stack, stackEntry{node: n, depth: e.Depth})
	}

	if root.Children == nil {
		return []*Node{}
	}
	return root.Children
}
