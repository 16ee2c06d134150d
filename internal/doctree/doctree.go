// Package doctree holds the heading tree an imported document is read into
// before it is written out as wiki markdown.
package doctree

import "strings"

const maxHeadingDepth = 6

// DocTree is the root of an imported document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Markdown body of this node
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// Markdown writes the tree as wiki markdown. A node's heading depth is its
// nesting depth, capped at 6; untitled nodes contribute only their text.
// Blocks are separated by a blank line. The tree title is not written.
func (t *DocTree) Markdown() string {
	var blocks []string
	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			if title := strings.TrimSpace(n.Title); title != "" {
				blocks = append(blocks, strings.Repeat("#", min(depth, maxHeadingDepth))+" "+title)
			}
			if text := strings.TrimSpace(n.Text); text != "" {
				blocks = append(blocks, text)
			}
			walk(n.Children, depth+1)
		}
	}
	walk(t.Children, 1)
	return strings.Join(blocks, "\n\n")
}

// Builder assembles a tree from a flat stream of headings and text blocks,
// nesting each heading under the nearest shallower one.
type Builder struct {
	title string
	root  *DocNode
	stack []stackEntry
	text  strings.Builder
}

type stackEntry struct {
	node  *DocNode
	level int
}

func NewBuilder(title string) *Builder {
	root := &DocNode{Title: title}
	return &Builder{
		title: title,
		root:  root,
		stack: []stackEntry{{node: root, level: 0}},
	}
}

// Heading opens a section at level (1 for the outermost).
func (b *Builder) Heading(level int, title string) {
	b.flush()
	node := &DocNode{Title: title}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, stackEntry{node: node, level: level})
}

// Text appends a block to the current section. Blank blocks are ignored.
func (b *Builder) Text(block string) {
	block = strings.TrimSpace(block)
	if block == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(block)
}

func (b *Builder) flush() {
	t := b.text.String()
	b.text.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

// Tree finishes the build. Text that came before the first heading becomes
// a leading untitled node.
func (b *Builder) Tree() *DocTree {
	b.flush()
	tree := &DocTree{Title: b.title}
	if b.root.Text != "" {
		tree.Children = append(tree.Children, &DocNode{Text: b.root.Text})
	}
	tree.Children = append(tree.Children, b.root.Children...)
	return tree
}
