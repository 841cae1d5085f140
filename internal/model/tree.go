package model

// Node is one entry of a flattened tree.
type Node struct {
	Path   Path
	Object Object
	Depth  int
}

// IsContainer reports whether the node can be expanded.
func (n Node) IsContainer() bool {
	_, ok := n.Object.(Container)
	return ok
}

// Flatten walks root depth first and returns every descendant in display
// order. Children of a container are only visited when expand returns true
// for its path; a nil expand visits everything.
func Flatten(root Container, expand func(Path) bool) []Node {
	var out []Node
	var walk func(c Container, prefix Path, depth int)
	walk = func(c Container, prefix Path, depth int) {
		for _, child := range c.Children() {
			p := prefix.Join(child.Name())
			out = append(out, Node{Path: p, Object: child, Depth: depth})
			if sub, ok := child.(Container); ok && (expand == nil || expand(p)) {
				walk(sub, p, depth+1)
			}
		}
	}
	walk(root, nil, 0)
	return out
}
