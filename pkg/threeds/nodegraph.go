package threeds

// GraphNode is a node of the reconstructed hierarchy. Record indexes the
// NodeRecord slice the graph was built from; the synthetic root has -1.
type GraphNode struct {
	Record   int
	Children []*GraphNode
}

// NodeGraph is the hierarchy rebuilt from flat node records.
type NodeGraph struct {
	Root       *GraphNode
	Unresolved []int // records attached to the root for lack of an ancestor
}

// Walk visits the graph depth-first, parents before children.
func (g *NodeGraph) Walk(fn func(node, parent *GraphNode)) {
	var visit func(n, parent *GraphNode)
	visit = func(n, parent *GraphNode) {
		fn(n, parent)
		for _, child := range n.Children {
			visit(child, n)
		}
	}
	visit(g.Root, nil)
}

// openNode is an entry of the ancestor stack: the latest node placed at
// depth that has not been closed by a later node at the same or a
// shallower depth.
type openNode struct {
	depth int
	node  *GraphNode
}

// BuildNodeGraph turns records in file order into a tree under a synthetic
// root. A record's Hierarchy value is its depth: depth 0 and RootHierarchy
// (any negative value) hang off the root, and depth d > 0 hangs off the most
// recent open record at depth d-1. A record whose depth has no open parent
// is attached to the root and reported in Unresolved. Records that share a
// depth after one another are siblings. It never fails.
func BuildNodeGraph(records []NodeRecord) *NodeGraph {
	g := &NodeGraph{Root: &GraphNode{Record: -1}}
	var stack []openNode

	for i := range records {
		node := &GraphNode{Record: i}
		depth := int(records[i].Hierarchy)
		if depth < 0 {
			depth = 0
		}

		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}

		parent := g.Root
		if depth > 0 {
			if len(stack) > 0 && stack[len(stack)-1].depth == depth-1 {
				parent = stack[len(stack)-1].node
			} else {
				g.Unresolved = append(g.Unresolved, i)
			}
		}
		parent.Children = append(parent.Children, node)
		stack = append(stack, openNode{depth: depth, node: node})
	}
	return g
}
