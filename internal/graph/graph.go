package graph

import (
	"sort"

	"cyclecheck/internal/models"
)

// Node is one file in the dependency graph. Adjacency lists are unique and
// insertion-ordered; for every edge u → v, v appears in u's Outgoing exactly
// when u appears in v's Incoming.
type Node struct {
	Path     string
	Outgoing []string
	Incoming []string

	outSet map[string]struct{}
	inSet  map[string]struct{}
}

// Graph is a mutable directed graph keyed by absolute file path. It is built
// single-threaded by the pipeline and read-only afterwards, so it carries no
// internal locking.
type Graph struct {
	nodes map[string]*Node
	order []string
}

func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode creates an empty node if absent. Idempotent.
func (g *Graph) AddNode(path string) {
	if _, ok := g.nodes[path]; ok {
		return
	}
	g.nodes[path] = &Node{
		Path:   path,
		outSet: make(map[string]struct{}),
		inSet:  make(map[string]struct{}),
	}
	g.order = append(g.order, path)
}

// AddEdge records from → to, creating both endpoints if absent. Idempotent.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)

	u := g.nodes[from]
	if _, ok := u.outSet[to]; ok {
		return
	}
	u.outSet[to] = struct{}{}
	u.Outgoing = append(u.Outgoing, to)

	v := g.nodes[to]
	v.inSet[from] = struct{}{}
	v.Incoming = append(v.Incoming, from)
}

// RemoveNode deletes the node and scrubs it from every adjacency list.
func (g *Graph) RemoveNode(path string) {
	node, ok := g.nodes[path]
	if !ok {
		return
	}
	for _, to := range node.Outgoing {
		other := g.nodes[to]
		delete(other.inSet, path)
		other.Incoming = remove(other.Incoming, path)
	}
	for _, from := range node.Incoming {
		other := g.nodes[from]
		delete(other.outSet, path)
		other.Outgoing = remove(other.Outgoing, path)
	}
	delete(g.nodes, path)
	g.order = remove(g.order, path)
}

// RemoveEdge deletes from → to, leaving both endpoints in place.
func (g *Graph) RemoveEdge(from, to string) {
	u, ok := g.nodes[from]
	if !ok {
		return
	}
	if _, ok := u.outSet[to]; !ok {
		return
	}
	delete(u.outSet, to)
	u.Outgoing = remove(u.Outgoing, to)

	v := g.nodes[to]
	delete(v.inSet, from)
	v.Incoming = remove(v.Incoming, from)
}

func (g *Graph) HasNode(path string) bool {
	_, ok := g.nodes[path]
	return ok
}

func (g *Graph) HasEdge(from, to string) bool {
	u, ok := g.nodes[from]
	if !ok {
		return false
	}
	_, ok = u.outSet[to]
	return ok
}

// Outgoing returns a copy of the paths the given file depends on.
func (g *Graph) Outgoing(path string) []string {
	node, ok := g.nodes[path]
	if !ok {
		return nil
	}
	return append([]string(nil), node.Outgoing...)
}

// Incoming returns a copy of the paths depending on the given file.
func (g *Graph) Incoming(path string) []string {
	node, ok := g.nodes[path]
	if !ok {
		return nil
	}
	return append([]string(nil), node.Incoming...)
}

// Nodes returns all node paths in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// Edges returns every edge, ordered by source insertion then adjacency order.
func (g *Graph) Edges() []models.Edge {
	var edges []models.Edge
	for _, path := range g.order {
		for _, to := range g.nodes[path].Outgoing {
			edges = append(edges, models.Edge{From: path, To: to})
		}
	}
	return edges
}

func (g *Graph) NodeCount() int {
	return len(g.order)
}

func (g *Graph) EdgeCount() int {
	count := 0
	for _, node := range g.nodes {
		count += len(node.Outgoing)
	}
	return count
}

// TransitiveOutgoing returns every node reachable from path by following
// outgoing edges. The origin is included only when it lies on a cycle.
func (g *Graph) TransitiveOutgoing(path string) []string {
	return g.reachable(path, func(n *Node) []string { return n.Outgoing })
}

// TransitiveIncoming returns every node that can reach path by following
// outgoing edges. The origin is included only when it lies on a cycle.
func (g *Graph) TransitiveIncoming(path string) []string {
	return g.reachable(path, func(n *Node) []string { return n.Incoming })
}

// reachable is an iterative DFS seeded with the origin's neighbors.
func (g *Graph) reachable(path string, next func(*Node) []string) []string {
	origin, ok := g.nodes[path]
	if !ok {
		return nil
	}

	visited := make(map[string]struct{})
	var result []string
	stack := append([]string(nil), next(origin)...)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}
		result = append(result, current)
		if node, ok := g.nodes[current]; ok {
			stack = append(stack, next(node)...)
		}
	}
	return result
}

// TopKByOutgoing returns the k nodes with the most outgoing edges, highest
// first; ties break alphabetically.
func (g *Graph) TopKByOutgoing(k int) []models.DependencyCount {
	return g.topK(k, func(n *Node) int { return len(n.Outgoing) })
}

// TopKByIncoming returns the k nodes with the most incoming edges, highest
// first; ties break alphabetically.
func (g *Graph) TopKByIncoming(k int) []models.DependencyCount {
	return g.topK(k, func(n *Node) int { return len(n.Incoming) })
}

func (g *Graph) topK(k int, degree func(*Node) int) []models.DependencyCount {
	counts := make([]models.DependencyCount, 0, len(g.order))
	for _, path := range g.order {
		counts = append(counts, models.DependencyCount{
			File:  path,
			Count: degree(g.nodes[path]),
		})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].File < counts[j].File
	})
	if k < len(counts) {
		counts = counts[:k]
	}
	return counts
}

// Orphans returns nodes with no edges in either direction.
func (g *Graph) Orphans() []string {
	return g.selectNodes(func(n *Node) bool {
		return len(n.Outgoing) == 0 && len(n.Incoming) == 0
	})
}

// Leaves returns nodes that depend on others but have no dependents.
func (g *Graph) Leaves() []string {
	return g.selectNodes(func(n *Node) bool {
		return len(n.Outgoing) > 0 && len(n.Incoming) == 0
	})
}

// Roots returns nodes that are depended on but depend on nothing.
func (g *Graph) Roots() []string {
	return g.selectNodes(func(n *Node) bool {
		return len(n.Outgoing) == 0 && len(n.Incoming) > 0
	})
}

func (g *Graph) selectNodes(keep func(*Node) bool) []string {
	var result []string
	for _, path := range g.order {
		if keep(g.nodes[path]) {
			result = append(result, path)
		}
	}
	return result
}

// Export produces a read-only snapshot for the analysis result.
func (g *Graph) Export() models.GraphExport {
	export := models.GraphExport{
		Nodes: g.Nodes(),
		Edges: g.Edges(),
	}
	if export.Edges == nil {
		export.Edges = make([]models.Edge, 0)
	}
	if export.Nodes == nil {
		export.Nodes = make([]string, 0)
	}
	return export
}

func remove(list []string, s string) []string {
	for i, item := range list {
		if item == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
