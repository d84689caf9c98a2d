package graph

import (
	"codegraph/internal/extractor"
	"sort"
	"strings"
)

// Graph holds the nodes and edges of many extraction results, grouped by
// file so that a re-extracted file replaces its previous contribution
// wholesale.
type Graph struct {
	Nodes map[string]extractor.Node

	files map[string]*fileEntry

	// Index for faster lookup: Name -> []ID
	// Used to list candidates for name-only edge targets.
	nameIndex map[string][]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:     make(map[string]extractor.Node),
		files:     make(map[string]*fileEntry),
		nameIndex: make(map[string][]string),
	}
}

// ReplaceFile discards everything previously recorded for the result's file
// and records the result instead. Results carrying errors are ignored and
// leave the previous contribution in place; the return value reports
// whether the graph changed.
func (g *Graph) ReplaceFile(res *extractor.ExtractionResult) bool {
	if !res.OK() {
		return false
	}
	g.replace(res.FilePath, res.FileHash, res.Nodes, res.Edges)
	return true
}

// RemoveFile drops a file's nodes and edges.
func (g *Graph) RemoveFile(path string) bool {
	entry, ok := g.files[path]
	if !ok {
		return false
	}
	for _, id := range entry.nodeIDs {
		g.unindex(g.Nodes[id])
		delete(g.Nodes, id)
	}
	delete(g.files, path)
	return true
}

// Apply folds a flat batch, as produced by a sync run, into the graph. Nodes
// are grouped by file path and each edge follows the file of its source
// node. Every file present in the batch is replaced and every deleted path
// is removed.
func (g *Graph) Apply(nodes []extractor.Node, edges []extractor.Edge, deleted []string) {
	type batch struct {
		hash  string
		nodes []extractor.Node
		edges []extractor.Edge
	}
	byFile := make(map[string]*batch)
	var order []string
	owner := make(map[string]string, len(nodes))
	for _, n := range nodes {
		b, ok := byFile[n.FilePath]
		if !ok {
			b = &batch{}
			byFile[n.FilePath] = b
			order = append(order, n.FilePath)
		}
		if n.Kind == extractor.KindFile {
			b.hash = n.Hash
		}
		b.nodes = append(b.nodes, n)
		owner[n.ID] = n.FilePath
	}
	for _, e := range edges {
		if b, ok := byFile[owner[e.FromID]]; ok {
			b.edges = append(b.edges, e)
		}
	}

	for _, path := range deleted {
		g.RemoveFile(path)
	}
	for _, path := range order {
		b := byFile[path]
		g.replace(path, b.hash, b.nodes, b.edges)
	}
}

func (g *Graph) replace(path, hash string, nodes []extractor.Node, edges []extractor.Edge) {
	g.RemoveFile(path)

	entry := &fileEntry{hash: hash, edges: append([]extractor.Edge(nil), edges...)}
	for _, n := range nodes {
		if _, exists := g.Nodes[n.ID]; exists {
			continue
		}
		g.Nodes[n.ID] = n
		entry.nodeIDs = append(entry.nodeIDs, n.ID)
		g.nameIndex[n.Name] = append(g.nameIndex[n.Name], n.ID)
	}
	g.files[path] = entry
}

func (g *Graph) unindex(n extractor.Node) {
	ids := g.nameIndex[n.Name]
	for i, id := range ids {
		if id == n.ID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(g.nameIndex, n.Name)
		return
	}
	g.nameIndex[n.Name] = ids
}

// Files lists the recorded file paths, sorted.
func (g *Graph) Files() []string {
	paths := make([]string, 0, len(g.files))
	for p := range g.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// FileHash returns the checksum recorded for a file.
func (g *Graph) FileHash(path string) (string, bool) {
	entry, ok := g.files[path]
	if !ok {
		return "", false
	}
	return entry.hash, true
}

// Edges returns every edge, grouped by file in path order and in extraction
// order within a file.
func (g *Graph) Edges() []extractor.Edge {
	var edges []extractor.Edge
	for _, p := range g.Files() {
		edges = append(edges, g.files[p].edges...)
	}
	return edges
}

// Find returns the nodes matching the filter, sorted by id.
func (g *Graph) Find(f Filter) []extractor.Node {
	var out []extractor.Node
	if f.FilePath != "" {
		if entry, ok := g.files[f.FilePath]; ok {
			for _, id := range entry.nodeIDs {
				if n := g.Nodes[id]; f.matches(n) {
					out = append(out, n)
				}
			}
		}
	} else {
		for _, n := range g.Nodes {
			if f.matches(n) {
				out = append(out, n)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetDependencies returns the outgoing edges of a node.
func (g *Graph) GetDependencies(id string) []extractor.Edge {
	n, ok := g.Nodes[id]
	if !ok {
		return nil
	}
	var deps []extractor.Edge
	for _, e := range g.files[n.FilePath].edges {
		if e.FromID == id {
			deps = append(deps, e)
		}
	}
	return deps
}

// GetDependents returns the edges whose target id is exactly id.
func (g *Graph) GetDependents(id string) []extractor.Edge {
	var deps []extractor.Edge
	for _, e := range g.Edges() {
		if e.ToID == id {
			deps = append(deps, e)
		}
	}
	return deps
}

// Candidates lists the nodes an edge may point at. Exact targets resolve to
// themselves; a guessed target lists every declared type carrying the bare
// name, sorted by id.
func (g *Graph) Candidates(e extractor.Edge) []extractor.Node {
	if n, ok := g.Nodes[e.ToID]; ok {
		return []extractor.Node{n}
	}
	if !e.IsGuess() {
		return nil
	}

	name := e.TargetName
	if name == "" {
		_, name, _ = strings.Cut(e.ToID, ".")
	}
	var out []extractor.Node
	for _, id := range g.nameIndex[name] {
		if n := g.Nodes[id]; n.Kind.IsType() || n.Kind == extractor.KindType {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
