package graph

import "codegraph/internal/extractor"

// GuessOutcome classifies how a name_guess edge matches the nodes currently
// held by the graph.
type GuessOutcome string

const (
	OutcomeUnique      GuessOutcome = "unique"
	OutcomeAmbiguous   GuessOutcome = "ambiguous"
	OutcomeNoCandidate GuessOutcome = "no_candidate"
)

// Filter selects nodes. Zero fields match everything.
type Filter struct {
	Kind     extractor.NodeKind
	FilePath string
	IDPrefix string
	Language string
}

func (f Filter) matches(n extractor.Node) bool {
	if f.Kind != "" && n.Kind != f.Kind {
		return false
	}
	if f.FilePath != "" && n.FilePath != f.FilePath {
		return false
	}
	if f.IDPrefix != "" && (len(n.ID) < len(f.IDPrefix) || n.ID[:len(f.IDPrefix)] != f.IDPrefix) {
		return false
	}
	if f.Language != "" && n.Language != f.Language {
		return false
	}
	return true
}

// fileEntry is everything one extraction contributed.
type fileEntry struct {
	hash    string
	nodeIDs []string
	edges   []extractor.Edge
}
