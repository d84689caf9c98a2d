package extractor

// Resolution tags how an edge target was established.
type Resolution string

const (
	// ResolutionLocal targets a node created in the same batch.
	ResolutionLocal Resolution = "local"
	// ResolutionLiteral targets an id synthesized verbatim from source text,
	// such as an import path. The target node may not exist anywhere.
	ResolutionLiteral Resolution = "literal"
	// ResolutionNameGuess targets an id built from a bare name whose defining
	// file is unknown.
	ResolutionNameGuess Resolution = "name_guess"
)

const (
	confidenceFact  = 1.0
	confidenceGuess = 0.8
)

// ConfidenceFor returns the confidence attached to edges of the given
// resolution. Unknown resolutions are treated as guesses.
func ConfidenceFor(res Resolution) float64 {
	switch res {
	case ResolutionLocal, ResolutionLiteral:
		return confidenceFact
	default:
		return confidenceGuess
	}
}

func localEdge(from, to string, kind EdgeKind, line int) Edge {
	return Edge{
		FromID:     from,
		ToID:       to,
		Kind:       kind,
		LineNumber: line,
		Confidence: ConfidenceFor(ResolutionLocal),
		Resolution: ResolutionLocal,
	}
}

func literalEdge(from, to string, kind EdgeKind, line int) Edge {
	return Edge{
		FromID:     from,
		ToID:       to,
		Kind:       kind,
		LineNumber: line,
		Confidence: ConfidenceFor(ResolutionLiteral),
		Resolution: ResolutionLiteral,
	}
}

func guessEdge(from string, targetKind NodeKind, name string, kind EdgeKind, line int) Edge {
	return Edge{
		FromID:     from,
		ToID:       ExternalID(targetKind, name),
		Kind:       kind,
		LineNumber: line,
		Confidence: ConfidenceFor(ResolutionNameGuess),
		Resolution: ResolutionNameGuess,
		TargetName: name,
	}
}
