package graph

import "codegraph/internal/extractor"

func (g *Graph) ResolutionCounts() map[extractor.Resolution]int {
	counts := make(map[extractor.Resolution]int)
	if g == nil {
		return counts
	}
	for _, e := range g.Edges() {
		counts[e.Resolution]++
	}
	return counts
}

func (g *Graph) GuessOutcomeCounts() map[GuessOutcome]int {
	counts := make(map[GuessOutcome]int)
	if g == nil {
		return counts
	}
	for _, e := range g.Edges() {
		if !e.IsGuess() {
			continue
		}
		switch len(g.Candidates(e)) {
		case 0:
			counts[OutcomeNoCandidate]++
		case 1:
			counts[OutcomeUnique]++
		default:
			counts[OutcomeAmbiguous]++
		}
	}
	return counts
}
