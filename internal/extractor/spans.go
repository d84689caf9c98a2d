package extractor

import "sort"

// Span is the line range of a recognized type declaration.
type Span struct {
	ID    string
	Name  string
	Kind  NodeKind
	Start int
	End   int
	// Inclusive spans own their End line. Indentation blocks end on their
	// last body line, brace blocks on the closing bracket.
	Inclusive bool
}

// Contains reports whether line lies inside the span, after its opening line.
func (s Span) Contains(line int) bool {
	if s.Inclusive {
		return s.Start < line && line <= s.End
	}
	return s.Start < line && line < s.End
}

// SpanIndex answers "which declared types enclose line L" queries.
type SpanIndex struct {
	spans []Span
}

// NewSpanIndex copies spans and orders them by start line, widest first
// among spans that open on the same line.
func NewSpanIndex(spans []Span) *SpanIndex {
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})
	return &SpanIndex{spans: sorted}
}

// Innermost returns the smallest span containing line: the most
// recently opened one, and among those the one that closes first.
func (x *SpanIndex) Innermost(line int) (Span, bool) {
	var best Span
	found := false
	for _, s := range x.spans {
		if s.Start >= line {
			break
		}
		if !s.Contains(line) {
			continue
		}
		if !found || s.Start > best.Start || (s.Start == best.Start && s.End < best.End) {
			best = s
			found = true
		}
	}
	return best, found
}

// Enclosing returns every span containing line, outermost first.
func (x *SpanIndex) Enclosing(line int) []Span {
	var out []Span
	for _, s := range x.spans {
		if s.Start >= line {
			break
		}
		if s.Contains(line) {
			out = append(out, s)
		}
	}
	return out
}
