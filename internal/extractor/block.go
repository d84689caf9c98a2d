package extractor

import "strings"

// BlockStyle selects how the end of a declaration's block is found.
type BlockStyle int

const (
	// BlockBraces counts curly brackets.
	BlockBraces BlockStyle = iota
	// BlockIndent tracks indentation.
	BlockIndent
	// BlockLine treats the declaration as a single line.
	BlockLine
)

// BlockResolver returns the 1-indexed line on which the block opened by the
// declaration at line closes.
type BlockResolver interface {
	BlockEnd(lines []string, line int) int
}

// QuoteRule describes a literal delimiter the brace scanner must see through.
type QuoteRule struct {
	Char byte
	// Raw literals do not treat backslash as an escape.
	Raw bool
	// Multiline literals stay open across line breaks.
	Multiline bool
	// Triple literals open and close with three Char in a row.
	Triple bool
}

func (q *QuoteRule) width() int {
	if q.Triple {
		return 3
	}
	return 1
}

// closesAt reports whether the delimiter of q starts at text[i].
func (q *QuoteRule) closesAt(text string, i int) bool {
	if text[i] != q.Char {
		return false
	}
	return !q.Triple || (i+2 < len(text) && text[i+1] == q.Char && text[i+2] == q.Char)
}

// openingQuote returns the first rule whose delimiter starts at text[i].
func openingQuote(rules []QuoteRule, text string, i int) *QuoteRule {
	for k := range rules {
		if rules[k].closesAt(text, i) {
			return &rules[k]
		}
	}
	return nil
}

// CQuotes covers Java-style string, text block and character literals.
var CQuotes = []QuoteRule{{Char: '"', Triple: true, Multiline: true}, {Char: '"'}, {Char: '\''}}

// BraceResolver finds block ends by bracket counting, ignoring brackets
// inside quoted literals.
type BraceResolver struct {
	Quotes []QuoteRule
}

// BlockEnd scans from the start of line.
func (r BraceResolver) BlockEnd(lines []string, line int) int {
	return r.BlockEndFrom(lines, line, 0)
}

// BlockEndFrom scans from column col of line. The block ends on the line
// where the depth returns to zero after the first open bracket. Reaching
// the end of input returns the last line.
func (r BraceResolver) BlockEndFrom(lines []string, line, col int) int {
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		return line
	}

	depth := 0
	started := false
	escaped := false
	var quote *QuoteRule

	for i := line - 1; i < len(lines); i++ {
		if quote != nil && !quote.Multiline {
			quote = nil
		}
		escaped = false
		text := lines[i]
		start := 0
		if i == line-1 {
			start = min(col, len(text))
		}
		for j := start; j < len(text); j++ {
			c := text[j]
			if escaped {
				escaped = false
				continue
			}
			if quote != nil {
				if c == '\\' && !quote.Raw {
					escaped = true
				} else if quote.closesAt(text, j) {
					j += quote.width() - 1
					quote = nil
				}
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if q := openingQuote(r.Quotes, text, j); q != nil {
				quote = q
				j += q.width() - 1
				continue
			}
			switch c {
			case '{':
				depth++
				started = true
			case '}':
				if !started {
					continue
				}
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
	}
	return len(lines)
}

// IndentResolver finds block ends for indentation-significant languages.
type IndentResolver struct {
	// CommentPrefix marks comment-only lines, which are skipped.
	CommentPrefix string
}

// BlockEnd returns the line before the first non-blank, non-comment line
// whose indentation is not deeper than the declaration's. When the block
// runs to the end of input the last line is returned.
func (r IndentResolver) BlockEnd(lines []string, line int) int {
	if line < 1 || line > len(lines) {
		return line
	}
	base := indentWidth(lines[line-1])
	for i := line; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if r.CommentPrefix != "" && strings.HasPrefix(trimmed, r.CommentPrefix) {
			continue
		}
		if indentWidth(lines[i]) <= base {
			// lines[i] is 1-indexed line i+1; the block closes on line i.
			return i
		}
	}
	return len(lines)
}

// lineResolver ends every block on its declaration line.
type lineResolver struct{}

func (lineResolver) BlockEnd(_ []string, line int) int {
	return line
}

func indentWidth(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}
