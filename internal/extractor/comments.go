package extractor

import "strings"

// CommentStyle describes the comment and literal syntax of a language.
type CommentStyle struct {
	Line       string
	BlockOpen  string
	BlockClose string
	Quotes     []QuoteRule
	// MaskDocstrings blanks the body of triple-quoted strings.
	MaskDocstrings bool
}

// MaskComments replaces comment text with spaces. Newlines are kept, so line
// and column positions in the result match the input. Comment markers inside
// quoted literals are left alone.
func MaskComments(content string, style CommentStyle) string {
	src := content
	out := []byte(content)
	var quote *QuoteRule

	blank := func(from, to int) {
		for k := from; k < to && k < len(out); k++ {
			if out[k] != '\n' && out[k] != '\r' {
				out[k] = ' '
			}
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]

		if quote != nil {
			switch {
			case c == '\n' && !quote.Multiline:
				quote = nil
			case c == '\\' && !quote.Raw:
				i++
			case quote.closesAt(src, i):
				i += quote.width() - 1
				quote = nil
			}
			continue
		}

		if style.MaskDocstrings && (strings.HasPrefix(src[i:], `"""`) || strings.HasPrefix(src[i:], `'''`)) {
			delim := src[i : i+3]
			end := strings.Index(src[i+3:], delim)
			if end < 0 {
				blank(i+3, len(src))
				break
			}
			blank(i+3, i+3+end)
			i += 3 + end + 2
			continue
		}

		if style.Line != "" && strings.HasPrefix(src[i:], style.Line) {
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src) - i
			}
			blank(i, i+end)
			i += end - 1
			continue
		}

		if style.BlockOpen != "" && strings.HasPrefix(src[i:], style.BlockOpen) {
			end := strings.Index(src[i+len(style.BlockOpen):], style.BlockClose)
			if end < 0 {
				blank(i, len(src))
				break
			}
			stop := i + len(style.BlockOpen) + end + len(style.BlockClose)
			blank(i, stop)
			i = stop - 1
			continue
		}

		if q := openingQuote(style.Quotes, src, i); q != nil {
			quote = q
			i += q.width() - 1
		}
	}
	return string(out)
}
