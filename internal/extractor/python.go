package extractor

import "regexp"

// PythonExtractor implements LanguageExtractor for Python.
type PythonExtractor struct{}

func (p *PythonExtractor) Language() Language {
	return LangPython
}

func (p *PythonExtractor) Profile() *Profile {
	return pythonProfile
}

var pythonProfile = &Profile{
	Language: LangPython,
	Comments: CommentStyle{
		Line:           "#",
		Quotes:         []QuoteRule{{Char: '"'}, {Char: '\''}},
		MaskDocstrings: true,
	},
	Block: BlockIndent,
	Rules: []Rule{
		{
			Role:         RoleImport,
			Pattern:      regexp.MustCompile(`(?m)^[ \t]*from\s+(?P<path>\.*[\w.]*)\s+import\s+`),
			ImportTarget: moduleTarget,
		},
		{
			Role:         RoleImport,
			Pattern:      regexp.MustCompile(`(?m)^[ \t]*import[ \t]+(?P<items>[\w.]+(?:[ \t]+as[ \t]+\w+)?(?:[ \t]*,[ \t]*[\w.]+(?:[ \t]+as[ \t]+\w+)?)*)`),
			Items:        regexp.MustCompile(`(?P<path>[\w.]+)(?:[ \t]+as[ \t]+\w+)?`),
			ImportTarget: moduleTarget,
		},
		{
			Role:        RoleType,
			Kind:        KindClass,
			Pattern:     regexp.MustCompile(`(?m)^[ \t]*class\s+(?P<name>\w+)(?:\s*\((?P<extends>(?:[^()]|\([^()]*\))*)\))?\s*:`),
			ExtendsKind: KindClass,
		},
		{
			Role:    RoleFunction,
			Kind:    KindFunction,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*(?:async\s+)?def\s+(?P<name>\w+)\s*\((?P<params>(?:[^()]|\([^()]*\))*)\)\s*(?:->\s*(?P<ret>[^:\n]+?))?\s*:`),
		},
		{
			Role:    RoleConstant,
			Kind:    KindConstant,
			Pattern: regexp.MustCompile(`(?m)^(?P<name>[A-Z][A-Z0-9_]*)[ \t]*(?::[^=\n]+)?=(?:[^=]|$)`),
			Block:   blockStyle(BlockLine),
		},
	},
	Visibility:        VisibilityFromUnderscore,
	Signature:         SignatureArrow,
	IgnoredSupertypes: wordSet("object"),
}
