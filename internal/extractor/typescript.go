package extractor

import "regexp"

// TypeScriptExtractor implements LanguageExtractor for TypeScript. JavaScript
// files run the same profile and are tagged with their own language.
type TypeScriptExtractor struct {
	lang Language
}

func (t *TypeScriptExtractor) Language() Language {
	return t.lang
}

func (t *TypeScriptExtractor) Profile() *Profile {
	return typeScriptProfile
}

const (
	tsGenerics = `(?:\s*<(?:[^<>]|<(?:[^<>]|<[^<>]*>)*>)*>)?`
	tsParams   = `(?P<params>(?:[^()]|\([^()]*\))*)`
	// Member parameters stay on one line so call sites inside method bodies
	// cannot be mistaken for declarations.
	tsMemberParams = `(?P<params>(?:[^(){}\n]|\([^(){}\n]*\))*)`
)

var typeScriptProfile = &Profile{
	Language: LangTypeScript,
	Comments: CommentStyle{
		Line:       "//",
		BlockOpen:  "/*",
		BlockClose: "*/",
		Quotes:     []QuoteRule{{Char: '"'}, {Char: '\''}, {Char: '`', Multiline: true}},
	},
	Block: BlockBraces,
	Rules: []Rule{
		{
			Role:         RoleImport,
			Pattern:      regexp.MustCompile(`(?m)^[ \t]*import\s+(?:type\s+)?(?:[\w*{}\s,$]+?\s+from\s+)?['"](?P<path>[^'"\n]+)['"]`),
			ImportTarget: moduleTarget,
		},
		{
			Role:         RoleImport,
			Pattern:      regexp.MustCompile(`(?m)^[ \t]*export\s+(?:type\s+)?(?:\*(?:\s+as\s+\w+)?|\{[^}]*\})\s+from\s+['"](?P<path>[^'"\n]+)['"]`),
			ImportTarget: moduleTarget,
		},
		{
			Role:         RoleImport,
			Pattern:      regexp.MustCompile(`\brequire\(\s*['"](?P<path>[^'"\n]+)['"]\s*\)`),
			ImportTarget: moduleTarget,
		},
		{
			Role: RoleType,
			Kind: KindClass,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:export|default|declare|abstract)\s+)*)class\s+(?P<name>[A-Za-z_$][\w$]*)` + tsGenerics +
				`(?:\s+extends\s+(?P<extends>[\w.$]+` + tsGenerics + `))?` +
				`(?:\s+implements\s+(?P<implements>[^{]+?))?\s*\{`),
			DefaultVisibility: VisibilityPrivate,
		},
		{
			Role: RoleType,
			Kind: KindInterface,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:export|default|declare)\s+)*)interface\s+(?P<name>[A-Za-z_$][\w$]*)` + tsGenerics +
				`(?:\s+extends\s+(?P<extends>[^{]+?))?\s*\{`),
			ExtendsKind:       KindInterface,
			DefaultVisibility: VisibilityPrivate,
		},
		{
			Role:              RoleType,
			Kind:              KindEnum,
			Pattern:           regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:export|declare|const)\s+)*)enum\s+(?P<name>[A-Za-z_$][\w$]*)\s*\{`),
			DefaultVisibility: VisibilityPrivate,
		},
		{
			Role:              RoleType,
			Kind:              KindType,
			Pattern:           regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:export|declare)\s+)*)type\s+(?P<name>[A-Za-z_$][\w$]*)(?:\s*<[^=\n]*>)?\s*=`),
			Block:             blockStyle(BlockLine),
			DefaultVisibility: VisibilityPrivate,
		},
		{
			Role: RoleFunction,
			Kind: KindFunction,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:export|default|declare|async)\s+)*)function\s*\*?\s*(?P<name>[A-Za-z_$][\w$]*)` + tsGenerics +
				`\s*\(` + tsParams + `\)(?:\s*:\s*(?P<ret>[^{;\n]+?))?\s*(?:(?P<open>\{)|;|$)`),
			DefaultVisibility: VisibilityPrivate,
		},
		{
			Role: RoleFunction,
			Kind: KindFunction,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*(?P<mods>(?:(?:export|default)\s+)*)(?:const|let|var)\s+(?P<name>[A-Za-z_$][\w$]*)(?:\s*:\s*[^=\n]+)?\s*=\s*(?:async\s+)?` +
				`(?:\(` + tsParams + `\)|(?P<param>[A-Za-z_$][\w$]*))(?:\s*:\s*(?P<ret>[^=\n]+?))?\s*=>\s*(?P<open>\{)?`),
			DefaultVisibility: VisibilityPrivate,
		},
		{
			Role: RoleFunction,
			Kind: KindFunction,
			Pattern: regexp.MustCompile(`(?m)^[ \t]+(?P<mods>(?:(?:public|private|protected|static|async|abstract|readonly|override|get|set)\s+)*)\*?(?P<name>#?[A-Za-z_$][\w$]*)` + tsGenerics +
				`\s*\(` + tsMemberParams + `\)(?:\s*:\s*(?P<ret>[^{;=\n]+?))?\s*\{`),
			DefaultVisibility: VisibilityPublic,
			RequireEnclosing:  true,
		},
		{
			Role:              RoleConstant,
			Kind:              KindConstant,
			Pattern:           regexp.MustCompile(`(?m)^(?P<mods>(?:export\s+)?)const\s+(?P<name>[A-Z][A-Z0-9_]*)\s*(?::\s*[^=\n]+)?=`),
			Block:             blockStyle(BlockLine),
			DefaultVisibility: VisibilityPrivate,
		},
		{
			Role:              RoleVariable,
			Kind:              KindVariable,
			Pattern:           regexp.MustCompile(`(?m)^(?P<mods>export\s+)(?:const|let|var)\s+(?P<name>[A-Za-z_$][\w$]*)`),
			Block:             blockStyle(BlockLine),
			DefaultVisibility: VisibilityPrivate,
		},
	},
	Visibility:        VisibilityFromModifiers,
	DefaultVisibility: VisibilityPrivate,
	Signature:         SignatureReturnLast,
	ControlKeywords: wordSet("if", "for", "while", "switch", "catch", "return", "function", "new",
		"typeof", "await", "do", "else", "with", "super", "throw", "yield", "delete", "void"),
	SkipNames: wordSet("constructor"),
}

func moduleTarget(path string) string {
	return ExternalID(KindModule, path)
}
