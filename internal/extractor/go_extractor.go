package extractor

import "regexp"

// GoExtractor implements LanguageExtractor for Go.
type GoExtractor struct{}

func (g *GoExtractor) Language() Language {
	return LangGo
}

func (g *GoExtractor) Profile() *Profile {
	return goProfile
}

// groupedSpec matches one spec line of a const or var group: a name followed
// by the end of line, another name, an initializer or a type.
var groupedSpec = regexp.MustCompile(`(?m)^[ \t]*(?P<name>[A-Za-z]\w*|_\w+)(?:[ \t]*(?:[=,]|$)|[ \t]+[\w*\[(<])`)

var goProfile = &Profile{
	Language: LangGo,
	Comments: CommentStyle{
		Line:       "//",
		BlockOpen:  "/*",
		BlockClose: "*/",
		Quotes:     []QuoteRule{{Char: '"'}, {Char: '\''}, {Char: '`', Raw: true, Multiline: true}},
	},
	Block: BlockBraces,
	Rules: []Rule{
		{
			Role:    RoleNamespace,
			Pattern: regexp.MustCompile(`(?m)^package[ \t]+(?P<name>\w+)`),
		},
		{
			Role:         RoleImport,
			Pattern:      regexp.MustCompile(`(?m)^import[ \t]+(?:[\w.]+[ \t]+)?"(?P<path>[^"\n]+)"`),
			ImportTarget: packageTarget,
		},
		{
			Role:         RoleImport,
			Pattern:      regexp.MustCompile(`(?ms)^import[ \t]*\((?P<items>.*?)^\)`),
			Items:        regexp.MustCompile(`(?m)^[ \t]*(?:[\w.]+[ \t]+)?"(?P<path>[^"\n]+)"`),
			ImportTarget: packageTarget,
		},
		{
			Role:    RoleType,
			Kind:    KindType,
			Pattern: regexp.MustCompile(`(?m)^type[ \t]+(?P<name>\w+)(?:\[[^\]\n]*\])?[ \t]+(?:=[ \t]*)?(?P<keyword>struct|interface)?[^{\n]*(?P<open>\{)?`),
			KindFrom: map[string]NodeKind{
				"struct":    KindClass,
				"interface": KindInterface,
			},
		},
		{
			Role:    RoleFunction,
			Kind:    KindFunction,
			Pattern: regexp.MustCompile(`(?m)^func[ \t]*(?:\((?P<recv>[^)]*)\)[ \t]*)?(?P<name>\w+)(?:\[[^\]\n]*\])?\((?P<params>(?:[^()]|\([^()]*\))*)\)[ \t]*(?P<ret>[^{\n]*)(?P<open>\{)?`),
		},
		{
			Role:    RoleConstant,
			Kind:    KindConstant,
			Pattern: regexp.MustCompile(`(?m)^const[ \t]+(?P<name>\w+)`),
			Block:   blockStyle(BlockLine),
		},
		{
			Role:    RoleConstant,
			Kind:    KindConstant,
			Pattern: regexp.MustCompile(`(?ms)^const[ \t]*\((?P<items>.*?)^\)`),
			Items:   groupedSpec,
			Block:   blockStyle(BlockLine),

			TopLevelItems: true,
		},
		{
			Role:    RoleVariable,
			Kind:    KindVariable,
			Pattern: regexp.MustCompile(`(?m)^var[ \t]+(?P<name>\w+)`),
			Block:   blockStyle(BlockLine),
		},
		{
			Role:    RoleVariable,
			Kind:    KindVariable,
			Pattern: regexp.MustCompile(`(?ms)^var[ \t]*\((?P<items>.*?)^\)`),
			Items:   groupedSpec,
			Block:   blockStyle(BlockLine),

			TopLevelItems: true,
		},
	},
	Visibility: VisibilityFromCase,
	Signature:  SignatureGo,
}

func packageTarget(path string) string {
	return ExternalID(KindPackage, path)
}
