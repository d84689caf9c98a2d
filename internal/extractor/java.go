package extractor

import (
	"regexp"
	"strings"
)

// JavaExtractor implements LanguageExtractor for Java.
type JavaExtractor struct{}

func (j *JavaExtractor) Language() Language {
	return LangJava
}

func (j *JavaExtractor) Profile() *Profile {
	return javaProfile
}

const (
	javaAnnotations = `(?:@[\w.]+(?:\([^)]*\))?\s+)*`
	javaGenerics    = `(?:\s*<(?:[^<>]|<(?:[^<>]|<[^<>]*>)*>)*>)?`
	javaTypeMods    = `(?P<mods>(?:(?:public|protected|private|abstract|static|final|sealed|non-sealed|strictfp)\s+)*)`
	javaParams      = `(?P<params>(?:[^()]|\([^()]*\))*)`
)

var javaProfile = &Profile{
	Language: LangJava,
	Comments: CommentStyle{Line: "//", BlockOpen: "/*", BlockClose: "*/", Quotes: CQuotes},
	Block:    BlockBraces,
	Rules: []Rule{
		{
			Role:    RoleNamespace,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*package\s+(?P<name>[\w.]+)\s*;`),
		},
		{
			Role:         RoleImport,
			Pattern:      regexp.MustCompile(`(?m)^[ \t]*import\s+(?:static\s+)?(?P<path>[\w.]+(?:\.\*)?)\s*;`),
			ImportTarget: javaImportTarget,
		},
		{
			Role: RoleType,
			Kind: KindAnnotation,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*` + javaAnnotations + javaTypeMods +
				`@interface\s+(?P<name>\w+)\s*\{`),
		},
		{
			Role: RoleType,
			Kind: KindClass,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*` + javaAnnotations + javaTypeMods +
				`class\s+(?P<name>\w+)` + javaGenerics +
				`(?:\s+extends\s+(?P<extends>[\w.]+` + javaGenerics + `))?` +
				`(?:\s+implements\s+(?P<implements>[^{]+?))?` +
				`(?:\s+permits\s+[^{]+?)?\s*\{`),
		},
		{
			Role: RoleType,
			Kind: KindClass,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*` + javaAnnotations + javaTypeMods +
				`record\s+(?P<name>\w+)` + javaGenerics + `\s*\([^)]*\)` +
				`(?:\s+implements\s+(?P<implements>[^{]+?))?\s*\{`),
		},
		{
			Role: RoleType,
			Kind: KindInterface,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*` + javaAnnotations + javaTypeMods +
				`interface\s+(?P<name>\w+)` + javaGenerics +
				`(?:\s+extends\s+(?P<extends>[^{]+?))?` +
				`(?:\s+permits\s+[^{]+?)?\s*\{`),
			ExtendsKind: KindInterface,
		},
		{
			Role: RoleType,
			Kind: KindEnum,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*` + javaAnnotations + javaTypeMods +
				`enum\s+(?P<name>\w+)(?:\s+implements\s+(?P<implements>[^{]+?))?\s*\{`),
		},
		{
			Role: RoleFunction,
			Kind: KindFunction,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*` + javaAnnotations +
				`(?P<mods>(?:(?:public|protected|private|static|final|abstract|synchronized|native|default|strictfp)\s+)*)` +
				`(?:<(?:[^<>]|<[^<>]*>)*>\s+)?` +
				`(?P<ret>(?:[A-Z][\w.]*` + javaGenerics + `|void|boolean|byte|char|short|int|long|float|double)(?:\[\])*)` +
				`\s+(?P<name>\w+)\s*\(` + javaParams + `\)(?:\s*\[\])*` +
				`(?:\s+throws\s+(?P<throws>[\w.\s,<>]+?))?\s*(?:(?P<open>\{)|;)`),
		},
		{
			Role: RoleConstant,
			Kind: KindConstant,
			Pattern: regexp.MustCompile(`(?m)^[ \t]*` +
				`(?P<mods>(?:(?:public|protected|private|static|final|transient|volatile)\s+)+)` +
				`(?P<ret>[\w.]+(?:<[^;=]*>)?(?:\[\])*)\s+(?P<name>[A-Z][A-Z0-9_]*)\s*=`),
			Block:            blockStyle(BlockLine),
			RequireModifiers: []string{"static", "final"},
		},
	},
	Visibility:           VisibilityFromModifiers,
	DefaultVisibility:    VisibilityPackage,
	Signature:            SignatureReturnFirst,
	ControlKeywords:      wordSet("if", "for", "while", "switch", "catch", "return", "new", "else", "do", "try", "throw", "synchronized"),
	SuppressConstructors: true,
}

// javaImportTarget maps "a.b.*" to its package and "a.b.C" to its class.
func javaImportTarget(path string) string {
	if pkg, ok := strings.CutSuffix(path, ".*"); ok {
		return ExternalID(KindPackage, pkg)
	}
	return ExternalID(KindClass, path)
}
