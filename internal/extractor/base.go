package extractor

import "regexp"

// LanguageExtractor is implemented once per supported language. It supplies
// the declarative pattern profile the shared driver runs.
type LanguageExtractor interface {
	Language() Language
	Profile() *Profile
}

// Role is what a Rule recognizes.
type Role int

const (
	RoleNamespace Role = iota
	RoleImport
	RoleType
	RoleFunction
	RoleConstant
	RoleVariable
)

// Rule is one recognition pattern. The driver reads these named groups when
// the pattern defines them:
//
//	name        declared identifier (required for declarations)
//	mods        modifier keywords preceding the declaration
//	keyword     kind selector looked up in KindFrom
//	extends     comma-separated supertypes
//	implements  comma-separated interfaces
//	recv        receiver list (Go methods)
//	params      parameter list; param is a fallback for a bare parameter
//	ret         return type
//	throws      throws clause
//	open        the block's opening bracket; absent means a one-line declaration
//	path        import path
//	items       text that Items is applied to, one declaration or import per match
type Rule struct {
	Role    Role
	Kind    NodeKind
	Pattern *regexp.Regexp
	Items   *regexp.Regexp

	// KindFrom maps the keyword group to a node kind.
	KindFrom map[string]NodeKind
	// Block overrides the profile's block style for this rule.
	Block *BlockStyle

	ImportTarget   func(path string) string
	ExtendsKind    NodeKind
	ImplementsKind NodeKind

	DefaultVisibility Visibility
	// RequireModifiers lists keywords that must all appear in mods.
	RequireModifiers []string
	// RequireEnclosing drops matches that are not inside a declared type.
	RequireEnclosing bool
	// TopLevelItems drops item matches that start inside brackets or a
	// literal of the items body.
	TopLevelItems bool
}

// VisibilityPolicy selects how visibility is derived.
type VisibilityPolicy int

const (
	// VisibilityFromModifiers reads public/protected/private (and export).
	VisibilityFromModifiers VisibilityPolicy = iota
	// VisibilityFromUnderscore marks leading-underscore names private.
	VisibilityFromUnderscore
	// VisibilityFromCase marks capitalized names public, others package.
	VisibilityFromCase
)

// SignatureStyle selects how a function signature is rendered.
type SignatureStyle int

const (
	// SignatureReturnFirst renders "Ret name(params) throws X".
	SignatureReturnFirst SignatureStyle = iota
	// SignatureReturnLast renders "name(params): Ret".
	SignatureReturnLast
	// SignatureArrow renders "name(params) -> Ret".
	SignatureArrow
	// SignatureGo renders "func (recv) name(params) Ret".
	SignatureGo
)

// Profile is the declarative description of one language.
type Profile struct {
	Language Language
	Comments CommentStyle
	Block    BlockStyle
	Rules    []Rule

	Visibility        VisibilityPolicy
	DefaultVisibility Visibility
	Signature         SignatureStyle

	// ControlKeywords never name a function or its return type.
	ControlKeywords map[string]bool
	// SkipNames are member names that are not functions (e.g. "constructor").
	SkipNames map[string]bool
	// IgnoredSupertypes are never emitted as extends targets.
	IgnoredSupertypes map[string]bool
	// SuppressConstructors drops matches whose name and return type both equal
	// an enclosing type's name.
	SuppressConstructors bool
}

func (p *Profile) resolverFor(style BlockStyle) BlockResolver {
	switch style {
	case BlockIndent:
		return IndentResolver{CommentPrefix: p.Comments.Line}
	case BlockLine:
		return lineResolver{}
	default:
		return BraceResolver{Quotes: p.Comments.Quotes}
	}
}

func blockStyle(s BlockStyle) *BlockStyle {
	return &s
}

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
