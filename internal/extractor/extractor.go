package extractor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrFileNotFound        = errors.New("file not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrReadFailure         = errors.New("read failure")
)

var languageExtractors = map[Language]LanguageExtractor{
	LangJava:       &JavaExtractor{},
	LangTypeScript: &TypeScriptExtractor{lang: LangTypeScript},
	LangJavaScript: &TypeScriptExtractor{lang: LangJavaScript},
	LangPython:     &PythonExtractor{},
	LangGo:         &GoExtractor{},
}

// Extractor runs one language profile over file contents. It holds no
// per-file state and is safe for concurrent use.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      Language
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang Language) (*Extractor, error) {
	langExt, ok := languageExtractors[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	return &Extractor{langExtractor: langExt, langName: lang}, nil
}

// ForPath picks the extractor matching the file extension.
func ForPath(filePath string) (*Extractor, error) {
	lang, ok := DetectLanguage(filePath)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filePath)
	}
	return NewExtractor(lang)
}

// Language returns the language tag written on produced nodes.
func (e *Extractor) Language() Language {
	return e.langName
}

// ExtractFile reads and extracts a single file, using filePath as the
// recorded file path. Failures come back as a result with no nodes and one
// error; nothing is returned as a Go error.
func ExtractFile(filePath string) *ExtractionResult {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return failedResult(filePath, fmt.Errorf("%w: %s", ErrFileNotFound, filePath))
		}
		return failedResult(filePath, fmt.Errorf("%w: %s: %v", ErrReadFailure, filePath, err))
	}

	e, err := ForPath(filePath)
	if err != nil {
		return failedResult(filePath, err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return failedResult(filePath, fmt.Errorf("%w: %s: %v", ErrReadFailure, filePath, err))
	}
	return e.ExtractBytes(content, filePath)
}

// ExtractBytes extracts already-read content. Content that is not valid
// UTF-8 is reported as a read failure.
func (e *Extractor) ExtractBytes(content []byte, filePath string) *ExtractionResult {
	if !utf8.Valid(content) {
		res := failedResult(filePath, fmt.Errorf("%w: %s: content is not valid UTF-8", ErrReadFailure, filePath))
		res.Language = string(e.langName)
		return res
	}
	return e.Extract(string(content), filePath)
}

// Extract recognizes the declarations in content. The file node is always
// the first node of the result.
func (e *Extractor) Extract(content, filePath string) *ExtractionResult {
	p := e.langExtractor.Profile()
	hash := Checksum([]byte(content))

	res := &ExtractionResult{
		FilePath: filePath,
		FileHash: hash,
		Language: string(e.langName),
	}
	fileID := NodeID(KindFile, filePath, "")
	res.Nodes = append(res.Nodes, Node{
		ID:       fileID,
		Kind:     KindFile,
		Name:     path.Base(filePath),
		FilePath: filePath,
		Language: string(e.langName),
		Hash:     hash,
	})

	masked := MaskComments(content, p.Comments)
	s := &scan{
		profile:  p,
		text:     masked,
		lines:    strings.Split(masked, "\n"),
		index:    newLineIndex(masked),
		filePath: filePath,
		fileID:   fileID,
		language: string(e.langName),
		seenNode: map[string]bool{fileID: true},
		seenEdge: make(map[string]bool),
		res:      res,
	}
	s.namespace = s.findNamespace()
	s.emitImports()
	s.emitDeclarations()
	return res
}

// scan holds the working state of one Extract call.
type scan struct {
	profile   *Profile
	text      string
	lines     []string
	index     lineIndex
	filePath  string
	fileID    string
	language  string
	namespace string

	seenNode map[string]bool
	seenEdge map[string]bool
	res      *ExtractionResult
}

type declaration struct {
	rule   *Rule
	order  int
	m      match
	kind   NodeKind
	name   string
	offset int
	line   int
	col    int
	end    int
	id     string
}

func (s *scan) findNamespace() string {
	for i := range s.profile.Rules {
		rule := &s.profile.Rules[i]
		if rule.Role != RoleNamespace {
			continue
		}
		if loc := rule.Pattern.FindStringSubmatchIndex(s.text); loc != nil {
			m := match{re: rule.Pattern, src: s.text, loc: loc}
			return m.group("name")
		}
	}
	return ""
}

func (s *scan) emitImports() {
	type imp struct {
		offset int
		target string
	}
	var found []imp
	for i := range s.profile.Rules {
		rule := &s.profile.Rules[i]
		if rule.Role != RoleImport {
			continue
		}
		for _, m := range s.matches(rule) {
			p := m.group("path")
			if p == "" {
				continue
			}
			found = append(found, imp{offset: m.offset("path"), target: rule.ImportTarget(p)})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].offset < found[j].offset })
	for _, f := range found {
		line, _ := s.index.position(f.offset)
		s.addEdge(literalEdge(s.fileID, f.target, EdgeImports, line))
	}
}

func (s *scan) emitDeclarations() {
	decls := s.collect()

	// Types are deduplicated before spans are built so that every span
	// belongs to an emitted node.
	var spans []Span
	typeIDs := make(map[string]bool)
	kept := decls[:0]
	for _, d := range decls {
		if d.kind.IsType() {
			d.id = NodeID(d.kind, s.filePath, QualifiedName(s.namespace, d.name))
			if typeIDs[d.id] {
				continue
			}
			typeIDs[d.id] = true
			spans = append(spans, Span{
				ID:        d.id,
				Name:      d.name,
				Kind:      d.kind,
				Start:     d.line,
				End:       d.end,
				Inclusive: s.styleFor(d.rule) == BlockIndent,
			})
		}
		kept = append(kept, d)
	}
	idx := NewSpanIndex(spans)

	for _, d := range kept {
		switch d.rule.Role {
		case RoleType:
			s.emitType(d, idx)
		case RoleFunction:
			s.emitFunction(d, idx)
		case RoleConstant, RoleVariable:
			s.emitValue(d)
		}
	}
}

// collect runs every declaration rule and returns the matches in source
// order. A name position claimed by an earlier rule is not matched again.
func (s *scan) collect() []declaration {
	p := s.profile
	claimed := make(map[int]bool)
	var decls []declaration

	for i := range p.Rules {
		rule := &p.Rules[i]
		switch rule.Role {
		case RoleType, RoleFunction, RoleConstant, RoleVariable:
		default:
			continue
		}
		for _, m := range s.matches(rule) {
			name := m.group("name")
			if name == "" {
				continue
			}
			off := m.offset("name")
			if claimed[off] || !hasModifiers(m.group("mods"), rule.RequireModifiers) {
				continue
			}
			if rule.Role == RoleFunction {
				if p.SkipNames[name] || p.ControlKeywords[name] || p.ControlKeywords[m.group("ret")] {
					continue
				}
			}
			claimed[off] = true

			kind := rule.Kind
			if rule.KindFrom != nil {
				if k, ok := rule.KindFrom[m.group("keyword")]; ok {
					kind = k
				}
			}
			line, col := s.index.position(off)
			decls = append(decls, declaration{
				rule:   rule,
				order:  i,
				m:      m,
				kind:   kind,
				name:   name,
				offset: off,
				line:   line,
				col:    col,
				end:    s.blockEnd(rule, m, line, col),
			})
		}
	}

	sort.SliceStable(decls, func(i, j int) bool {
		if decls[i].offset != decls[j].offset {
			return decls[i].offset < decls[j].offset
		}
		return decls[i].order < decls[j].order
	})
	return decls
}

func (s *scan) blockEnd(rule *Rule, m match, line, col int) int {
	if m.defines("open") && m.offset("open") < 0 {
		return line
	}
	style := s.styleFor(rule)
	if style == BlockBraces {
		// Start at the opening bracket itself when the pattern captured it, so
		// brackets in parameter types are not counted.
		if off := m.offset("open"); off >= 0 {
			line, col = s.index.position(off)
		}
		return BraceResolver{Quotes: s.profile.Comments.Quotes}.BlockEndFrom(s.lines, line, col)
	}
	return s.profile.resolverFor(style).BlockEnd(s.lines, line)
}

func (s *scan) styleFor(rule *Rule) BlockStyle {
	if rule.Block != nil {
		return *rule.Block
	}
	return s.profile.Block
}

func (s *scan) emitType(d declaration, idx *SpanIndex) {
	s.addNode(Node{
		ID:         d.id,
		Kind:       d.kind,
		Name:       d.name,
		FilePath:   s.filePath,
		LineStart:  d.line,
		LineEnd:    d.end,
		Language:   s.language,
		Visibility: s.visibility(d),
	})
	s.attach(d, d.id, idx)

	if d.m.offset("extends") >= 0 {
		line, _ := s.index.position(d.m.offset("extends"))
		kind := d.rule.ExtendsKind
		if kind == "" {
			kind = KindClass
		}
		for _, name := range s.supertypes(d.m.group("extends")) {
			s.addEdge(guessEdge(d.id, kind, name, EdgeExtends, line))
		}
	}
	if d.m.offset("implements") >= 0 {
		line, _ := s.index.position(d.m.offset("implements"))
		kind := d.rule.ImplementsKind
		if kind == "" {
			kind = KindInterface
		}
		for _, name := range s.supertypes(d.m.group("implements")) {
			s.addEdge(guessEdge(d.id, kind, name, EdgeImplements, line))
		}
	}
}

func (s *scan) emitFunction(d declaration, idx *SpanIndex) {
	if d.rule.RequireEnclosing {
		if _, ok := idx.Innermost(d.line); !ok {
			return
		}
	}
	if s.profile.SuppressConstructors && d.m.group("ret") == d.name {
		for _, sp := range idx.Enclosing(d.line) {
			if sp.Name == d.name {
				return
			}
		}
	}

	qualifier := ""
	if recv := d.m.group("recv"); recv != "" {
		qualifier = receiverType(recv)
	}
	d.id = NodeID(KindFunction, s.filePath, QualifiedName(s.namespace, qualifier, d.name))
	if s.seenNode[d.id] {
		return
	}
	s.addNode(Node{
		ID:         d.id,
		Kind:       KindFunction,
		Name:       d.name,
		FilePath:   s.filePath,
		LineStart:  d.line,
		LineEnd:    d.end,
		Signature:  s.signature(d),
		Language:   s.language,
		Visibility: s.visibility(d),
	})
	s.attach(d, d.id, idx)
}

func (s *scan) emitValue(d declaration) {
	d.id = NodeID(d.kind, s.filePath, QualifiedName(s.namespace, d.name))
	if s.seenNode[d.id] {
		return
	}
	s.addNode(Node{
		ID:         d.id,
		Kind:       d.kind,
		Name:       d.name,
		FilePath:   s.filePath,
		LineStart:  d.line,
		LineEnd:    d.end,
		Language:   s.language,
		Visibility: s.visibility(d),
	})
	s.addEdge(localEdge(s.fileID, d.id, EdgeDefines, d.line))
}

// attach links a declaration to its innermost enclosing type, or to the
// file when it is top level.
func (s *scan) attach(d declaration, id string, idx *SpanIndex) {
	if parent, ok := idx.Innermost(d.line); ok {
		s.addEdge(localEdge(parent.ID, id, EdgeContains, d.line))
		return
	}
	s.addEdge(localEdge(s.fileID, id, EdgeDefines, d.line))
}

func (s *scan) addNode(n Node) {
	s.seenNode[n.ID] = true
	s.res.Nodes = append(s.res.Nodes, n)
}

func (s *scan) addEdge(e Edge) {
	key := e.Key()
	if s.seenEdge[key] {
		return
	}
	s.seenEdge[key] = true
	s.res.Edges = append(s.res.Edges, e)
}

func (s *scan) visibility(d declaration) Visibility {
	switch s.profile.Visibility {
	case VisibilityFromUnderscore:
		if strings.HasPrefix(d.name, "_") {
			return VisibilityPrivate
		}
		return VisibilityPublic
	case VisibilityFromCase:
		r, _ := utf8.DecodeRuneInString(d.name)
		if unicode.IsUpper(r) {
			return VisibilityPublic
		}
		return VisibilityPackage
	}

	for _, w := range strings.Fields(d.m.group("mods")) {
		switch w {
		case "public", "export":
			return VisibilityPublic
		case "protected":
			return VisibilityProtected
		case "private":
			return VisibilityPrivate
		}
	}
	if d.rule.DefaultVisibility != "" {
		return d.rule.DefaultVisibility
	}
	return s.profile.DefaultVisibility
}

func (s *scan) signature(d declaration) string {
	params := collapseSpace(d.m.group("params"))
	if params == "" {
		params = collapseSpace(d.m.group("param"))
	}
	ret := collapseSpace(d.m.group("ret"))
	call := d.name + "(" + params + ")"

	switch s.profile.Signature {
	case SignatureReturnLast:
		if ret != "" {
			return call + ": " + ret
		}
		return call
	case SignatureArrow:
		if ret != "" {
			return call + " -> " + ret
		}
		return call
	case SignatureGo:
		sig := "func "
		if recv := collapseSpace(d.m.group("recv")); recv != "" {
			sig += "(" + recv + ") "
		}
		sig += call
		if ret != "" {
			sig += " " + ret
		}
		return sig
	default:
		sig := call
		if ret != "" {
			sig = ret + " " + sig
		}
		if throws := collapseSpace(d.m.group("throws")); throws != "" {
			sig += " throws " + throws
		}
		return sig
	}
}

// supertypes splits a supertype list on top-level commas and strips type
// arguments.
func (s *scan) supertypes(list string) []string {
	var out []string
	for _, part := range splitTopLevel(list) {
		part = strings.TrimSpace(part)
		if part == "" || strings.Contains(part, "=") || strings.HasPrefix(part, "*") {
			continue
		}
		if i := strings.IndexAny(part, "<[("); i >= 0 {
			part = strings.TrimSpace(part[:i])
		}
		if part == "" || s.profile.IgnoredSupertypes[part] {
			continue
		}
		out = append(out, part)
	}
	return out
}

func splitTopLevel(list string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, list[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, list[start:])
}

// matches runs rule over the masked text. Rules with an Items pattern yield
// one match per item found inside the items group.
func (s *scan) matches(rule *Rule) []match {
	var out []match
	for _, loc := range rule.Pattern.FindAllStringSubmatchIndex(s.text, -1) {
		outer := &match{re: rule.Pattern, src: s.text, loc: loc}
		if rule.Items == nil {
			out = append(out, *outer)
			continue
		}
		start := outer.offset("items")
		if start < 0 {
			continue
		}
		body := outer.group("items")
		var nested []bool
		if rule.TopLevelItems {
			nested = nestedBytes(body, s.profile.Comments.Quotes)
		}
		for _, il := range rule.Items.FindAllStringSubmatchIndex(body, -1) {
			if nested != nil && il[0] < len(nested) && nested[il[0]] {
				continue
			}
			abs := make([]int, len(il))
			for k, v := range il {
				if v < 0 {
					abs[k] = -1
				} else {
					abs[k] = v + start
				}
			}
			out = append(out, match{re: rule.Items, src: s.text, loc: abs, parent: outer})
		}
	}
	return out
}

// nestedBytes marks the bytes of body that lie inside brackets or a quoted
// literal.
func nestedBytes(body string, quotes []QuoteRule) []bool {
	nested := make([]bool, len(body))
	depth := 0
	var quote *QuoteRule
	for i := 0; i < len(body); i++ {
		nested[i] = depth > 0 || quote != nil
		c := body[i]
		if quote != nil {
			switch {
			case c == '\\' && !quote.Raw && i+1 < len(body):
				i++
				nested[i] = true
			case c == '\n' && !quote.Multiline:
				quote = nil
			case quote.closesAt(body, i):
				i += quote.width() - 1
				quote = nil
			}
			continue
		}
		if q := openingQuote(quotes, body, i); q != nil {
			quote = q
			i += q.width() - 1
			continue
		}
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return nested
}

// match is one regexp match with named-group access. Item matches fall back
// to their enclosing match for groups they do not define.
type match struct {
	re     *regexp.Regexp
	src    string
	loc    []int
	parent *match
}

func (m match) defines(name string) bool {
	if m.re.SubexpIndex(name) >= 0 {
		return true
	}
	return m.parent != nil && m.parent.defines(name)
}

// offset returns the absolute start of a named group, or -1 when the group
// did not participate.
func (m match) offset(name string) int {
	i := m.re.SubexpIndex(name)
	if i < 0 {
		if m.parent != nil {
			return m.parent.offset(name)
		}
		return -1
	}
	return m.loc[2*i]
}

func (m match) group(name string) string {
	i := m.re.SubexpIndex(name)
	if i < 0 {
		if m.parent != nil {
			return m.parent.group(name)
		}
		return ""
	}
	if m.loc[2*i] < 0 {
		return ""
	}
	return m.src[m.loc[2*i]:m.loc[2*i+1]]
}

// lineIndex maps byte offsets to 1-indexed lines.
type lineIndex []int

func newLineIndex(text string) lineIndex {
	starts := lineIndex{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// position returns the line and the byte column of offset.
func (ix lineIndex) position(offset int) (line, col int) {
	i := sort.Search(len(ix), func(i int) bool { return ix[i] > offset })
	return i, offset - ix[i-1]
}

func hasModifiers(mods string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := wordSet(strings.Fields(mods)...)
	for _, r := range required {
		if !have[r] {
			return false
		}
	}
	return true
}

// receiverType reduces a Go receiver list such as "s *Set[T]" to "Set".
func receiverType(recv string) string {
	if i := strings.IndexByte(recv, '['); i >= 0 {
		recv = recv[:i]
	}
	fields := strings.Fields(recv)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimLeft(fields[len(fields)-1], "*")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
