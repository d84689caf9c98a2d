package extractor

import "fmt"

// NodeKind is the structural category of a Node.
type NodeKind string

const (
	KindFile       NodeKind = "file"
	KindClass      NodeKind = "class"
	KindInterface  NodeKind = "interface"
	KindEnum       NodeKind = "enum"
	KindAnnotation NodeKind = "annotation"
	KindFunction   NodeKind = "function"
	KindType       NodeKind = "type"
	KindConstant   NodeKind = "constant"
	KindVariable   NodeKind = "variable"

	// Kinds that only appear in synthesized external target ids.
	KindModule  NodeKind = "module"
	KindPackage NodeKind = "package"
)

// IsType reports whether declarations of this kind open a scope that can
// contain other declarations.
func (k NodeKind) IsType() bool {
	switch k {
	case KindClass, KindInterface, KindEnum, KindAnnotation:
		return true
	}
	return false
}

// EdgeKind is the relation carried by an Edge.
type EdgeKind string

const (
	EdgeImports    EdgeKind = "imports"
	EdgeCalls      EdgeKind = "calls"
	EdgeExtends    EdgeKind = "extends"
	EdgeImplements EdgeKind = "implements"
	EdgeDefines    EdgeKind = "defines"
	EdgeContains   EdgeKind = "contains"
)

// Visibility of a declaration. The empty value means "not applicable".
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

// Node is a structural declaration recovered from a single file.
type Node struct {
	ID         string     `json:"id"`
	Kind       NodeKind   `json:"kind"`
	Name       string     `json:"name"`
	FilePath   string     `json:"file_path"`
	LineStart  int        `json:"line_start"`
	LineEnd    int        `json:"line_end"`
	Signature  string     `json:"signature,omitempty"`
	Language   string     `json:"language,omitempty"`
	Visibility Visibility `json:"visibility,omitempty"`
	Hash       string     `json:"hash,omitempty"`
}

// Edge is a directed, typed relation. ToID may name a node outside the
// batch; Resolution says how much the target can be trusted.
type Edge struct {
	FromID     string     `json:"from_id"`
	ToID       string     `json:"to_id"`
	Kind       EdgeKind   `json:"kind"`
	LineNumber int        `json:"line_number"`
	Confidence float64    `json:"confidence"`
	Resolution Resolution `json:"resolution"`
	// TargetName is the bare name a guessed target was built from.
	TargetName string `json:"target_name,omitempty"`
}

// IsGuess reports whether the target id was derived from a bare name only.
func (e Edge) IsGuess() bool {
	return e.Resolution == ResolutionNameGuess
}

// Key is the stable identity of an edge within a batch.
func (e Edge) Key() string {
	return fmt.Sprintf("%s -%s-> %s@%d", e.FromID, e.Kind, e.ToID, e.LineNumber)
}

// ExtractionResult is the output of extracting one file. It is never mutated
// after it is returned; re-extraction produces a new result that supersedes
// the old one wholesale.
type ExtractionResult struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	FilePath string   `json:"file_path"`
	FileHash string   `json:"file_hash"`
	Language string   `json:"language"`
	Errors   []string `json:"errors,omitempty"`
}

// OK reports whether the result is complete. A result with errors must be
// treated as absent.
func (r *ExtractionResult) OK() bool {
	return r != nil && len(r.Errors) == 0
}

// FileNode returns the root file node, if present.
func (r *ExtractionResult) FileNode() (Node, bool) {
	if r == nil || len(r.Nodes) == 0 || r.Nodes[0].Kind != KindFile {
		return Node{}, false
	}
	return r.Nodes[0], true
}

func failedResult(filePath string, err error) *ExtractionResult {
	return &ExtractionResult{
		FilePath: filePath,
		Errors:   []string{err.Error()},
	}
}
