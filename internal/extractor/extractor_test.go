package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, lang Language, filePath, content string) *ExtractionResult {
	t.Helper()
	ext, err := NewExtractor(lang)
	require.NoError(t, err)
	res := ext.Extract(content, filePath)
	require.True(t, res.OK(), "unexpected errors: %v", res.Errors)
	assertBatchInvariants(t, res)
	return res
}

// assertBatchInvariants checks unique node ids and that every edge starts at
// a node of the batch.
func assertBatchInvariants(t *testing.T, res *ExtractionResult) {
	t.Helper()
	ids := make(map[string]bool)
	for _, n := range res.Nodes {
		assert.False(t, ids[n.ID], "duplicate node id %s", n.ID)
		ids[n.ID] = true
	}
	for _, e := range res.Edges {
		assert.True(t, ids[e.FromID], "edge %s has no source node", e.Key())
		if e.Resolution == ResolutionLocal {
			assert.True(t, ids[e.ToID], "local edge %s has no target node", e.Key())
		}
	}
}

func findNode(res *ExtractionResult, kind NodeKind, name string) (Node, bool) {
	for _, n := range res.Nodes {
		if n.Kind == kind && n.Name == name {
			return n, true
		}
	}
	return Node{}, false
}

func nodesOfKind(res *ExtractionResult, kind NodeKind) []Node {
	var out []Node
	for _, n := range res.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func edgesOfKind(res *ExtractionResult, kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range res.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func edgeTargets(edges []Edge) []string {
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.ToID)
	}
	return out
}

func TestExtractor_GoSample(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("testdata", "sample.go"))
	require.NoError(t, err)

	res := extract(t, LangGo, "sample.go", string(content))

	t.Run("Overall Count", func(t *testing.T) {
		// file + Version, StatusOK, StatusError, GlobalVar, Base, User, Status,
		// Handler, MyFunc, MyFunction, MyMethod, process
		assert.Len(t, res.Nodes, 13)
		assert.Equal(t, KindFile, res.Nodes[0].Kind)
		assert.Equal(t, Checksum(content), res.FileHash)
		assert.Equal(t, "go", res.Language)
	})

	t.Run("Imports", func(t *testing.T) {
		imports := edgesOfKind(res, EdgeImports)
		require.Len(t, imports, 2)
		assert.Equal(t, "package.fmt", imports[0].ToID)
		assert.Equal(t, 4, imports[0].LineNumber)
		assert.Equal(t, "package.strings", imports[1].ToID)
		assert.Equal(t, ResolutionLiteral, imports[1].Resolution)
	})

	t.Run("Constants", func(t *testing.T) {
		n, ok := findNode(res, KindConstant, "Version")
		require.True(t, ok)
		assert.Equal(t, "constant.sample.go:sample.Version", n.ID)
		assert.Equal(t, 9, n.LineStart)

		n, ok = findNode(res, KindConstant, "StatusError")
		require.True(t, ok)
		assert.Equal(t, 15, n.LineStart)
		assert.Equal(t, 15, n.LineEnd)
	})

	t.Run("Variables", func(t *testing.T) {
		n, ok := findNode(res, KindVariable, "GlobalVar")
		require.True(t, ok)
		assert.Equal(t, VisibilityPublic, n.Visibility)
	})

	t.Run("Types", func(t *testing.T) {
		n, ok := findNode(res, KindClass, "User")
		require.True(t, ok)
		assert.Equal(t, 27, n.LineStart)
		assert.Equal(t, 31, n.LineEnd)

		n, ok = findNode(res, KindInterface, "Handler")
		require.True(t, ok)
		assert.Equal(t, 41, n.LineEnd, "interface{} inside the body must not close the block")

		n, ok = findNode(res, KindType, "Status")
		require.True(t, ok)
		assert.Equal(t, n.LineStart, n.LineEnd)
	})

	t.Run("Functions", func(t *testing.T) {
		n, ok := findNode(res, KindFunction, "MyFunc")
		require.True(t, ok)
		assert.Equal(t, "func MyFunc(a int, b string) bool", n.Signature)
		assert.Equal(t, 44, n.LineStart)
		assert.Equal(t, 48, n.LineEnd)

		n, ok = findNode(res, KindFunction, "process")
		require.True(t, ok)
		assert.Equal(t, VisibilityPackage, n.Visibility)
		assert.Equal(t, "func process(data interface{}) (int, error)", n.Signature)
		assert.Equal(t, 62, n.LineEnd)
	})

	t.Run("Methods", func(t *testing.T) {
		n, ok := findNode(res, KindFunction, "MyMethod")
		require.True(t, ok)
		assert.Equal(t, "function.sample.go:sample.User.MyMethod", n.ID)
		assert.Equal(t, "func (u *User) MyMethod(msg string)", n.Signature)
		assert.Equal(t, 58, n.LineEnd, "quoted brace must not close the block")
	})

	t.Run("Top Level Declarations", func(t *testing.T) {
		assert.Len(t, edgesOfKind(res, EdgeDefines), 12)
		assert.Empty(t, edgesOfKind(res, EdgeContains))
	})
}

func TestExtractor_Idempotent(t *testing.T) {
	src := `package a.b;

import java.util.List;

public class C extends Base implements Runnable {
    public void run() {}
}
`
	first := extract(t, LangJava, "src/C.java", src)
	second := extract(t, LangJava, "src/C.java", src)
	assert.Equal(t, first, second)
}

func TestExtractor_GoGroupedSpecsAreTopLevelOnly(t *testing.T) {
	src := "package obs\n\n" +
		"var (\n" +
		"\tx = T{\n" +
		"\t\tName: \"a\",\n" +
		"\t\tHelp: `{ multi\n" +
		"line`,\n" +
		"\t\tBuckets: []float64{\n" +
		"\t\t\t1, 2,\n" +
		"\t\t},\n" +
		"\t}\n" +
		"\ty int\n" +
		"\tp, q = f(\n" +
		"\t\tHelp,\n" +
		"\t)\n" +
		"\tz = \"}\"\n" +
		"\tw *T\n" +
		")\n\n" +
		"const (\n" +
		"\tA Mode = iota\n" +
		"\tB\n" +
		"\tC // trailing\n" +
		")\n"
	res := extract(t, LangGo, "metrics.go", src)

	var vars, consts []string
	for _, n := range nodesOfKind(res, KindVariable) {
		vars = append(vars, n.Name)
	}
	for _, n := range nodesOfKind(res, KindConstant) {
		consts = append(consts, n.Name)
	}
	assert.Equal(t, []string{"x", "y", "p", "z", "w"}, vars)
	assert.Equal(t, []string{"A", "B", "C"}, consts)
}

func TestExtractor_DuplicateIDsKeepFirst(t *testing.T) {
	src := `class Runner {
    void run() {}
    void run(int times) {}
}
`
	res := extract(t, LangJava, "Runner.java", src)
	fns := nodesOfKind(res, KindFunction)
	require.Len(t, fns, 1)
	assert.Equal(t, 2, fns[0].LineStart)
	assert.Len(t, edgesOfKind(res, EdgeContains), 1)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("file not found", func(t *testing.T) {
		res := ExtractFile(filepath.Join(dir, "missing.java"))
		assert.Empty(t, res.Nodes)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], ErrFileNotFound.Error())
		assert.False(t, res.OK())
	})

	t.Run("unsupported language", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
		res := ExtractFile(path)
		assert.Empty(t, res.Nodes)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], ErrUnsupportedLanguage.Error())
	})

	t.Run("read failure", func(t *testing.T) {
		path := filepath.Join(dir, "binary.py")
		require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x81}, 0o644))
		res := ExtractFile(path)
		assert.Empty(t, res.Nodes)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], ErrReadFailure.Error())
	})

	t.Run("success", func(t *testing.T) {
		path := filepath.Join(dir, "Test.java")
		require.NoError(t, os.WriteFile(path, []byte(`
package com.example;

public class Test {
    public void hello() {}
}
`), 0o644))
		res := ExtractFile(path)
		assert.True(t, res.OK())
		assert.Equal(t, "java", res.Language)
		assert.Len(t, nodesOfKind(res, KindClass), 1)
		assert.Len(t, nodesOfKind(res, KindFunction), 1)
	})
}

func TestNewExtractor_Unsupported(t *testing.T) {
	_, err := NewExtractor(Language("cobol"))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	_, err = ForPath("main.rs")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}
