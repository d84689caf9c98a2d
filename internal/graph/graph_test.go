package graph

import (
	"codegraph/internal/extractor"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractJava(t *testing.T, path, src string) *extractor.ExtractionResult {
	t.Helper()
	ext, err := extractor.NewExtractor(extractor.LangJava)
	require.NoError(t, err)
	res := ext.Extract(src, path)
	require.True(t, res.OK(), res.Errors)
	return res
}

const baseSrc = `package app;

public class Base {
    public void run() {}
}
`

const childSrc = `package app;

import app.Base;

public class Child extends Base {
    public void go() {}
}
`

func TestGraph_ReplaceFile(t *testing.T) {
	g := NewGraph()
	require.True(t, g.ReplaceFile(extractJava(t, "Base.java", baseSrc)))
	require.True(t, g.ReplaceFile(extractJava(t, "Child.java", childSrc)))

	assert.Equal(t, []string{"Base.java", "Child.java"}, g.Files())
	assert.Len(t, g.Nodes, 6)

	t.Run("Re-extraction replaces instead of merging", func(t *testing.T) {
		renamed := `package app;

public class Base {
    public void start() {}
}
`
		require.True(t, g.ReplaceFile(extractJava(t, "Base.java", renamed)))
		assert.Len(t, g.Nodes, 6)
		_, hasOld := g.Nodes["function.Base.java:app.run"]
		assert.False(t, hasOld)
		_, hasNew := g.Nodes["function.Base.java:app.start"]
		assert.True(t, hasNew)
		assert.Len(t, g.Find(Filter{FilePath: "Base.java"}), 3)
	})

	t.Run("Failed results are ignored", func(t *testing.T) {
		failed := &extractor.ExtractionResult{FilePath: "Base.java", Errors: []string{"read failure"}}
		assert.False(t, g.ReplaceFile(failed))
		assert.Len(t, g.Find(Filter{FilePath: "Base.java"}), 3)
	})

	t.Run("RemoveFile", func(t *testing.T) {
		assert.True(t, g.RemoveFile("Base.java"))
		assert.False(t, g.RemoveFile("Base.java"))
		assert.Equal(t, []string{"Child.java"}, g.Files())
		assert.Empty(t, g.Find(Filter{Kind: extractor.KindClass, Language: "java", IDPrefix: "class.Base.java"}))
	})
}

func TestGraph_Apply(t *testing.T) {
	g := NewGraph()
	g.ReplaceFile(extractJava(t, "Old.java", "package app;\nclass Old {}\n"))

	base := extractJava(t, "Base.java", baseSrc)
	child := extractJava(t, "Child.java", childSrc)

	var nodes []extractor.Node
	var edges []extractor.Edge
	for _, res := range []*extractor.ExtractionResult{base, child} {
		nodes = append(nodes, res.Nodes...)
		edges = append(edges, res.Edges...)
	}
	g.Apply(nodes, edges, []string{"Old.java"})

	assert.Equal(t, []string{"Base.java", "Child.java"}, g.Files())
	assert.Len(t, g.Edges(), len(edges))

	hash, ok := g.FileHash("Child.java")
	require.True(t, ok)
	assert.Equal(t, child.FileHash, hash)
}

func TestGraph_Queries(t *testing.T) {
	g := NewGraph()
	g.ReplaceFile(extractJava(t, "Base.java", baseSrc))
	g.ReplaceFile(extractJava(t, "Child.java", childSrc))

	childID := "class.Child.java:app.Child"

	t.Run("Filters", func(t *testing.T) {
		classes := g.Find(Filter{Kind: extractor.KindClass})
		require.Len(t, classes, 2)
		assert.Equal(t, "class.Base.java:app.Base", classes[0].ID)
		assert.Equal(t, childID, classes[1].ID)

		assert.Len(t, g.Find(Filter{IDPrefix: "function."}), 2)
	})

	t.Run("Dependencies", func(t *testing.T) {
		deps := g.GetDependencies(childID)
		kinds := make([]extractor.EdgeKind, 0, len(deps))
		for _, e := range deps {
			kinds = append(kinds, e.Kind)
		}
		assert.ElementsMatch(t, []extractor.EdgeKind{extractor.EdgeContains, extractor.EdgeExtends}, kinds)
	})

	t.Run("Dependents", func(t *testing.T) {
		deps := g.GetDependents(childID)
		require.Len(t, deps, 1)
		assert.Equal(t, extractor.EdgeDefines, deps[0].Kind)
		assert.Equal(t, "file.Child.java", deps[0].FromID)
	})

	t.Run("Candidates for guessed supertypes", func(t *testing.T) {
		var extends extractor.Edge
		for _, e := range g.GetDependencies(childID) {
			if e.Kind == extractor.EdgeExtends {
				extends = e
			}
		}
		require.True(t, extends.IsGuess())
		cands := g.Candidates(extends)
		require.Len(t, cands, 1)
		assert.Equal(t, "class.Base.java:app.Base", cands[0].ID)
	})

	t.Run("Counts", func(t *testing.T) {
		counts := g.ResolutionCounts()
		assert.Equal(t, 1, counts[extractor.ResolutionNameGuess])
		assert.Equal(t, 1, counts[extractor.ResolutionLiteral])
		assert.Equal(t, 4, counts[extractor.ResolutionLocal])
		assert.Equal(t, map[GuessOutcome]int{OutcomeUnique: 1}, g.GuessOutcomeCounts())

		g.RemoveFile("Base.java")
		assert.Equal(t, map[GuessOutcome]int{OutcomeNoCandidate: 1}, g.GuessOutcomeCounts())
	})
}
