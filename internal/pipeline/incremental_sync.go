package pipeline

import (
	"codegraph/internal/graph"
	"codegraph/internal/observability"
	"codegraph/internal/storage"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// IncrementalSync runs the engine against a store: it loads the stored
// checksum table, syncs the project, and persists the batch. When Graph is
// set the in-memory graph is kept in step with the store.
type IncrementalSync struct {
	Store       storage.Store
	Engine      *Engine
	ProjectRoot string
	Graph       *graph.Graph
	// Out receives progress lines. Nil means stdout.
	Out io.Writer
}

func NewIncrementalSync(store storage.Store, engine *Engine, projectRoot string) *IncrementalSync {
	return &IncrementalSync{
		Store:       store,
		Engine:      engine,
		ProjectRoot: projectRoot,
	}
}

func (s *IncrementalSync) out() io.Writer {
	if s.Out == nil {
		return os.Stdout
	}
	return s.Out
}

func (s *IncrementalSync) Run(ctx context.Context, full bool) (*SyncResult, error) {
	previous, err := s.loadHashesStage(ctx)
	if err != nil {
		return nil, err
	}

	result := s.syncStage(ctx, previous, full)
	if result.Aborted {
		return result, fmt.Errorf("sync aborted: %s", strings.Join(result.Errors, "; "))
	}

	if result.FilesProcessed == 0 && len(result.Deleted) == 0 && len(result.NewHashes) == len(previous) {
		fmt.Fprintln(s.out(), "✅ No changes detected.")
		return result, nil
	}

	if err := s.persistStage(ctx, result); err != nil {
		return result, err
	}
	s.graphUpdateStage(result)
	return result, nil
}

func (s *IncrementalSync) loadHashesStage(ctx context.Context) (map[string]string, error) {
	previous, err := s.Store.LoadHashes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load file hashes: %w", err)
	}
	if len(previous) > 0 {
		fmt.Fprintf(s.out(), "🔄 Loaded %d stored file checksums.\n", len(previous))
	}
	return previous, nil
}

func (s *IncrementalSync) syncStage(ctx context.Context, previous map[string]string, full bool) *SyncResult {
	mode := ModeIncremental
	if full {
		mode = ModeFull
		fmt.Fprintln(s.out(), "🧭 Running full sync from current codebase.")
	}

	start := time.Now()
	result := s.Engine.Sync(ctx, s.ProjectRoot, previous, mode)
	fmt.Fprintf(s.out(), "📊 Sync: %d files processed, %d skipped, %d deleted in %v.\n",
		result.FilesProcessed, result.FilesSkipped, len(result.Deleted), time.Since(start))
	fmt.Fprintf(s.out(), "  -> Nodes: %d, edges: %d\n", len(result.Nodes), len(result.Edges))
	for _, e := range result.Errors {
		log.Printf("⚠️ %s", e)
	}
	return result
}

func (s *IncrementalSync) persistStage(ctx context.Context, result *SyncResult) error {
	err := s.Store.ApplySync(ctx, storage.SyncBatch{
		Nodes:   result.Nodes,
		Edges:   result.Edges,
		Deleted: result.Deleted,
		Hashes:  result.NewHashes,
	})
	if err != nil {
		return fmt.Errorf("failed to save sync result: %w", err)
	}
	fmt.Fprintln(s.out(), "💾 Graph saved.")
	return nil
}

func (s *IncrementalSync) graphUpdateStage(result *SyncResult) {
	if s.Graph == nil {
		return
	}
	s.Graph.Apply(result.Nodes, result.Edges, result.Deleted)

	observability.GraphNodes.Set(float64(len(s.Graph.Nodes)))
	observability.GraphEdges.Set(float64(len(s.Graph.Edges())))

	outcomes := s.Graph.GuessOutcomeCounts()
	fmt.Fprintf(s.out(), "  -> Name guesses: unique=%d ambiguous=%d no_candidate=%d\n",
		outcomes[graph.OutcomeUnique], outcomes[graph.OutcomeAmbiguous], outcomes[graph.OutcomeNoCandidate])
}
