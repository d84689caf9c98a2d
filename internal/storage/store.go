package storage

import (
	"codegraph/internal/extractor"
	"codegraph/internal/graph"
	"context"
)

// Store combines graph and checksum storage capabilities.
type Store interface {
	CodeGraphStore
	HashStore
	// ApplySync persists a whole sync batch atomically.
	ApplySync(ctx context.Context, batch SyncBatch) error
	Close() error
}

// CodeGraphStore defines operations for persisting extraction results.
type CodeGraphStore interface {
	// ReplaceFile drops every node and edge recorded for the result's file
	// and inserts the result's instead.
	ReplaceFile(ctx context.Context, res *extractor.ExtractionResult) error

	// RemoveFile drops every node and edge recorded for a file.
	RemoveFile(ctx context.Context, filePath string) error

	// LoadGraph rebuilds the in-memory graph from the stored rows.
	LoadGraph(ctx context.Context) (*graph.Graph, error)

	// GetNode retrieves a node by its ID.
	GetNode(ctx context.Context, id string) (*extractor.Node, error)

	// FindNodesByFile retrieves all nodes belonging to a specific file.
	FindNodesByFile(ctx context.Context, filePath string) ([]extractor.Node, error)
}

// HashStore keeps the per-file checksum table used by incremental sync.
type HashStore interface {
	LoadHashes(ctx context.Context) (map[string]string, error)
	SaveHashes(ctx context.Context, hashes map[string]string) error
}

// SyncBatch is the storage view of one sync run: the nodes and edges of
// every re-extracted file, the paths that disappeared, and the complete new
// checksum table.
type SyncBatch struct {
	Nodes   []extractor.Node
	Edges   []extractor.Edge
	Deleted []string
	Hashes  map[string]string
}
