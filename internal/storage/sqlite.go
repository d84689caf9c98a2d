package storage

import (
	"codegraph/internal/extractor"
	"codegraph/internal/graph"
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			kind TEXT,
			name TEXT,
			file_path TEXT,
			line_start INTEGER,
			line_end INTEGER,
			signature TEXT,
			language TEXT,
			visibility TEXT,
			hash TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS edges (
			from_id TEXT,
			to_id TEXT,
			kind TEXT,
			line_number INTEGER,
			confidence REAL,
			resolution TEXT,
			target_name TEXT,
			file_path TEXT,
			PRIMARY KEY (from_id, to_id, kind, line_number)
		);`,
		`CREATE TABLE IF NOT EXISTS file_hashes (
			path TEXT PRIMARY KEY,
			hash TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(file_path);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_file ON edges(file_path);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

const nodeColumns = "id, kind, name, file_path, line_start, line_end, signature, language, visibility, hash"

// --- CodeGraphStore Implementation ---

func (s *SQLiteStore) ReplaceFile(ctx context.Context, res *extractor.ExtractionResult) error {
	if !res.OK() {
		return fmt.Errorf("refusing to store failed extraction of %s", res.FilePath)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteFile(ctx, tx, res.FilePath); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, res.Nodes, res.Edges); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO file_hashes (path, hash) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET hash=excluded.hash
	`, res.FilePath, res.FileHash); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) RemoveFile(ctx context.Context, filePath string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteFile(ctx, tx, filePath); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM file_hashes WHERE path = ?", filePath); err != nil {
		return err
	}
	return tx.Commit()
}

// ApplySync replaces every file present in the batch, removes deleted
// files, and rewrites the checksum table, all in one transaction.
func (s *SQLiteStore) ApplySync(ctx context.Context, batch SyncBatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	touched := make(map[string]bool, len(batch.Deleted))
	for _, p := range batch.Deleted {
		touched[p] = true
	}
	for _, n := range batch.Nodes {
		touched[n.FilePath] = true
	}
	paths := make([]string, 0, len(touched))
	for p := range touched {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := deleteFile(ctx, tx, p); err != nil {
			return fmt.Errorf("failed to clear %s: %w", p, err)
		}
	}

	if err := insertRows(ctx, tx, batch.Nodes, batch.Edges); err != nil {
		return err
	}
	if err := writeHashes(ctx, tx, batch.Hashes); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteFile(ctx context.Context, tx *sql.Tx, filePath string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes WHERE file_path = ?", filePath); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM edges WHERE file_path = ?", filePath)
	return err
}

func insertRows(ctx context.Context, tx *sql.Tx, nodes []extractor.Node, edges []extractor.Edge) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (`+nodeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind=excluded.kind,
			name=excluded.name,
			file_path=excluded.file_path,
			line_start=excluded.line_start,
			line_end=excluded.line_end,
			signature=excluded.signature,
			language=excluded.language,
			visibility=excluded.visibility,
			hash=excluded.hash
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	owner := make(map[string]string, len(nodes))
	for _, n := range nodes {
		owner[n.ID] = n.FilePath
		if _, err := stmt.ExecContext(ctx, n.ID, n.Kind, n.Name, n.FilePath, n.LineStart, n.LineEnd, n.Signature, n.Language, n.Visibility, n.Hash); err != nil {
			return fmt.Errorf("failed to save node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (from_id, to_id, kind, line_number, confidence, resolution, target_name, file_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(from_id, to_id, kind, line_number) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer edgeStmt.Close()

	for _, e := range edges {
		filePath, ok := owner[e.FromID]
		if !ok {
			return fmt.Errorf("edge %s has no source node in batch", e.Key())
		}
		if _, err := edgeStmt.ExecContext(ctx, e.FromID, e.ToID, e.Kind, e.LineNumber, e.Confidence, e.Resolution, e.TargetName, filePath); err != nil {
			return fmt.Errorf("failed to save edge %s: %w", e.Key(), err)
		}
	}
	return nil
}

func (s *SQLiteStore) LoadGraph(ctx context.Context) (*graph.Graph, error) {
	// 1. Load Nodes
	rows, err := s.db.QueryContext(ctx, "SELECT "+nodeColumns+" FROM nodes ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	nodes, err := scanNodes(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan node: %w", err)
	}

	// 2. Load Edges
	edgeRows, err := s.db.QueryContext(ctx, "SELECT from_id, to_id, kind, line_number, confidence, resolution, target_name FROM edges ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()

	var edges []extractor.Edge
	for edgeRows.Next() {
		var e extractor.Edge
		if err := edgeRows.Scan(&e.FromID, &e.ToID, &e.Kind, &e.LineNumber, &e.Confidence, &e.Resolution, &e.TargetName); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}

	g := graph.NewGraph()
	g.Apply(nodes, edges, nil)
	return g, nil
}

func (s *SQLiteStore) GetNode(ctx context.Context, id string) (*extractor.Node, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+nodeColumns+" FROM nodes WHERE id = ?", id)

	var n extractor.Node
	if err := row.Scan(&n.ID, &n.Kind, &n.Name, &n.FilePath, &n.LineStart, &n.LineEnd, &n.Signature, &n.Language, &n.Visibility, &n.Hash); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *SQLiteStore) FindNodesByFile(ctx context.Context, filePath string) ([]extractor.Node, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+nodeColumns+" FROM nodes WHERE file_path = ? ORDER BY rowid", filePath)
	if err != nil {
		return nil, err
	}
	return scanNodes(rows)
}

func scanNodes(rows *sql.Rows) ([]extractor.Node, error) {
	defer rows.Close()

	var nodes []extractor.Node
	for rows.Next() {
		var n extractor.Node
		if err := rows.Scan(&n.ID, &n.Kind, &n.Name, &n.FilePath, &n.LineStart, &n.LineEnd, &n.Signature, &n.Language, &n.Visibility, &n.Hash); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// --- HashStore Implementation ---

func (s *SQLiteStore) LoadHashes(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, hash FROM file_hashes")
	if err != nil {
		return nil, fmt.Errorf("failed to query file hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan file hash: %w", err)
		}
		hashes[path] = hash
	}
	return hashes, rows.Err()
}

func (s *SQLiteStore) SaveHashes(ctx context.Context, hashes map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := writeHashes(ctx, tx, hashes); err != nil {
		return err
	}
	return tx.Commit()
}

func writeHashes(ctx context.Context, tx *sql.Tx, hashes map[string]string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM file_hashes"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO file_hashes (path, hash) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for path, hash := range hashes {
		if _, err := stmt.ExecContext(ctx, path, hash); err != nil {
			return fmt.Errorf("failed to save hash for %s: %w", path, err)
		}
	}
	return nil
}
