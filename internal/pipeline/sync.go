package pipeline

import (
	"codegraph/internal/crawler"
	"codegraph/internal/extractor"
	"codegraph/internal/observability"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrDirectoryNotFound = errors.New("directory not found")

// Mode selects whether unchanged files may be skipped.
type Mode string

const (
	ModeIncremental Mode = "incremental"
	ModeFull        Mode = "full"
)

// SyncResult aggregates one sync run over a directory tree.
type SyncResult struct {
	Nodes          []extractor.Node  `json:"nodes"`
	Edges          []extractor.Edge  `json:"edges"`
	FilesProcessed int               `json:"files_processed"`
	FilesSkipped   int               `json:"files_skipped"`
	Errors         []string          `json:"errors,omitempty"`
	NewHashes      map[string]string `json:"new_hashes"`
	// Deleted lists previous-table paths that are no longer present.
	Deleted []string `json:"deleted,omitempty"`
	// Updated lists the paths whose nodes and edges are in this result.
	Updated []string `json:"updated,omitempty"`
	// Aborted is set when the walk did not complete. NewHashes and Deleted
	// are then partial and must not replace a stored checksum table.
	Aborted bool `json:"aborted,omitempty"`
}

// Options configure an Engine.
type Options struct {
	// Workers above one extract files concurrently.
	Workers int
	Crawler crawler.Options
}

// Engine drives single-file extractions over a directory tree.
type Engine struct {
	crawler    *crawler.Crawler
	workers    int
	extractors map[extractor.Language]*extractor.Extractor
}

// NewEngine creates an engine. Invalid exclude patterns are reported here.
func NewEngine(opts Options) (*Engine, error) {
	cr, err := crawler.NewCrawler(opts.Crawler)
	if err != nil {
		return nil, err
	}

	exts := make(map[extractor.Language]*extractor.Extractor)
	for _, lang := range extractor.SupportedLanguages() {
		ext, err := extractor.NewExtractor(lang)
		if err != nil {
			return nil, err
		}
		exts[lang] = ext
	}

	return &Engine{crawler: cr, workers: opts.Workers, extractors: exts}, nil
}

// Crawler returns the walker the engine uses, so callers can apply the same
// ignore rules to paths reported from elsewhere.
func (e *Engine) Crawler() *crawler.Crawler {
	return e.crawler
}

type fileOutcome struct {
	done    bool
	skipped bool
	hash    string
	result  *extractor.ExtractionResult
	err     string
}

// Sync walks root and extracts every supported file. In incremental mode a
// file whose checksum equals its entry in previous is skipped and its hash is
// carried forward. previous is only read.
func (e *Engine) Sync(ctx context.Context, root string, previous map[string]string, mode Mode) *SyncResult {
	start := time.Now()
	defer func() {
		observability.SyncDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	}()

	res := &SyncResult{NewHashes: make(map[string]string)}

	files, err := e.crawler.Files(ctx, root)
	if err != nil {
		res.Aborted = true
		switch {
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrInvalid):
			res.Errors = append(res.Errors, fmt.Errorf("%w: %s", ErrDirectoryNotFound, root).Error())
		default:
			res.Errors = append(res.Errors, fmt.Sprintf("walk %s: %v", root, err))
		}
		observability.ExtractionErrorsTotal.Add(float64(len(res.Errors)))
		return res
	}

	outcomes := make([]fileOutcome, len(files))
	if err := e.process(ctx, files, previous, mode, outcomes); err != nil {
		res.Aborted = true
		res.Errors = append(res.Errors, fmt.Sprintf("sync %s: %v", root, err))
	}

	present := make(map[string]bool, len(files))
	for i, f := range files {
		present[f.RelPath] = true
		o := outcomes[i]
		switch {
		case !o.done:
		case o.err != "":
			res.Errors = append(res.Errors, o.err)
		case o.skipped:
			res.FilesSkipped++
			res.NewHashes[f.RelPath] = o.hash
		case !o.result.OK():
			res.Errors = append(res.Errors, o.result.Errors...)
		default:
			res.Nodes = append(res.Nodes, o.result.Nodes...)
			res.Edges = append(res.Edges, o.result.Edges...)
			res.NewHashes[f.RelPath] = o.hash
			res.Updated = append(res.Updated, f.RelPath)
			res.FilesProcessed++
		}
	}

	if !res.Aborted {
		for p := range previous {
			if !present[p] {
				res.Deleted = append(res.Deleted, p)
			}
		}
		sort.Strings(res.Deleted)
	}

	observability.FilesProcessedTotal.Add(float64(res.FilesProcessed))
	observability.FilesSkippedTotal.Add(float64(res.FilesSkipped))
	observability.ExtractionErrorsTotal.Add(float64(len(res.Errors)))

	slog.Info("sync finished",
		"root", root,
		"mode", mode,
		"processed", res.FilesProcessed,
		"skipped", res.FilesSkipped,
		"deleted", len(res.Deleted),
		"errors", len(res.Errors),
		"duration", time.Since(start))
	return res
}

// process fills outcomes in walk order. Outcomes of files not reached
// before ctx is canceled stay zero.
func (e *Engine) process(ctx context.Context, files []crawler.File, previous map[string]string, mode Mode, outcomes []fileOutcome) error {
	if e.workers <= 1 {
		for i, f := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.processFile(f, previous, mode)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.processFile(f, previous, mode)
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) processFile(f crawler.File, previous map[string]string, mode Mode) fileOutcome {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return fileOutcome{done: true, err: fmt.Errorf("%w: %s: %v", extractor.ErrReadFailure, f.RelPath, err).Error()}
	}

	hash := extractor.Checksum(content)
	if mode == ModeIncremental {
		if old, ok := previous[f.RelPath]; ok && old == hash {
			slog.Debug("skipping unchanged file", "path", f.RelPath)
			return fileOutcome{done: true, skipped: true, hash: hash}
		}
	}

	ext, ok := e.extractors[f.Language]
	if !ok {
		return fileOutcome{done: true, err: fmt.Errorf("%w: %s", extractor.ErrUnsupportedLanguage, f.RelPath).Error()}
	}

	start := time.Now()
	result := ext.ExtractBytes(content, f.RelPath)
	observability.ExtractionDuration.WithLabelValues(string(f.Language)).Observe(time.Since(start).Seconds())
	if !result.OK() {
		slog.Warn("extraction failed", "path", f.RelPath, "errors", result.Errors)
	}
	return fileOutcome{done: true, hash: hash, result: result}
}
