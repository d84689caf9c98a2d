package crawler

import (
	"codegraph/internal/extractor"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnoredDirs are directory names that are never descended into:
// version control metadata, dependency caches and build output.
var DefaultIgnoredDirs = []string{
	".git", "node_modules", "__pycache__", ".venv", "venv",
	"dist", "build", ".next", "coverage", "vendor",
}

// Options extend the default ignore list.
type Options struct {
	// IgnoredDirs are additional directory names to prune.
	IgnoredDirs []string
	// Exclude holds glob patterns matched against the slash-separated
	// relative path and against the base name.
	Exclude []string
	// UseGitignore applies the root's .gitignore file.
	UseGitignore bool
}

// File is a supported source file found under the crawl root.
type File struct {
	Path     string
	RelPath  string
	Language extractor.Language
}

// Crawler scans a directory for source files.
type Crawler struct {
	ignored      map[string]bool
	excludes     []glob.Glob
	useGitignore bool
}

// NewCrawler creates a new crawler instance.
func NewCrawler(opts Options) (*Crawler, error) {
	ignored := make(map[string]bool, len(DefaultIgnoredDirs)+len(opts.IgnoredDirs))
	for _, name := range DefaultIgnoredDirs {
		ignored[name] = true
	}
	for _, name := range opts.IgnoredDirs {
		ignored[name] = true
	}

	excludes := make([]glob.Glob, 0, len(opts.Exclude))
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, g)
	}

	return &Crawler{
		ignored:      ignored,
		excludes:     excludes,
		useGitignore: opts.UseGitignore,
	}, nil
}

// ScanProject walks root depth-first in lexical order and calls onFile for
// every file whose extension maps to a supported language. Unreadable
// entries below root are logged and skipped. An error from onFile or from
// ctx stops the walk.
func (c *Crawler) ScanProject(ctx context.Context, root string, onFile func(File) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, fs.ErrInvalid)
	}

	var gi *ignore.GitIgnore
	if c.useGitignore {
		gi = loadGitignore(root)
	}

	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if p == root {
				return err
			}
			slog.Warn("skipping unreadable path", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if p != root && c.skipDir(rel, d.Name(), gi) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		lang, ok := extractor.DetectLanguage(d.Name())
		if !ok || c.skipFile(rel, gi) {
			return nil
		}
		return onFile(File{Path: p, RelPath: rel, Language: lang})
	})
}

// Files collects every file ScanProject would visit.
func (c *Crawler) Files(ctx context.Context, root string) ([]File, error) {
	var files []File
	err := c.ScanProject(ctx, root, func(f File) error {
		files = append(files, f)
		return nil
	})
	return files, err
}

// Relevant filters changed paths down to the ones a scan of root would
// visit: supported files below root that no ignore rule prunes. Paths need
// not exist, so deletions pass through.
func (c *Crawler) Relevant(root string, paths []string) []string {
	var gi *ignore.GitIgnore
	if c.useGitignore {
		gi = loadGitignore(root)
	}
	var out []string
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			continue
		}
		if _, ok := extractor.DetectLanguage(path.Base(rel)); !ok {
			continue
		}
		if c.ignores(rel, gi) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ignores reports whether a relative path would be pruned, either because
// one of its directories is ignored or because the file itself is excluded.
func (c *Crawler) ignores(rel string, gi *ignore.GitIgnore) bool {
	rel = path.Clean(rel)
	dir := path.Dir(rel)
	for dir != "." && dir != "/" {
		if c.skipDir(dir, path.Base(dir), gi) {
			return true
		}
		dir = path.Dir(dir)
	}
	return c.skipFile(rel, gi)
}

func (c *Crawler) skipDir(rel, name string, gi *ignore.GitIgnore) bool {
	if c.ignored[name] || c.excluded(rel, name) {
		return true
	}
	return gi != nil && gi.MatchesPath(rel+"/")
}

func (c *Crawler) skipFile(rel string, gi *ignore.GitIgnore) bool {
	if c.excluded(rel, path.Base(rel)) {
		return true
	}
	return gi != nil && gi.MatchesPath(rel)
}

func (c *Crawler) excluded(rel, name string) bool {
	for _, g := range c.excludes {
		if g.Match(rel) || g.Match(name) {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("ignoring unreadable .gitignore", "root", root, "error", err)
		}
		return nil
	}
	return gi
}
