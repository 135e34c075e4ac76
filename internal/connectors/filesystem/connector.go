// Package filesystem reads blog articles from a content tree laid out
// as content/<slug>/index.md(x). It is the default content source and
// supports watch-based incremental re-indexing via fsnotify.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/scribe-labs/scribe-cli/internal/core/domain"
	"github.com/scribe-labs/scribe-cli/internal/core/ports/driven"
	"github.com/scribe-labs/scribe-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.ContentSource = (*Connector)(nil)

// articleFiles are the file names recognised as an article body, in
// order of preference.
var articleFiles = []string{"index.md", "index.mdx"}

// Connector is a filesystem-backed content source.
type Connector struct {
	rootPath string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a filesystem connector rooted at rootPath.
func New(rootPath string) *Connector {
	return &Connector{rootPath: rootPath}
}

// List returns the slugs of all directories containing an article file,
// sorted alphabetically.
func (c *Connector) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	var slugs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if c.articlePath(entry.Name()) != "" {
			slugs = append(slugs, entry.Name())
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Load reads the raw article for a slug.
func (c *Connector) Load(_ context.Context, slug string) (*driven.RawArticle, error) {
	path := c.articlePath(slug)
	if path == "" {
		return nil, fmt.Errorf("%w: no article for slug %q", domain.ErrNotFound, slug)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &driven.RawArticle{
		Slug:    slug,
		Path:    path,
		Content: content,
	}, nil
}

// Watch emits the slug of any article whose file is created, written,
// or removed. The channel closes when the context is cancelled.
func (c *Connector) Watch(ctx context.Context) (<-chan string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("connector is closed")
	}

	if _, err := os.Stat(c.rootPath); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the root and every article directory. fsnotify does not
	// recurse, and each slug is one directory deep.
	if err := watcher.Add(c.rootPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching root: %w", err)
	}
	entries, err := os.ReadDir(c.rootPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("root path error: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := watcher.Add(filepath.Join(c.rootPath, entry.Name())); err != nil {
			logger.Warn("Failed to watch %s: %v", entry.Name(), err)
		}
	}

	c.watcher = watcher
	changes := make(chan string)

	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// New slug directory: start watching it.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := watcher.Add(event.Name); err != nil {
							logger.Warn("Failed to watch %s: %v", event.Name, err)
						}
						continue
					}
				}

				slug := c.slugForPath(event.Name)
				if slug == "" {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					select {
					case changes <- slug:
					case <-ctx.Done():
						return
					}
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watch error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops any active watcher and marks the connector closed.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}

// articlePath returns the path of the slug's article file, or "" when
// the slug has none.
func (c *Connector) articlePath(slug string) string {
	for _, name := range articleFiles {
		path := filepath.Join(c.rootPath, slug, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// slugForPath maps an event path back to a slug. Only article files
// directly under a slug directory count.
func (c *Connector) slugForPath(path string) string {
	rel, err := filepath.Rel(c.rootPath, path)
	if err != nil {
		return ""
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 2 {
		return ""
	}

	base := parts[1]
	for _, name := range articleFiles {
		if base == name {
			return parts[0]
		}
	}
	return ""
}
