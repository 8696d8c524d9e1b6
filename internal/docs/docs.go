// Package docs loads the configured document set and splits documents into
// passages for indexing.
package docs

import (
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Document is one loaded source document.
type Document struct {
	Name    string
	Path    string
	Content string
}

// Set is the configured document collection, loaded once at startup and
// read-only thereafter.
type Set struct {
	documents []Document
	names     []string
	logger    *slog.Logger
}

// LoadSet reads every configured document (name -> path). Missing or
// unreadable files are skipped with a warning; whether an empty set is fatal
// is decided at indexing time, where the persisted collection is known.
func LoadSet(log *slog.Logger, paths map[string]string) *Set {
	if log == nil {
		log = slog.Default()
	}
	set := &Set{logger: log.With(slog.String("component", "docs"))}

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := paths[name]
		data, err := os.ReadFile(path)
		if err != nil {
			set.logger.Warn("skipping document", slog.String("name", name), slog.String("path", path), slog.Any("error", err))
			continue
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			set.logger.Warn("document is empty", slog.String("name", name), slog.String("path", path))
			continue
		}
		set.documents = append(set.documents, Document{Name: name, Path: path, Content: content})
		set.names = append(set.names, name)
		set.logger.Info("document loaded", slog.String("name", name), slog.Int("bytes", len(content)))
	}

	if len(paths) > 0 && len(set.documents) == 0 {
		set.logger.Warn("no documents could be loaded", slog.Int("configured", len(paths)))
	}
	return set
}

// Documents returns the loaded documents.
func (s *Set) Documents() []Document {
	return s.documents
}

// Names returns the display names of successfully loaded documents, sorted.
func (s *Set) Names() []string {
	return s.names
}

// Len reports the number of loaded documents.
func (s *Set) Len() int {
	return len(s.documents)
}
