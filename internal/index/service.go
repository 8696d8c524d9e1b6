// Package index is the document index service: it ingests the configured
// document set into a vector store and answers similarity searches.
package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nestieai/nestie/internal/docs"
	"github.com/nestieai/nestie/internal/embeddings"
)

// Searcher is the retrieval interface consumed by the answer router.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]Passage, error)
}

// Service ties the embedder and the vector store together.
type Service struct {
	embedder embeddings.Embedder
	store    Store
	logger   *slog.Logger
}

// NewService builds the index service.
func NewService(log *slog.Logger, embedder embeddings.Embedder, store Store) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		embedder: embedder,
		store:    store,
		logger:   log.With(slog.String("component", "index")),
	}
}

// Setup reuses the persisted collection when it already holds passages,
// otherwise it chunks, embeds, and upserts the loaded documents. A document
// that fails to embed is skipped; ending up with neither persisted nor newly
// indexed passages is fatal, since there would be nothing to answer from.
func (s *Service) Setup(ctx context.Context, set *docs.Set, chunker *docs.Chunker) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("index count: %w", err)
	}
	if count > 0 {
		s.logger.Info("reusing existing index", slog.Uint64("passages", count))
		return nil
	}

	indexed := 0
	for _, doc := range set.Documents() {
		chunks := chunker.Split(doc)
		points := make([]Point, 0, len(chunks))
		failed := false
		for _, chunk := range chunks {
			vector, err := s.embedder.Embed(ctx, chunk.Content)
			if err != nil {
				s.logger.Warn("embedding failed, skipping document",
					slog.String("document", doc.Name), slog.Any("error", err))
				failed = true
				break
			}
			points = append(points, Point{
				ID:     uuid.NewString(),
				Vector: vector,
				Passage: Passage{
					Text:         chunk.Content,
					DocumentName: doc.Name,
					Page:         chunk.Ordinal,
					Source:       doc.Path,
				},
			})
		}
		if failed {
			continue
		}
		if err := s.store.Upsert(ctx, points); err != nil {
			s.logger.Warn("upsert failed, skipping document",
				slog.String("document", doc.Name), slog.Any("error", err))
			continue
		}
		indexed += len(points)
		s.logger.Info("document indexed", slog.String("document", doc.Name), slog.Int("passages", len(points)))
	}

	if indexed == 0 {
		return fmt.Errorf("no documents available to index")
	}
	s.logger.Info("index built", slog.Int("passages", indexed))
	return nil
}

// Search embeds the query and returns up to k nearest passages.
func (s *Service) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	passages, err := s.store.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return passages, nil
}
