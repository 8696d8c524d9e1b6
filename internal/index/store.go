package index

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/qdrant/go-client/qdrant"
)

// Passage is one indexed document excerpt with its source metadata.
type Passage struct {
	Text         string
	DocumentName string
	Page         int
	Source       string
}

// Point is a passage with its embedding, ready to upsert.
type Point struct {
	ID      string
	Vector  []float32
	Passage Passage
}

// Store is the persistence layer behind the index service.
type Store interface {
	Count(ctx context.Context) (uint64, error)
	Upsert(ctx context.Context, points []Point) error
	Search(ctx context.Context, vector []float32, limit int) ([]Passage, error)
}

// QdrantStore persists document passages in a Qdrant collection. The
// collection outlives the process, which is what makes the index reusable
// across restarts.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	dimension  int
	timeout    time.Duration
	logger     *slog.Logger
}

// NewQdrantStore connects to Qdrant and makes sure the collection exists.
func NewQdrantStore(log *slog.Logger, baseURL, apiKey, collection string, dimension int, timeout time.Duration) (*QdrantStore, error) {
	host, port, useTLS, err := parseEndpoint(baseURL)
	if err != nil {
		return nil, err
	}
	if collection == "" {
		collection = "documents"
	}
	if dimension <= 0 {
		dimension = 1536
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, err
	}

	store := &QdrantStore{
		client:     client,
		collection: collection,
		dimension:  dimension,
		timeout:    timeout,
		logger:     log.With(slog.String("store", "qdrant")),
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := store.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Count reports the number of stored passages.
func (s *QdrantStore) Count(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Exact:          qdrant.PtrOf(true),
	})
}

// Upsert writes the given points, waiting for them to be applied.
func (s *QdrantStore) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	qPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, point := range points {
		payload, err := qdrant.TryValueMap(map[string]any{
			"text":          point.Passage.Text,
			"document_name": point.Passage.DocumentName,
			"page":          point.Passage.Page,
			"source":        point.Passage.Source,
		})
		if err != nil {
			return err
		}
		qPoints = append(qPoints, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(point.ID),
			Vectors: qdrant.NewVectorsDense(point.Vector),
			Payload: payload,
		})
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qPoints,
	})
	return err
}

// Search returns the passages closest to the given vector, best first.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit int) ([]Passage, error) {
	if limit <= 0 {
		limit = 3
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQueryDense(vector),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	passages := make([]Passage, 0, len(results))
	for _, scored := range results {
		passages = append(passages, payloadToPassage(scored.GetPayload()))
	}
	return passages, nil
}

func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func payloadToPassage(payload map[string]*qdrant.Value) Passage {
	passage := Passage{}
	if v, ok := payload["text"]; ok {
		passage.Text = v.GetStringValue()
	}
	if v, ok := payload["document_name"]; ok {
		passage.DocumentName = v.GetStringValue()
	}
	if v, ok := payload["page"]; ok {
		passage.Page = int(v.GetIntegerValue())
	}
	if v, ok := payload["source"]; ok {
		passage.Source = v.GetStringValue()
	}
	return passage
}

func parseEndpoint(endpoint string) (string, int, bool, error) {
	if endpoint == "" {
		return "127.0.0.1", 6334, false, nil
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", 0, false, err
	}
	host := parsed.Hostname()
	if host == "" {
		host = "127.0.0.1"
	}
	port := 6334
	if parsed.Port() != "" {
		parsedPort, err := strconv.Atoi(parsed.Port())
		if err != nil {
			return "", 0, false, fmt.Errorf("invalid qdrant port: %w", err)
		}
		port = parsedPort
	}
	return host, port, parsed.Scheme == "https", nil
}
