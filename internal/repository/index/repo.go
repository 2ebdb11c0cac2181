package index

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/docsage/docsage/internal/db"
	"github.com/docsage/docsage/internal/db/redis"
	"github.com/docsage/docsage/internal/domain"
)

// store is the consumer interface for index management (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Manager implements the vector index side of retrieval and ingestion:
// collection lifecycle, point upsert, KNN search and paginated scroll.
type Manager struct {
	store store
	hnsw  HNSWConfig
	now   func() time.Time
}

// New creates an index manager.
func New(s store) *Manager {
	return &Manager{
		store: s,
		hnsw:  HNSWConfig{M: 32, EFConstruct: 400},
		now:   time.Now,
	}
}

// WithHNSW configures HNSW index parameters.
func (m *Manager) WithHNSW(cfg HNSWConfig) *Manager {
	if cfg.M > 0 {
		m.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		m.hnsw.EFConstruct = cfg.EFConstruct
	}
	return m
}

// EnsureCollection creates the collection if absent. A second call with the
// same vector dimension is a no-op; a different dimension returns
// domain.ErrVectorDimMismatch. On FT.CREATE failure the metadata HSET is
// rolled back via DEL.
func (m *Manager) EnsureCollection(ctx context.Context, name string, vectorDim int) error {
	if vectorDim <= 0 {
		return fmt.Errorf("vector dim must be positive, got %d", vectorDim)
	}

	key := metaKey(name)
	exists, err := m.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		meta, err := m.store.HGetAll(ctx, key)
		if err != nil {
			return fmt.Errorf("hgetall collection %s: %w", name, err)
		}
		storedDim, _ := strconv.Atoi(meta["vector_dim"])
		if storedDim != vectorDim {
			return fmt.Errorf("collection %s has dim %d, got %d: %w",
				name, storedDim, vectorDim, domain.ErrVectorDimMismatch)
		}
		return nil
	}

	indexDef := buildIndex(name, vectorDim, m.hnsw)

	if err := m.store.HSet(ctx, key, map[string]string{
		"name":       name,
		"vector_dim": strconv.Itoa(vectorDim),
		"created_at": strconv.FormatInt(m.now().UnixMilli(), 10),
	}); err != nil {
		return fmt.Errorf("hset collection %s: %w", name, err)
	}

	if err := m.store.CreateIndex(ctx, indexDef); err != nil {
		// Lost race against a concurrent creator; the index is there.
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		cleanupErr := m.store.Del(ctx, key)
		return errors.Join(fmt.Errorf("create index %s: %w", indexDef.Name, err), cleanupErr)
	}

	return nil
}

// Upsert writes points into a collection, one hash per point, in a single
// pipelined round-trip. Existing IDs are overwritten.
func (m *Manager) Upsert(ctx context.Context, collection string, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(points))
	for i, p := range points {
		items[i] = db.HashSetItem{
			Key:    pointKey(collection, p.ID),
			Fields: pointToHash(p),
		}
	}

	if err := m.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert %d points into %s: %w", len(points), collection, err)
	}
	return nil
}

// Search performs a KNN similarity search and returns passages ranked by
// descending similarity. Entries with an empty text payload are dropped.
func (m *Manager) Search(
	ctx context.Context, collection string, vector []float32, topK int,
) ([]domain.ScoredPassage, error) {
	q := &db.KNNQuery{
		IndexName:    indexName(collection),
		Vector:       vector,
		K:            topK,
		ReturnFields: payloadFields,
	}

	sr, err := m.store.SearchKNN(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("collection %s: %w", collection, domain.ErrCollectionNotFound)
		}
		return nil, fmt.Errorf("search knn %s: %w", collection, err)
	}

	results := make([]domain.ScoredPassage, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		passage := passageFromFields(entry.Fields)
		if passage.Content == "" {
			continue
		}
		results = append(results, domain.ScoredPassage{Passage: passage, Score: entry.Score})
	}
	return results, nil
}

// Scroll pages through all points of a collection without ranking. The cursor
// is opaque; pass "" to start and stop when the returned cursor is "".
func (m *Manager) Scroll(
	ctx context.Context, collection, cursor string, limit int,
) ([]domain.Passage, string, error) {
	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil || parsed < 0 {
			return nil, "", fmt.Errorf("invalid cursor %q", cursor)
		}
		offset = parsed
	}

	// Fetch one extra row to learn whether another page exists.
	sr, err := m.store.SearchList(ctx, indexName(collection), "*", offset, limit+1, payloadFields)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, "", fmt.Errorf("collection %s: %w", collection, domain.ErrCollectionNotFound)
		}
		return nil, "", fmt.Errorf("scroll %s: %w", collection, err)
	}

	entries := sr.Entries
	next := ""
	if len(entries) > limit {
		entries = entries[:limit]
		next = strconv.Itoa(offset + limit)
	}

	passages := make([]domain.Passage, 0, len(entries))
	for _, entry := range entries {
		passage := passageFromFields(entry.Fields)
		if passage.Content == "" {
			continue
		}
		passages = append(passages, passage)
	}
	return passages, next, nil
}

// Count returns the number of indexed points in a collection.
func (m *Manager) Count(ctx context.Context, collection string) (int, error) {
	n, err := m.store.SearchCount(ctx, indexName(collection), "*")
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func buildIndex(name string, vectorDim int, hnsw HNSWConfig) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     indexName(name),
		Prefixes: []string{pointPrefix(name)},
		Fields: []db.IndexField{
			{
				Name:              "__vector",
				Alias:             "vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         vectorDim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           hnsw.M,
				VectorEFConstruct: hnsw.EFConstruct,
			},
			{Name: domain.MetaPage, Type: db.IndexFieldNumeric},
		},
	}
}

// Redis key patterns: docsage:collection:{name}, docsage:{name}:idx,
// docsage:points:{name}:{id}. Points live in their own namespace so a
// collection named "collection" cannot sweep metadata hashes into its index.

func metaKey(name string) string {
	return fmt.Sprintf("%scollection:%s", domain.KeyPrefix, name)
}

func indexName(name string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, name)
}

func pointPrefix(name string) string {
	return fmt.Sprintf("%spoints:%s:", domain.KeyPrefix, name)
}

func pointKey(name, id string) string {
	return pointPrefix(name) + id
}

var payloadFields = []string{
	fieldText,
	domain.MetaPage,
	domain.MetaSource,
	domain.MetaExtractionMethod,
	"__vector_score",
}

const fieldText = "text"

func pointToHash(p domain.Point) map[string]string {
	fields := map[string]string{
		fieldText:  p.Payload.Content,
		"__vector": redis.VectorToBytes(p.Vector),
	}
	for k, v := range p.Payload.Metadata {
		if k == fieldText || k == "__vector" {
			continue
		}
		fields[k] = v
	}
	return fields
}

func passageFromFields(fields map[string]string) domain.Passage {
	meta := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == fieldText || k == "__vector" {
			continue
		}
		meta[k] = v
	}
	return domain.Passage{Content: fields[fieldText], Metadata: meta}
}
