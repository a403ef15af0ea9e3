package knowledge

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"github.com/atende-ai/atende/agent/catalog"
	contractx "github.com/atende-ai/atende/agent/contract"
)

// Chunk is one embeddable piece of a source document.
type Chunk struct {
	Text     string
	Source   string
	Filename string
	Category string
	Index    int
}

// Match is one search hit, annotated with the collection it came from.
type Match struct {
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	Filename   string  `json:"filename"`
	Category   string  `json:"category"`
	Collection string  `json:"collection"`
	Similarity float32 `json:"similarity"`
}

// Store wraps an embedded chromem vector database, one chromem collection per
// knowledge collection name. Embeddings run through the injected Embedder for
// both indexing and querying.
type Store struct {
	db       *chromem.DB
	embedder contractx.Embedder

	mu          sync.Mutex
	collections map[string]*chromem.Collection
}

func NewStore(embedder contractx.Embedder) *Store {
	return &Store{
		db:          chromem.NewDB(),
		embedder:    embedder,
		collections: make(map[string]*chromem.Collection),
	}
}

// NewPersistentStore loads or creates a store backed by a gob file.
func NewPersistentStore(path string, compress bool, embedder contractx.Embedder) (*Store, error) {
	db, err := chromem.NewPersistentDB(path, compress)
	if err != nil {
		return nil, fmt.Errorf("open vector database %q: %w", path, err)
	}
	return &Store{
		db:          db,
		embedder:    embedder,
		collections: make(map[string]*chromem.Collection),
	}, nil
}

func (s *Store) collection(name string) (*chromem.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if col, ok := s.collections[name]; ok {
		return col, nil
	}

	col, err := s.db.GetOrCreateCollection(name, nil, s.embedFunc())
	if err != nil {
		return nil, fmt.Errorf("get/create collection %q: %w", name, err)
	}
	s.collections[name] = col
	return col, nil
}

func (s *Store) embedFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.Embed(ctx, text)
	}
}

// Upsert indexes chunks into a collection. Chunks with a filename get a
// deterministic id so reseeding overwrites instead of duplicating.
func (s *Store) Upsert(ctx context.Context, collection string, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	col, err := s.collection(collection)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		id := uuid.NewString()
		if chunk.Filename != "" {
			id = fmt.Sprintf("%s-%s-chunk-%d", collection, chunk.Filename, chunk.Index)
		}
		docs = append(docs, chromem.Document{
			ID:      id,
			Content: chunk.Text,
			Metadata: map[string]string{
				"source":   chunk.Source,
				"filename": chunk.Filename,
				"category": chunk.Category,
			},
		})
	}

	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("upsert %d chunks into %q: %w", len(docs), collection, err)
	}
	return nil
}

// Search queries every collection in the tenant's knowledge scope and merges
// the hits by similarity. An empty scope or empty collections yield no
// matches and no error.
func (s *Store) Search(ctx context.Context, tenant *catalog.Tenant, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 3
	}

	collections := Collections(tenant)
	if len(collections) == 0 {
		return nil, nil
	}

	var merged []Match
	for _, name := range collections {
		col, err := s.collection(name)
		if err != nil {
			return nil, err
		}

		n := topK
		if count := col.Count(); count < n {
			n = count
		}
		if n == 0 {
			continue
		}

		results, err := col.Query(ctx, query, n, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("query collection %q: %w", name, err)
		}

		for _, result := range results {
			merged = append(merged, Match{
				Content:    result.Content,
				Source:     result.Metadata["source"],
				Filename:   result.Metadata["filename"],
				Category:   result.Metadata["category"],
				Collection: name,
				Similarity: result.Similarity,
			})
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Similarity > merged[j].Similarity
	})
	if len(merged) > topK {
		merged = merged[:topK]
	}
	return merged, nil
}
