package selector

import (
	"fmt"
	"sort"
	"sync"

	"github.com/coder/hnsw"

	"github.com/youssefsiam38/contextcore/types"
)

// VectorIndex is an HNSW graph over message embeddings, used for pure
// semantic nearest-neighbor recall. The selector populates it as message
// embeddings are computed, so it covers every message scored so far.
type VectorIndex struct {
	mu      sync.Mutex
	graph   *hnsw.Graph[string]
	dim     int
	entries map[string]indexEntry
}

type indexEntry struct {
	message *types.Message
	vector  []float32
}

// Match is a nearest-neighbor result with its cosine similarity to the query.
type Match struct {
	Message    *types.Message
	Similarity float64
}

// NewVectorIndex creates an empty index. The embedding dimension is fixed by
// the first inserted vector.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		graph:   hnsw.NewGraph[string](),
		entries: make(map[string]indexEntry),
	}
}

// Add inserts a message embedding. Re-adding a known message ID is a no-op.
func (x *VectorIndex) Add(msg *types.Message, vec []float32) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if len(vec) == 0 {
		return fmt.Errorf("empty embedding for message %s", msg.ID)
	}
	if x.dim == 0 {
		x.dim = len(vec)
	} else if len(vec) != x.dim {
		return fmt.Errorf("embedding dimension mismatch for message %s: got %d, want %d", msg.ID, len(vec), x.dim)
	}
	if _, ok := x.entries[msg.ID]; ok {
		return nil
	}

	x.graph.Add(hnsw.MakeNode(msg.ID, vec))
	x.entries[msg.ID] = indexEntry{message: msg, vector: vec}
	return nil
}

// Search returns up to k indexed messages nearest to the query vector,
// ordered by cosine similarity descending.
func (x *VectorIndex) Search(vec []float32, k int) []Match {
	x.mu.Lock()
	defer x.mu.Unlock()

	if len(x.entries) == 0 || len(vec) != x.dim || k < 1 {
		return nil
	}

	neighbors := x.graph.Search(vec, k)
	matches := make([]Match, 0, len(neighbors))
	for _, node := range neighbors {
		entry, ok := x.entries[node.Key]
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Message:    entry.message,
			Similarity: cosine(vec, entry.vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

// Len returns the number of indexed messages.
func (x *VectorIndex) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.entries)
}

// Reset drops every indexed entry.
func (x *VectorIndex) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.graph = hnsw.NewGraph[string]()
	x.entries = make(map[string]indexEntry)
	x.dim = 0
}
