package selector

import "sync"

// embeddingCache holds computed embeddings keyed by message ID and by raw
// query string. Entries are append-only during normal operation; a given key
// always maps to the same vector, so concurrent lookups racing with an
// insert are harmless.
type embeddingCache struct {
	messages sync.Map // message ID -> []float32
	queries  sync.Map // query string -> []float32
}

func newEmbeddingCache() *embeddingCache {
	return &embeddingCache{}
}

func (c *embeddingCache) message(id string) ([]float32, bool) {
	v, ok := c.messages.Load(id)
	if !ok {
		return nil, false
	}
	return v.([]float32), true
}

func (c *embeddingCache) setMessage(id string, vec []float32) {
	c.messages.Store(id, vec)
}

func (c *embeddingCache) query(q string) ([]float32, bool) {
	v, ok := c.queries.Load(q)
	if !ok {
		return nil, false
	}
	return v.([]float32), true
}

func (c *embeddingCache) setQuery(q string, vec []float32) {
	c.queries.Store(q, vec)
}

func (c *embeddingCache) clear() {
	c.messages.Range(func(k, _ any) bool {
		c.messages.Delete(k)
		return true
	})
	c.queries.Range(func(k, _ any) bool {
		c.queries.Delete(k)
		return true
	})
}

// messageCount returns the number of cached message embeddings.
func (c *embeddingCache) messageCount() int {
	n := 0
	c.messages.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
