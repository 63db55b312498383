// Package chromem implements vector.Driver on chromem-go, a pure Go embedded
// vector database. Each owner (session or agent id) gets its own collection
// for namespace isolation.
package chromem

import (
	"context"
	"fmt"
	"sync"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/strataco/strata/pkg/vector"
)

// Driver implements vector.Driver using an embedded chromem database.
type Driver struct {
	db *chromemgo.DB

	mu          sync.RWMutex
	collections map[string]*chromemgo.Collection
}

// NewDriver creates an in-process chromem driver.
func NewDriver() *Driver {
	return &Driver{
		db:          chromemgo.NewDB(),
		collections: make(map[string]*chromemgo.Collection),
	}
}

// collection returns the owner's collection, creating it on first use.
func (d *Driver) collection(owner string) (*chromemgo.Collection, error) {
	d.mu.RLock()
	col, ok := d.collections[owner]
	d.mu.RUnlock()
	if ok {
		return col, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if col, ok := d.collections[owner]; ok {
		return col, nil
	}

	name := "owner_" + owner
	if owner == "" {
		name = "global"
	}

	// Embeddings are provided by the caller, so no embedding func and the
	// default cosine distance.
	col, err := d.db.CreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating collection %s: %v", vector.ErrConnection, name, err)
	}

	d.collections[owner] = col
	return col, nil
}

// Add stores documents under their owners' collections.
func (d *Driver) Add(ctx context.Context, docs []vector.Document) error {
	for _, doc := range docs {
		col, err := d.collection(doc.Owner)
		if err != nil {
			return err
		}

		err = col.AddDocument(ctx, chromemgo.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Embedding: doc.Embedding,
		})
		if err != nil {
			return fmt.Errorf("adding document %s: %w", doc.ID, err)
		}
	}
	return nil
}

// Query returns the topK most similar documents within the owner's
// collection.
func (d *Driver) Query(ctx context.Context, owner string, embedding []float32, topK int) ([]vector.QueryResult, error) {
	col, err := d.collection(owner)
	if err != nil {
		return nil, err
	}

	// chromem rejects nResults above the collection size.
	if count := col.Count(); topK > count {
		topK = count
	}
	if topK == 0 {
		return nil, nil
	}

	results, err := col.QueryEmbedding(ctx, embedding, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	out := make([]vector.QueryResult, len(results))
	for i, res := range results {
		out[i] = vector.QueryResult{
			Document: vector.Document{
				ID:        res.ID,
				Owner:     owner,
				Content:   res.Content,
				Embedding: res.Embedding,
			},
			Score: res.Similarity,
		}
	}
	return out, nil
}

// Delete removes documents from the owner's collection.
func (d *Driver) Delete(ctx context.Context, owner string, ids []string) error {
	col, err := d.collection(owner)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		return nil
	}

	if err := col.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	return nil
}

// Close releases the driver. The embedded database needs no teardown.
func (d *Driver) Close() error {
	return nil
}

var _ vector.Driver = (*Driver)(nil)
