package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crudapp/crudapp/internal/item"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory repository used by tests and when no
// MONGODB_URI is configured. It stores copies so callers cannot mutate
// stored items behind its back.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[primitive.ObjectID]item.Item
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[primitive.ObjectID]item.Item)}
}

func (m *MemoryRepo) Create(_ context.Context, it *item.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = primitive.NewObjectID()
	it.CreatedAt = time.Now().UTC()
	it.UpdatedAt = it.CreatedAt
	m.store[it.ID] = *it
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id primitive.ObjectID) (*item.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if it, ok := m.store[id]; ok {
		return &it, nil
	}
	return nil, ErrNotFound
}

// List returns items in creation order (ObjectIDs sort by creation).
func (m *MemoryRepo) List(_ context.Context) ([]*item.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*item.Item, 0, len(m.store))
	for _, it := range m.store {
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (m *MemoryRepo) Update(_ context.Context, id primitive.ObjectID, in item.UpdateInput) (*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	it.Name = in.Name
	it.Description = in.Description
	if in.Image != "" {
		it.Image = in.Image
	}
	it.UpdatedAt = time.Now().UTC()
	m.store[id] = it
	return &it, nil
}

func (m *MemoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
