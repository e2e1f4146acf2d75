package docstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu    sync.RWMutex
	colls map[string]map[string]Fields
	order map[string][]string // insertion order per collection
}

// NewMemoryStore returns a process-local Store for tests and dev runs.
func NewMemoryStore() Store {
	return &memoryStore{
		colls: map[string]map[string]Fields{},
		order: map[string][]string{},
	}
}

func (m *memoryStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	id := uuid.NewString()
	return id, m.Set(ctx, collection, id, fields)
}

func (m *memoryStore) Insert(_ context.Context, collection, id string, fields Fields) error {
	return m.put(collection, id, fields, false)
}

func (m *memoryStore) Set(_ context.Context, collection, id string, fields Fields) error {
	return m.put(collection, id, fields, true)
}

func (m *memoryStore) put(collection, id string, fields Fields, replace bool) error {
	cp, err := clone(fields)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.colls[collection][id]; exists && !replace {
		return ErrExists
	}
	c, ok := m.colls[collection]
	if !ok {
		c = map[string]Fields{}
		m.colls[collection] = c
	}
	if _, exists := c[id]; !exists {
		m.order[collection] = append(m.order[collection], id)
	}
	c[id] = cp
	return nil
}

func (m *memoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.colls[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	cp, err := clone(f)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Fields: cp}, nil
}

func (m *memoryStore) List(_ context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Document{}
	for _, id := range m.order[collection] {
		f, ok := m.colls[collection][id]
		if !ok || !matchesAll(f, q.Filters) {
			continue
		}
		cp, err := clone(f)
		if err != nil {
			return nil, err
		}
		out = append(out, Document{ID: id, Fields: cp})
	}
	return orderAndLimit(out, q), nil
}

func (m *memoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.colls[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.colls[collection], id)
	ids := m.order[collection]
	for i, v := range ids {
		if v == id {
			m.order[collection] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memoryStore) Close() error { return nil }

// clone deep-copies through the JSON form so stored values match what the
// SQL and Firestore backends hand back.
func clone(f Fields) (Fields, error) {
	var out Fields
	if err := Decode(f, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = Fields{}
	}
	return out, nil
}
