package relations

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/archidiocese/priestdb/internal/models"
)

// MemoryRepository is an in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]models.Relation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]models.Relation)}
}

func (m *MemoryRepository) List(ctx context.Context, priestID string) ([]models.Relation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Relation{}
	if priestID != "" {
		// stored documents carry the link in Serial, not priestId, so the
		// filter matches nothing, same as the Mongo query it mirrors
		return out, nil
	}
	for _, rel := range m.store {
		out = append(out, rel)
	}
	return out, nil
}

func (m *MemoryRepository) Insert(ctx context.Context, rel *models.Relation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rel.ID.IsZero() {
		rel.ID = primitive.NewObjectID()
	}
	m.store[rel.ID.Hex()] = *rel
	return nil
}

func (m *MemoryRepository) Update(ctx context.Context, id string, fields bson.M) (*models.Relation, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rel, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := models.MergeInto(&rel, fields); err != nil {
		return nil, err
	}
	m.store[id] = rel
	return &rel, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepository) FindBySerial(ctx context.Context, serial string) ([]models.Relation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Relation{}
	for _, rel := range m.store {
		if rel.Serial == serial {
			out = append(out, rel)
		}
	}
	return out, nil
}

func (m *MemoryRepository) RenamePriest(ctx context.Context, serial, name string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched, modified int64
	for id, rel := range m.store {
		if rel.Serial != serial {
			continue
		}
		matched++
		if rel.PriestName != name {
			rel.PriestName = name
			m.store[id] = rel
			modified++
		}
	}
	return matched, modified, nil
}
