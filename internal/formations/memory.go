package formations

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
	store map[string]models.Formation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]models.Formation)}
}

func (m *MemoryRepository) List(ctx context.Context, priestID string) ([]models.Formation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Formation{}
	if priestID != "" {
		// records link through Serial; a priestId filter matches nothing
		return out, nil
	}
	for _, f := range m.store {
		out = append(out, f)
	}
	return out, nil
}

func (m *MemoryRepository) Insert(ctx context.Context, f *models.Formation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	m.store[f.ID.Hex()] = *f
	return nil
}

func (m *MemoryRepository) Update(ctx context.Context, id string, fields bson.M) (*models.Formation, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := models.MergeInto(&f, fields); err != nil {
		return nil, err
	}
	m.store[id] = f
	return &f, nil
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

func (m *MemoryRepository) FindBySerial(ctx context.Context, serial string) ([]models.Formation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Formation{}
	for _, f := range m.store {
		if f.Serial == serial {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *MemoryRepository) RenamePriest(ctx context.Context, serial, name string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched, modified int64
	for id, f := range m.store {
		if f.Serial != serial {
			continue
		}
		matched++
		if f.Name != name {
			f.Name = name
			m.store[id] = f
			modified++
		}
	}
	return matched, modified, nil
}
