package appointments

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
	store map[string]models.Appointment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]models.Appointment)}
}

func (m *MemoryRepository) List(ctx context.Context, priestID string) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Appointment{}
	if priestID != "" {
		// records link through Serial; a priestId filter matches nothing
		return out, nil
	}
	for _, a := range m.store {
		out = append(out, a)
	}
	return out, nil
}

func (m *MemoryRepository) Insert(ctx context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	m.store[a.ID.Hex()] = *a
	return nil
}

func (m *MemoryRepository) Update(ctx context.Context, id string, fields bson.M) (*models.Appointment, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := models.MergeInto(&a, fields); err != nil {
		return nil, err
	}
	m.store[id] = a
	return &a, nil
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

func (m *MemoryRepository) FindBySerial(ctx context.Context, serial string) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Appointment{}
	for _, a := range m.store {
		if a.Serial == serial {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemoryRepository) RenamePriest(ctx context.Context, serial, name string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched, modified int64
	for id, a := range m.store {
		if a.Serial != serial {
			continue
		}
		matched++
		if a.Name != name {
			a.Name = name
			m.store[id] = a
			modified++
		}
	}
	return matched, modified, nil
}
