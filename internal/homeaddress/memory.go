package homeaddress

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/archidiocese/priestdb/internal/models"
)

// MemoryRepository is an in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]models.HomeAddress // keyed by priestId, exact
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]models.HomeAddress)}
}

func (m *MemoryRepository) Get(ctx context.Context, priestID string) (*models.HomeAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	addr, ok := m.store[priestID]
	if !ok {
		return nil, ErrNotFound
	}
	return &addr, nil
}

func (m *MemoryRepository) GetFold(ctx context.Context, priestID string) (*models.HomeAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for key, addr := range m.store {
		if strings.EqualFold(key, priestID) {
			return &addr, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) Upsert(ctx context.Context, addr *models.HomeAddress) (*models.HomeAddress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *addr
	if prev, ok := m.store[addr.PriestID]; ok {
		stored.ID = prev.ID
	} else if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	m.store[addr.PriestID] = stored
	return &stored, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, priestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[priestID]; !ok {
		return ErrNotFound
	}
	delete(m.store, priestID)
	return nil
}
