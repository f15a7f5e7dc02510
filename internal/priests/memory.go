package priests

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/archidiocese/priestdb/internal/models"
)

// MemoryRepository is an in-memory Repository used by unit tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]models.Priest // keyed by priestId
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]models.Priest)}
}

func (m *MemoryRepository) List(ctx context.Context) ([]models.Priest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Priest{}
	for _, p := range m.store {
		out = append(out, p)
	}
	// plain string sort, matching the store's lexicographic index order
	sort.Slice(out, func(i, j int) bool { return out[i].PriestID < out[j].PriestID })
	return out, nil
}

func (m *MemoryRepository) FindByPriestID(ctx context.Context, priestID string) (*models.Priest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[priestID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryRepository) FindByPriestIDFold(ctx context.Context, priestID string) (*models.Priest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for key, p := range m.store {
		if strings.EqualFold(key, priestID) {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) FindByObjectID(ctx context.Context, hex string) (*models.Priest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.ID.Hex() == hex {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) MaxPriestID(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	max := ""
	for id := range m.store {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (m *MemoryRepository) Insert(ctx context.Context, p *models.Priest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.store[p.PriestID]; exists {
		return ErrDuplicateID
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.store[p.PriestID] = *p
	return nil
}

func (m *MemoryRepository) Update(ctx context.Context, priestID string, fields bson.M) (*models.Priest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[priestID]
	if !ok {
		return nil, ErrNotFound
	}
	if err := models.MergeInto(&p, fields); err != nil {
		return nil, err
	}
	m.store[priestID] = p
	return &p, nil
}

func (m *MemoryRepository) SetName(ctx context.Context, priestID, name string) (*models.Priest, error) {
	return m.Update(ctx, priestID, bson.M{"Name": name})
}

func (m *MemoryRepository) SetProfilePic(ctx context.Context, priestID, filename string) (*models.Priest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[priestID]
	if !ok {
		return nil, ErrNotFound
	}
	p.ProfilePic = filename
	m.store[priestID] = p
	return &p, nil
}
