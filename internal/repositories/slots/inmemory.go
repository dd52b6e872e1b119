package slots

import (
	"context"
	"sync"

	"github.com/KirkDiggler/battlebrain/internal/errors"
)

// InMemoryRepository implements Repository with a map. Contents are lost when
// the process exits.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string][]byte
}

// NewInMemory creates an empty in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string][]byte),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Get returns a copy of the stored payload
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.Key == "" {
		return nil, errors.InvalidArgument(errKeyRequired)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.store[input.Key]
	if !exists {
		return nil, errors.NotFoundf("slot %s not found", input.Key)
	}

	return &GetOutput{Value: append([]byte(nil), value...)}, nil
}

// Set stores a copy of the payload
func (r *InMemoryRepository) Set(_ context.Context, input *SetInput) (*SetOutput, error) {
	if input == nil || input.Key == "" {
		return nil, errors.InvalidArgument(errKeyRequired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.Key] = append([]byte(nil), input.Value...)
	return &SetOutput{}, nil
}

// Delete removes the slot
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.Key == "" {
		return nil, errors.InvalidArgument(errKeyRequired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, input.Key)
	return &DeleteOutput{}, nil
}
