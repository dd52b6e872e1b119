// Package slots provides keyed storage for the session slots that survive a
// navigation between the builder and the results view. Values are opaque
// JSON payloads; interpreting them is the session adapter's job.
package slots

import (
	"context"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=slotsmock github.com/KirkDiggler/battlebrain/internal/repositories/slots Repository

// Repository stores one payload per slot key
type Repository interface {
	// Get returns NotFound when the slot was never written or was deleted
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// Set overwrites the slot
	Set(ctx context.Context, input *SetInput) (*SetOutput, error)

	// Delete removes the slot; deleting a missing slot is not an error
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the request for reading a slot
type GetInput struct {
	Key string
}

// GetOutput defines the response for reading a slot
type GetOutput struct {
	Value []byte
}

// SetInput defines the request for writing a slot
type SetInput struct {
	Key   string
	Value []byte
}

// SetOutput defines the response for writing a slot
type SetOutput struct{}

// DeleteInput defines the request for removing a slot
type DeleteInput struct {
	Key string
}

// DeleteOutput defines the response for removing a slot
type DeleteOutput struct{}
