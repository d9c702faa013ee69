package repository

import (
	"context"
	"errors"

	"github.com/crudapp/crudapp/internal/item"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("item not found")
)

// Repository is the identifier-keyed persistence used by the item service.
type Repository interface {
	// Create stores a new item and assigns its ID and timestamps.
	Create(ctx context.Context, it *item.Item) error
	Get(ctx context.Context, id primitive.ObjectID) (*item.Item, error)
	List(ctx context.Context) ([]*item.Item, error)
	// Update applies the edit and returns the item as stored afterwards.
	Update(ctx context.Context, id primitive.ObjectID, in item.UpdateInput) (*item.Item, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
