package cars

import (
	"context"

	"github.com/vkuzmenko/carvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, car *models.Car) (*models.Car, error)

	// GetByIDAndOwner matches on both id and owner in one query, so a
	// caller holding a valid id for another user's record still gets
	// ErrorNotFound.
	GetByIDAndOwner(ctx context.Context, carID string, ownerID string) (*models.Car, error)

	Update(ctx context.Context, car *models.Car) (*models.Car, error)

	// ListByOwner returns the owner's cars newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Car, error)

	// Delete removes the row by id unconditionally; deleting an absent
	// id is not an error.
	Delete(ctx context.Context, carID string) error
}
