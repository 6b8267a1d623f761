package users

import (
	"context"

	"github.com/vkuzmenko/carvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateToken(ctx context.Context, id string, token string) error
	AppendCar(ctx context.Context, userID string, carID string) error
	RemoveCar(ctx context.Context, userID string, carID string) error
}
