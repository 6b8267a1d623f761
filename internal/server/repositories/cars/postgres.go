package cars

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vkuzmenko/carvault/internal/common"
	"github.com/vkuzmenko/carvault/internal/dbx"
	"github.com/vkuzmenko/carvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const carColumns = `id, user_id, title, description, tags, images, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, car *models.Car) (*models.Car, error) {

	tags, images, err := encodeLists(car)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO cars (id, user_id, title, description, tags, images)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at
		 `

	car.ID = uuid.NewString()

	err = r.db.QueryRowContext(ctx, query,
		car.ID, car.UserID, car.Title, car.Description, tags, images).
		Scan(&car.CreatedAt, &car.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return car, nil
}

func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, carID string, ownerID string) (*models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 AND user_id = $2`

	row := r.db.QueryRowContext(ctx, query, carID, ownerID)

	car, err := scanCar(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return car, nil
}

func (r *PostgresRepository) Update(ctx context.Context, car *models.Car) (*models.Car, error) {

	tags, images, err := encodeLists(car)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE cars
		 SET title = $2, description = $3, tags = $4, images = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		car.ID, car.Title, car.Description, tags, images).Scan(&car.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return car, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Car{}
	for rows.Next() {
		car, err := scanCar(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, carID string) error {
	query := `DELETE FROM cars WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, carID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func encodeLists(car *models.Car) ([]byte, []byte, error) {
	if car.Tags == nil {
		car.Tags = []string{}
	}
	if car.Images == nil {
		car.Images = []string{}
	}
	tags, err := json.Marshal(car.Tags)
	if err != nil {
		return nil, nil, fmt.Errorf("tags encode error: %w", err)
	}
	images, err := json.Marshal(car.Images)
	if err != nil {
		return nil, nil, fmt.Errorf("images encode error: %w", err)
	}
	return tags, images, nil
}

func scanCar(scan func(dest ...any) error) (*models.Car, error) {
	car := &models.Car{}
	var tagsJSON, imagesJSON []byte

	err := scan(&car.ID, &car.UserID, &car.Title, &car.Description,
		&tagsJSON, &imagesJSON, &car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(tagsJSON, &car.Tags); err != nil {
		return nil, fmt.Errorf("tags decode error: %w", err)
	}
	if err := json.Unmarshal(imagesJSON, &car.Images); err != nil {
		return nil, fmt.Errorf("images decode error: %w", err)
	}
	if car.Tags == nil {
		car.Tags = []string{}
	}
	if car.Images == nil {
		car.Images = []string{}
	}

	return car, nil
}
