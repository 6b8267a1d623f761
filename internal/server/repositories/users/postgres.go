package users

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

const userColumns = `id, first_name, last_name, email, password, cars, token, created_at`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, first_name, last_name, email, password)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	user.ID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.Password).Scan(&user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if user.Cars == nil {
		user.Cars = []string{}
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdateToken(ctx context.Context, id string, token string) error {
	query := `UPDATE users SET token = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// AppendCar adds carID to the end of the user's cars back-reference list.
func (r *PostgresRepository) AppendCar(ctx context.Context, userID string, carID string) error {
	query := `UPDATE users SET cars = cars || jsonb_build_array($2::text) WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID, carID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// RemoveCar pulls carID out of the user's cars list. Removing an id that
// is not present is not an error.
func (r *PostgresRepository) RemoveCar(ctx context.Context, userID string, carID string) error {
	query := `UPDATE users SET cars = cars - $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID, carID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var carsJSON []byte

	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.Password, &carsJSON, &user.Token, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(carsJSON, &user.Cars); err != nil {
		return nil, fmt.Errorf("cars decode error: %w", err)
	}
	if user.Cars == nil {
		user.Cars = []string{}
	}

	return user, nil
}
