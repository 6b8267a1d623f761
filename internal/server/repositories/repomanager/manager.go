package repomanager

import (
	"context"
	"database/sql"

	"github.com/vkuzmenko/carvault/internal/dbx"
	"github.com/vkuzmenko/carvault/internal/server/repositories/cars"
	"github.com/vkuzmenko/carvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Cars(db dbx.DBTX) cars.Repository
}
