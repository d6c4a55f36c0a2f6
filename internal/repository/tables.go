package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"comicshare/internal/database"
)

type tablesRepository struct {
	db *sqlx.DB
}

func NewTablesRepository(db *sqlx.DB) TablesRepository {
	return &tablesRepository{db: db}
}

func (r *tablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	var count int

	err := database.Conn(ctx, r.db).GetContext(ctx, &count, `
			SELECT COUNT(*)
			FROM information_schema.tables
			WHERE table_schema = 'public'
		`)
	if err != nil {
		return 0, fmt.Errorf("count database tables: %w", err)
	}

	return count, nil
}
