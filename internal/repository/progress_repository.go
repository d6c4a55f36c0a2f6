package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"comicshare/internal/database"
	"comicshare/internal/models"
)

type progressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Upsert keeps one progress row per user and comic.
func (r *progressRepository) Upsert(ctx context.Context, progress *models.ReadingProgress) error {
	query := `
		INSERT INTO reading_progress (user_id, comic_id, chapter_id, page_number, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id, comic_id)
		DO UPDATE SET chapter_id = EXCLUDED.chapter_id,
		              page_number = EXCLUDED.page_number,
		              updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`

	err := database.Conn(ctx, r.db).GetContext(ctx, &progress.UpdatedAt, query,
		progress.UserID, progress.ComicID, progress.ChapterID, progress.PageNumber)
	if err != nil {
		return translate(err, "save reading progress", "comic not found")
	}
	return nil
}

func (r *progressRepository) Get(ctx context.Context, userID, comicID string) (*models.ReadingProgress, error) {
	var progress models.ReadingProgress

	query := `
		SELECT rp.user_id, rp.comic_id, rp.chapter_id, rp.page_number, rp.updated_at, c.title AS comic_title
		FROM reading_progress rp JOIN comics c ON c.comic_id = rp.comic_id
		WHERE rp.user_id = $1 AND rp.comic_id = $2
	`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &progress, query, userID, comicID); err != nil {
		return nil, translate(err, "get reading progress", "no reading progress for this comic")
	}
	return &progress, nil
}

func (r *progressRepository) ListByUser(ctx context.Context, userID string) ([]models.ReadingProgress, error) {
	items := []models.ReadingProgress{}

	query := `
		SELECT rp.user_id, rp.comic_id, rp.chapter_id, rp.page_number, rp.updated_at, c.title AS comic_title
		FROM reading_progress rp JOIN comics c ON c.comic_id = rp.comic_id
		WHERE rp.user_id = $1
		ORDER BY rp.updated_at DESC
	`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list reading progress: %w", err)
	}
	return items, nil
}
