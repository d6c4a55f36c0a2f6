package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"comicshare/internal/database"
	"comicshare/internal/models"
	"comicshare/internal/ordering"
)

type userComicRepository struct {
	db *sqlx.DB
}

func NewUserComicRepository(db *sqlx.DB) UserComicRepository {
	return &userComicRepository{db: db}
}

func (r *userComicRepository) Create(ctx context.Context, comic *models.UserComic) error {
	if comic.UserComicID == "" {
		comic.UserComicID = uuid.New().String()
	}
	if comic.Tags == nil {
		comic.Tags = []string{}
	}

	query := `
		INSERT INTO user_comics (user_comic_id, user_id, slug, title, artist, description, tags, cover_url, cover_object_key, status)
		VALUES (:user_comic_id, :user_id, :slug, :title, :artist, :description, :tags, :cover_url, :cover_object_key, :status)
		RETURNING created_at, updated_at
	`

	rows, err := sqlx.NamedQueryContext(ctx, database.Conn(ctx, r.db), query, comic)
	if err != nil {
		return translate(err, "create user comic", "user not found")
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&comic.CreatedAt, &comic.UpdatedAt); err != nil {
			return fmt.Errorf("create user comic: %w", err)
		}
	}
	return translate(rows.Err(), "create user comic", "user not found")
}

func (r *userComicRepository) UpdateCover(ctx context.Context, userComicID, coverURL, objectKey string) error {
	query := `UPDATE user_comics SET cover_url = $1, cover_object_key = $2, updated_at = now() WHERE user_comic_id = $3`

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, coverURL, objectKey, userComicID)
	if err != nil {
		return translate(err, "update user comic cover", "comic not found")
	}
	return expectRows(result, "update user comic cover", "comic not found")
}

func (r *userComicRepository) GetByID(ctx context.Context, userComicID string) (*models.UserComic, error) {
	var comic models.UserComic

	query := `SELECT * FROM user_comics WHERE user_comic_id = $1`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &comic, query, userComicID); err != nil {
		return nil, translate(err, "get user comic", "comic not found")
	}
	return &comic, nil
}

// ListStats reads the owner's comics through the user_comic_stats function,
// which also reports the page count and the unpaged total per row.
func (r *userComicRepository) ListStats(ctx context.Context, userID string, limit, offset int) ([]models.UserComicStats, error) {
	stats := []models.UserComicStats{}

	query := `SELECT * FROM user_comic_stats($1, $2, $3)`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &stats, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("list user comic stats: %w", err)
	}
	return stats, nil
}

func (r *userComicRepository) UpdateStatus(ctx context.Context, userComicID, status string) error {
	query := `UPDATE user_comics SET status = $1, updated_at = now() WHERE user_comic_id = $2`

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, status, userComicID)
	if err != nil {
		return translate(err, "update user comic status", "comic not found")
	}
	return expectRows(result, "update user comic status", "comic not found")
}

func (r *userComicRepository) Delete(ctx context.Context, userComicID string) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM user_comics WHERE user_comic_id = $1`, userComicID)
	if err != nil {
		return translate(err, "delete user comic", "comic not found")
	}
	return expectRows(result, "delete user comic", "comic not found")
}

func (r *userComicRepository) CreatePage(ctx context.Context, page *models.ComicPage) error {
	if page.PageID == "" {
		page.PageID = uuid.New().String()
	}

	query := `
		INSERT INTO comic_pages (page_id, user_comic_id, page_number, image_url, object_key, width, height)
		VALUES (:page_id, :user_comic_id, :page_number, :image_url, :object_key, :width, :height)
	`

	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, page); err != nil {
		return translate(err, "create comic page", "comic not found")
	}
	return nil
}

func (r *userComicRepository) ListPages(ctx context.Context, userComicID string) ([]models.ComicPage, error) {
	pages := []models.ComicPage{}

	query := `SELECT * FROM comic_pages WHERE user_comic_id = $1 ORDER BY page_number`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &pages, query, userComicID); err != nil {
		return nil, fmt.Errorf("list comic pages: %w", err)
	}
	return pages, nil
}

func (r *userComicRepository) LockPageIDs(ctx context.Context, userComicID string) ([]ordering.Assignment, error) {
	rows := []ordering.Assignment{}

	query := `SELECT page_id AS id, page_number AS position FROM comic_pages WHERE user_comic_id = $1 ORDER BY page_number FOR UPDATE`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &rows, query, userComicID); err != nil {
		return nil, fmt.Errorf("lock comic pages: %w", err)
	}
	return rows, nil
}

func (r *userComicRepository) SetPageNumber(ctx context.Context, pageID string, pageNumber int) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `UPDATE comic_pages SET page_number = $1 WHERE page_id = $2`, pageNumber, pageID)
	if err != nil {
		return translate(err, "set comic page number", "page not found")
	}
	return expectRows(result, "set comic page number", "page not found")
}
