package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"comicshare/internal/database"
	"comicshare/internal/models"
	"comicshare/internal/ordering"
)

const chapterColumns = `ch.chapter_id, ch.comic_id, ch.chapter_number, ch.title, ch.published_at, ch.created_at,
	(SELECT count(*) FROM pages p WHERE p.chapter_id = ch.chapter_id) AS page_count`

type chapterRepository struct {
	db *sqlx.DB
}

func NewChapterRepository(db *sqlx.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	chapter.ChapterID = uuid.New().String()

	query := `
		INSERT INTO chapters (chapter_id, comic_id, chapter_number, title, published_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := database.Conn(ctx, r.db).GetContext(ctx, &chapter.CreatedAt, query,
		chapter.ChapterID, chapter.ComicID, chapter.ChapterNumber, chapter.Title, chapter.PublishedAt)
	if err != nil {
		return translate(err, "create chapter", "comic not found")
	}
	return nil
}

func (r *chapterRepository) GetByID(ctx context.Context, chapterID string) (*models.Chapter, error) {
	var chapter models.Chapter

	query := `SELECT ` + chapterColumns + ` FROM chapters ch WHERE ch.chapter_id = $1`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &chapter, query, chapterID); err != nil {
		return nil, translate(err, "get chapter", "chapter not found")
	}
	return &chapter, nil
}

func (r *chapterRepository) ListByComic(ctx context.Context, comicID string) ([]models.Chapter, error) {
	chapters := []models.Chapter{}

	query := `SELECT ` + chapterColumns + ` FROM chapters ch WHERE ch.comic_id = $1 ORDER BY ch.chapter_number`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &chapters, query, comicID); err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return chapters, nil
}

func (r *chapterRepository) Adjacent(ctx context.Context, comicID string, number int, next bool) (*models.Chapter, error) {
	var chapter models.Chapter

	query := `SELECT ` + chapterColumns + ` FROM chapters ch WHERE ch.comic_id = $1 AND ch.chapter_number < $2 ORDER BY ch.chapter_number DESC LIMIT 1`
	if next {
		query = `SELECT ` + chapterColumns + ` FROM chapters ch WHERE ch.comic_id = $1 AND ch.chapter_number > $2 ORDER BY ch.chapter_number LIMIT 1`
	}

	err := database.Conn(ctx, r.db).GetContext(ctx, &chapter, query, comicID, number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get adjacent chapter: %w", err)
	}
	return &chapter, nil
}

// CreatePage appends the page after the current last one. Callers hold the
// chapter's page rows via LockPageIDs when appending concurrently.
func (r *chapterRepository) CreatePage(ctx context.Context, page *models.Page) error {
	if page.PageID == "" {
		page.PageID = uuid.New().String()
	}

	query := `
		INSERT INTO pages (page_id, chapter_id, page_number, image_url, object_key, width, height)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(page_number), 0) + 1 FROM pages WHERE chapter_id = $2),
			$3, $4, $5, $6)
		RETURNING page_number, created_at
	`

	row := database.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		page.PageID, page.ChapterID, page.ImageURL, page.ObjectKey, page.Width, page.Height)
	if err := row.Scan(&page.PageNumber, &page.CreatedAt); err != nil {
		return translate(err, "create page", "chapter not found")
	}
	return nil
}

func (r *chapterRepository) GetPage(ctx context.Context, chapterID string, pageNumber int) (*models.Page, error) {
	var page models.Page

	query := `SELECT * FROM pages WHERE chapter_id = $1 AND page_number = $2`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &page, query, chapterID, pageNumber); err != nil {
		return nil, translate(err, "get page", "page not found")
	}
	return &page, nil
}

func (r *chapterRepository) ListPages(ctx context.Context, chapterID string) ([]models.Page, error) {
	pages := []models.Page{}

	query := `SELECT * FROM pages WHERE chapter_id = $1 ORDER BY page_number`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &pages, query, chapterID); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

func (r *chapterRepository) CountPages(ctx context.Context, chapterID string) (int, error) {
	var count int

	if err := database.Conn(ctx, r.db).GetContext(ctx, &count, `SELECT count(*) FROM pages WHERE chapter_id = $1`, chapterID); err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return count, nil
}

func (r *chapterRepository) LockPageIDs(ctx context.Context, chapterID string) ([]ordering.Assignment, error) {
	rows := []ordering.Assignment{}

	query := `SELECT page_id AS id, page_number AS position FROM pages WHERE chapter_id = $1 ORDER BY page_number FOR UPDATE`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &rows, query, chapterID); err != nil {
		return nil, fmt.Errorf("lock pages: %w", err)
	}
	return rows, nil
}

func (r *chapterRepository) SetPageNumber(ctx context.Context, pageID string, pageNumber int) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `UPDATE pages SET page_number = $1 WHERE page_id = $2`, pageNumber, pageID)
	if err != nil {
		return translate(err, "set page number", "page not found")
	}
	return expectRows(result, "set page number", "page not found")
}
