package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"comicshare/internal/database"
	"comicshare/internal/models"
)

const comicColumns = `c.comic_id, c.slug, c.title, c.description, c.author, c.artist,
	c.cover_url, c.status, c.created_by, c.created_at, c.updated_at`

type comicRepository struct {
	db *sqlx.DB
}

func NewComicRepository(db *sqlx.DB) ComicRepository {
	return &comicRepository{db: db}
}

func (r *comicRepository) Create(ctx context.Context, comic *models.Comic) error {
	comic.ComicID = uuid.New().String()

	query := `
		INSERT INTO comics (comic_id, slug, title, description, author, artist, cover_url, status, created_by)
		VALUES (:comic_id, :slug, :title, :description, :author, :artist, :cover_url, :status, :created_by)
		RETURNING created_at, updated_at
	`

	rows, err := sqlx.NamedQueryContext(ctx, database.Conn(ctx, r.db), query, comic)
	if err != nil {
		return translate(err, "create comic", "comic not found")
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&comic.CreatedAt, &comic.UpdatedAt); err != nil {
			return fmt.Errorf("create comic: %w", err)
		}
	}
	return translate(rows.Err(), "create comic", "comic not found")
}

func (r *comicRepository) Update(ctx context.Context, comic *models.Comic) error {
	query := `
		UPDATE comics
		SET slug = :slug, title = :title, description = :description,
		    author = :author, artist = :artist, updated_at = now()
		WHERE comic_id = :comic_id
	`

	result, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, comic)
	if err != nil {
		return translate(err, "update comic", "comic not found")
	}
	return expectRows(result, "update comic", "comic not found")
}

func (r *comicRepository) UpdateStatus(ctx context.Context, comicID, status string) error {
	query := `UPDATE comics SET status = $1, updated_at = now() WHERE comic_id = $2`

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, status, comicID)
	if err != nil {
		return translate(err, "update comic status", "comic not found")
	}
	return expectRows(result, "update comic status", "comic not found")
}

func (r *comicRepository) UpdateCover(ctx context.Context, comicID, coverURL string) error {
	query := `UPDATE comics SET cover_url = $1, updated_at = now() WHERE comic_id = $2`

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, coverURL, comicID)
	if err != nil {
		return translate(err, "update comic cover", "comic not found")
	}
	return expectRows(result, "update comic cover", "comic not found")
}

func (r *comicRepository) GetByID(ctx context.Context, comicID string) (*models.Comic, error) {
	var comic models.Comic

	query := `SELECT ` + comicColumns + ` FROM comics c WHERE c.comic_id = $1`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &comic, query, comicID); err != nil {
		return nil, translate(err, "get comic", "comic not found")
	}
	return &comic, nil
}

func (r *comicRepository) GetBySlug(ctx context.Context, slug string) (*models.Comic, error) {
	var comic models.Comic

	query := `SELECT ` + comicColumns + ` FROM comics c WHERE c.slug = $1`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &comic, query, slug); err != nil {
		return nil, translate(err, "get comic by slug", "comic not found")
	}
	return &comic, nil
}

type comicRow struct {
	models.Comic
	TotalCount int `db:"total_count"`
}

// List returns one window of comics, newest first, and the total number of
// matches ignoring Limit and Offset.
func (r *comicRepository) List(ctx context.Context, filter ComicFilter) ([]models.Comic, int, error) {
	var (
		where []string
		args  []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where = append(where, "c.status = "+arg(filter.Status))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		p := arg("%" + escapeLike(q) + "%")
		where = append(where, fmt.Sprintf("(c.title ILIKE %s OR c.author ILIKE %s OR c.artist ILIKE %s)", p, p, p))
	}
	if filter.GenreSlug != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM comic_genres cg JOIN genres g ON g.genre_id = cg.genre_id
			WHERE cg.comic_id = c.comic_id AND g.slug = `+arg(filter.GenreSlug)+`)`)
	}

	query := `SELECT ` + comicColumns + `, count(*) OVER () AS total_count FROM comics c`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.created_at DESC LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)

	var rows []comicRow
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list comics: %w", err)
	}

	comics := make([]models.Comic, len(rows))
	total := 0
	for i, row := range rows {
		comics[i] = row.Comic
		total = row.TotalCount
	}
	return comics, total, nil
}

// SetGenres replaces the genre set of a comic.
func (r *comicRepository) SetGenres(ctx context.Context, comicID string, genreIDs []int) error {
	conn := database.Conn(ctx, r.db)

	if _, err := conn.ExecContext(ctx, `DELETE FROM comic_genres WHERE comic_id = $1`, comicID); err != nil {
		return fmt.Errorf("clear comic genres: %w", err)
	}

	for _, genreID := range genreIDs {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO comic_genres (comic_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			comicID, genreID)
		if err != nil {
			return translate(err, "add comic genre", "genre not found")
		}
	}
	return nil
}

func (r *comicRepository) GenresFor(ctx context.Context, comicID string) ([]models.Genre, error) {
	genres := []models.Genre{}

	query := `
		SELECT g.genre_id, g.name, g.slug
		FROM genres g
		JOIN comic_genres cg ON cg.genre_id = g.genre_id
		WHERE cg.comic_id = $1
		ORDER BY g.name
	`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &genres, query, comicID); err != nil {
		return nil, fmt.Errorf("list comic genres: %w", err)
	}
	return genres, nil
}

func (r *comicRepository) ListGenres(ctx context.Context) ([]models.Genre, error) {
	genres := []models.Genre{}

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &genres, `SELECT genre_id, name, slug FROM genres ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
