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

const bookmarkColumns = `b.bookmark_id, b.user_id, b.comic_id, b.folder_id, b.display_order, b.created_at,
	c.title AS comic_title, c.slug AS comic_slug, c.cover_url AS comic_cover_url`

type bookmarkRepository struct {
	db *sqlx.DB
}

func NewBookmarkRepository(db *sqlx.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// CreateFolder appends a folder at the end of the owner's list. The
// bookmark_folder_limit trigger rejects it once the owner is at the cap.
func (r *bookmarkRepository) CreateFolder(ctx context.Context, folder *models.BookmarkFolder) error {
	folder.FolderID = uuid.New().String()

	query := `
		INSERT INTO bookmark_folders (folder_id, user_id, name, display_order)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(display_order) + 1, 0) FROM bookmark_folders WHERE user_id = $2))
		RETURNING display_order, created_at
	`

	row := database.Conn(ctx, r.db).QueryRowxContext(ctx, query, folder.FolderID, folder.UserID, folder.Name)
	if err := row.Scan(&folder.DisplayOrder, &folder.CreatedAt); err != nil {
		return translate(err, "create bookmark folder", "user not found")
	}
	return nil
}

func (r *bookmarkRepository) GetFolder(ctx context.Context, folderID string) (*models.BookmarkFolder, error) {
	var folder models.BookmarkFolder

	query := `
		SELECT f.folder_id, f.user_id, f.name, f.display_order, f.created_at,
		       (SELECT count(*) FROM bookmarks b WHERE b.folder_id = f.folder_id) AS bookmark_count
		FROM bookmark_folders f
		WHERE f.folder_id = $1
	`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &folder, query, folderID); err != nil {
		return nil, translate(err, "get bookmark folder", "folder not found")
	}
	return &folder, nil
}

func (r *bookmarkRepository) ListFolders(ctx context.Context, userID string) ([]models.BookmarkFolder, error) {
	folders := []models.BookmarkFolder{}

	query := `
		SELECT f.folder_id, f.user_id, f.name, f.display_order, f.created_at,
		       count(b.bookmark_id) AS bookmark_count
		FROM bookmark_folders f
		LEFT JOIN bookmarks b ON b.folder_id = f.folder_id
		WHERE f.user_id = $1
		GROUP BY f.folder_id
		ORDER BY f.display_order, f.created_at
	`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &folders, query, userID); err != nil {
		return nil, fmt.Errorf("list bookmark folders: %w", err)
	}
	return folders, nil
}

func (r *bookmarkRepository) CountFolders(ctx context.Context, userID string) (int, error) {
	var count int

	if err := database.Conn(ctx, r.db).GetContext(ctx, &count, `SELECT count(*) FROM bookmark_folders WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("count bookmark folders: %w", err)
	}
	return count, nil
}

func (r *bookmarkRepository) RenameFolder(ctx context.Context, folderID, name string) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `UPDATE bookmark_folders SET name = $1 WHERE folder_id = $2`, name, folderID)
	if err != nil {
		return translate(err, "rename bookmark folder", "folder not found")
	}
	return expectRows(result, "rename bookmark folder", "folder not found")
}

// DeleteFolder removes the folder and, by cascade, its bookmarks.
func (r *bookmarkRepository) DeleteFolder(ctx context.Context, folderID string) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM bookmark_folders WHERE folder_id = $1`, folderID)
	if err != nil {
		return translate(err, "delete bookmark folder", "folder not found")
	}
	return expectRows(result, "delete bookmark folder", "folder not found")
}

func (r *bookmarkRepository) LockFolderIDs(ctx context.Context, userID string) ([]ordering.Assignment, error) {
	rows := []ordering.Assignment{}

	query := `SELECT folder_id AS id, display_order AS position FROM bookmark_folders WHERE user_id = $1 ORDER BY display_order, created_at FOR UPDATE`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("lock bookmark folders: %w", err)
	}
	return rows, nil
}

func (r *bookmarkRepository) SetFolderOrder(ctx context.Context, folderID string, order int) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `UPDATE bookmark_folders SET display_order = $1 WHERE folder_id = $2`, order, folderID)
	if err != nil {
		return translate(err, "set folder order", "folder not found")
	}
	return expectRows(result, "set folder order", "folder not found")
}

// AddBookmark appends the bookmark at the end of its folder.
func (r *bookmarkRepository) AddBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	bookmark.BookmarkID = uuid.New().String()

	query := `
		INSERT INTO bookmarks (bookmark_id, user_id, comic_id, folder_id, display_order)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(display_order) + 1, 0) FROM bookmarks WHERE folder_id = $4))
		RETURNING display_order, created_at
	`

	row := database.Conn(ctx, r.db).QueryRowxContext(ctx, query,
		bookmark.BookmarkID, bookmark.UserID, bookmark.ComicID, bookmark.FolderID)
	if err := row.Scan(&bookmark.DisplayOrder, &bookmark.CreatedAt); err != nil {
		return translate(err, "add bookmark", "comic not found")
	}
	return nil
}

func (r *bookmarkRepository) GetBookmark(ctx context.Context, bookmarkID string) (*models.Bookmark, error) {
	var bookmark models.Bookmark

	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks b JOIN comics c ON c.comic_id = b.comic_id WHERE b.bookmark_id = $1`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &bookmark, query, bookmarkID); err != nil {
		return nil, translate(err, "get bookmark", "bookmark not found")
	}
	return &bookmark, nil
}

func (r *bookmarkRepository) ListBookmarks(ctx context.Context, folderID string) ([]models.Bookmark, error) {
	bookmarks := []models.Bookmark{}

	query := `SELECT ` + bookmarkColumns + `
		FROM bookmarks b JOIN comics c ON c.comic_id = b.comic_id
		WHERE b.folder_id = $1
		ORDER BY b.display_order, b.created_at`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &bookmarks, query, folderID); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (r *bookmarkRepository) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM bookmarks WHERE bookmark_id = $1`, bookmarkID)
	if err != nil {
		return translate(err, "delete bookmark", "bookmark not found")
	}
	return expectRows(result, "delete bookmark", "bookmark not found")
}

// MoveBookmark puts the bookmark at the end of another folder.
func (r *bookmarkRepository) MoveBookmark(ctx context.Context, bookmarkID, folderID string) error {
	query := `
		UPDATE bookmarks
		SET folder_id = $1,
		    display_order = (SELECT COALESCE(MAX(display_order) + 1, 0) FROM bookmarks WHERE folder_id = $1)
		WHERE bookmark_id = $2
	`

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, folderID, bookmarkID)
	if err != nil {
		return translate(err, "move bookmark", "bookmark not found")
	}
	return expectRows(result, "move bookmark", "bookmark not found")
}

func (r *bookmarkRepository) LockBookmarkIDs(ctx context.Context, folderID string) ([]ordering.Assignment, error) {
	rows := []ordering.Assignment{}

	query := `SELECT bookmark_id AS id, display_order AS position FROM bookmarks WHERE folder_id = $1 ORDER BY display_order, created_at FOR UPDATE`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &rows, query, folderID); err != nil {
		return nil, fmt.Errorf("lock bookmarks: %w", err)
	}
	return rows, nil
}

func (r *bookmarkRepository) SetBookmarkOrder(ctx context.Context, bookmarkID string, order int) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `UPDATE bookmarks SET display_order = $1 WHERE bookmark_id = $2`, order, bookmarkID)
	if err != nil {
		return translate(err, "set bookmark order", "bookmark not found")
	}
	return expectRows(result, "set bookmark order", "bookmark not found")
}
