package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"comicshare/internal/database"
	"comicshare/internal/models"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.CommentID = uuid.New().String()

	query := `
		INSERT INTO comments (comment_id, comic_id, user_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, (SELECT username FROM profiles WHERE user_id = $3)
	`

	row := database.Conn(ctx, r.db).QueryRowxContext(ctx, query, comment.CommentID, comment.ComicID, comment.UserID, comment.Body)
	if err := row.Scan(&comment.CreatedAt, &comment.Username); err != nil {
		return translate(err, "create comment", "comic not found")
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment

	query := `
		SELECT cm.comment_id, cm.comic_id, cm.user_id, p.username, cm.body, cm.created_at
		FROM comments cm JOIN profiles p ON p.user_id = cm.user_id
		WHERE cm.comment_id = $1
	`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &comment, query, commentID); err != nil {
		return nil, translate(err, "get comment", "comment not found")
	}
	return &comment, nil
}

type commentRow struct {
	models.Comment
	TotalCount int `db:"total_count"`
}

func (r *commentRepository) ListByComic(ctx context.Context, comicID string, limit, offset int) ([]models.Comment, int, error) {
	var rows []commentRow

	query := `
		SELECT cm.comment_id, cm.comic_id, cm.user_id, p.username, cm.body, cm.created_at,
		       count(*) OVER () AS total_count
		FROM comments cm JOIN profiles p ON p.user_id = cm.user_id
		WHERE cm.comic_id = $1
		ORDER BY cm.created_at DESC
		LIMIT $2 OFFSET $3
	`

	if err := database.Conn(ctx, r.db).SelectContext(ctx, &rows, query, comicID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]models.Comment, len(rows))
	total := 0
	for i, row := range rows {
		comments[i] = row.Comment
		total = row.TotalCount
	}
	return comments, total, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID string) error {
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM comments WHERE comment_id = $1`, commentID)
	if err != nil {
		return translate(err, "delete comment", "comment not found")
	}
	return expectRows(result, "delete comment", "comment not found")
}
