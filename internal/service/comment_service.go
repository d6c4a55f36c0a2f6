package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"comicshare/internal/apperr"
	"comicshare/internal/auth"
	"comicshare/internal/markup"
	"comicshare/internal/models"
	"comicshare/internal/repository"
)

const maxCommentLength = 2000

type CommentService interface {
	List(ctx context.Context, session *auth.Session, comicID string, p Pagination) (*models.PageResult[models.Comment], error)
	Add(ctx context.Context, session *auth.Session, comicID, body string) (*models.Comment, error)
	Delete(ctx context.Context, session *auth.Session, commentID string) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	comicRepo   repository.ComicRepository
}

func NewCommentService(commentRepo repository.CommentRepository, comicRepo repository.ComicRepository) CommentService {
	return &commentService{commentRepo: commentRepo, comicRepo: comicRepo}
}

func (s *commentService) List(ctx context.Context, session *auth.Session, comicID string, p Pagination) (*models.PageResult[models.Comment], error) {
	if _, err := visibleComic(ctx, s.comicRepo, session, comicID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.ListByComic(ctx, comicID, p.Limit(), p.Offset())
	if err != nil {
		return nil, err
	}
	return &models.PageResult[models.Comment]{Items: comments, Total: total}, nil
}

// Add stores the body as plain text; any markup is stripped.
func (s *commentService) Add(ctx context.Context, session *auth.Session, comicID, body string) (*models.Comment, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	body = markup.PlainText(body)
	if body == "" {
		return nil, apperr.Validation("comment must not be empty")
	}
	if utf8.RuneCountInString(body) > maxCommentLength {
		return nil, apperr.Validation(fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
	}

	if _, err := visibleComic(ctx, s.comicRepo, session, comicID); err != nil {
		return nil, err
	}

	comment := &models.Comment{ComicID: comicID, UserID: session.UserID, Body: body}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, session *auth.Session, commentID string) error {
	if err := requireSession(session); err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !session.CanManage(comment.UserID) {
		return apperr.Forbidden("only the author or an administrator may delete this comment")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
