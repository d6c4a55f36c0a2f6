package service

import (
	"context"
	"fmt"
	"strings"

	"comicshare/internal/apperr"
	"comicshare/internal/auth"
	"comicshare/internal/database"
	"comicshare/internal/models"
	"comicshare/internal/ordering"
	"comicshare/internal/repository"
)

var errFolderLimit = apperr.New(apperr.ErrLimitExceeded, "bookmark folder limit reached")

type BookmarkService interface {
	ListFolders(ctx context.Context, session *auth.Session) ([]models.BookmarkFolder, error)
	CreateFolder(ctx context.Context, session *auth.Session, name string) (*models.BookmarkFolder, error)
	RenameFolder(ctx context.Context, session *auth.Session, folderID, name string) (*models.BookmarkFolder, error)
	DeleteFolder(ctx context.Context, session *auth.Session, folderID string) error
	ReorderFolders(ctx context.Context, session *auth.Session, req ReorderRequest) ([]models.BookmarkFolder, error)
	// Remaining is how many more folders the user may create.
	Remaining(ctx context.Context, session *auth.Session) (int, error)

	AddBookmark(ctx context.Context, session *auth.Session, folderID, comicID string) (*models.Bookmark, error)
	ListBookmarks(ctx context.Context, session *auth.Session, folderID string) ([]models.Bookmark, error)
	RemoveBookmark(ctx context.Context, session *auth.Session, bookmarkID string) error
	MoveBookmark(ctx context.Context, session *auth.Session, bookmarkID, folderID string) (*models.Bookmark, error)
	ReorderBookmarks(ctx context.Context, session *auth.Session, folderID string, req ReorderRequest) ([]models.Bookmark, error)
}

type bookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	profileRepo  repository.ProfileRepository
	comicRepo    repository.ComicRepository
	tx           database.Transactor
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, profileRepo repository.ProfileRepository, comicRepo repository.ComicRepository, tx database.Transactor) BookmarkService {
	return &bookmarkService{
		bookmarkRepo: bookmarkRepo,
		profileRepo:  profileRepo,
		comicRepo:    comicRepo,
		tx:           tx,
	}
}

func (s *bookmarkService) ListFolders(ctx context.Context, session *auth.Session) ([]models.BookmarkFolder, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	return s.bookmarkRepo.ListFolders(ctx, session.UserID)
}

func (s *bookmarkService) Remaining(ctx context.Context, session *auth.Session) (int, error) {
	if err := requireSession(session); err != nil {
		return 0, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, session.UserID)
	if err != nil {
		return 0, err
	}
	count, err := s.bookmarkRepo.CountFolders(ctx, session.UserID)
	if err != nil {
		return 0, err
	}

	if remaining := profile.MaxBookmarkFolders - count; remaining > 0 {
		return remaining, nil
	}
	return 0, nil
}

// CreateFolder refuses early when the cap is already reached. The database
// trigger remains the authority for concurrent inserts.
func (s *bookmarkService) CreateFolder(ctx context.Context, session *auth.Session, name string) (*models.BookmarkFolder, error) {
	name, err := folderName(name)
	if err != nil {
		return nil, err
	}

	remaining, err := s.Remaining(ctx, session)
	if err != nil {
		return nil, err
	}
	if remaining == 0 {
		return nil, errFolderLimit
	}

	folder := &models.BookmarkFolder{UserID: session.UserID, Name: name}
	if err := s.bookmarkRepo.CreateFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return folder, nil
}

func (s *bookmarkService) ownFolder(ctx context.Context, session *auth.Session, folderID string) (*models.BookmarkFolder, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	folder, err := s.bookmarkRepo.GetFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.UserID != session.UserID {
		return nil, apperr.Forbidden("folder belongs to another user")
	}
	return folder, nil
}

func (s *bookmarkService) RenameFolder(ctx context.Context, session *auth.Session, folderID, name string) (*models.BookmarkFolder, error) {
	name, err := folderName(name)
	if err != nil {
		return nil, err
	}

	folder, err := s.ownFolder(ctx, session, folderID)
	if err != nil {
		return nil, err
	}
	if err := s.bookmarkRepo.RenameFolder(ctx, folderID, name); err != nil {
		return nil, err
	}
	folder.Name = name
	return folder, nil
}

func (s *bookmarkService) DeleteFolder(ctx context.Context, session *auth.Session, folderID string) error {
	if _, err := s.ownFolder(ctx, session, folderID); err != nil {
		return err
	}
	return s.bookmarkRepo.DeleteFolder(ctx, folderID)
}

func (s *bookmarkService) ReorderFolders(ctx context.Context, session *auth.Session, req ReorderRequest) ([]models.BookmarkFolder, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := reorder(ctx, req, ordering.DisplayOrderBase,
			func(ctx context.Context) ([]ordering.Assignment, error) {
				return s.bookmarkRepo.LockFolderIDs(ctx, session.UserID)
			},
			s.bookmarkRepo.SetFolderOrder,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reorder folders: %w", err)
	}
	return s.bookmarkRepo.ListFolders(ctx, session.UserID)
}

func (s *bookmarkService) AddBookmark(ctx context.Context, session *auth.Session, folderID, comicID string) (*models.Bookmark, error) {
	if _, err := s.ownFolder(ctx, session, folderID); err != nil {
		return nil, err
	}
	if _, err := visibleComic(ctx, s.comicRepo, session, comicID); err != nil {
		return nil, err
	}

	bookmark := &models.Bookmark{UserID: session.UserID, ComicID: comicID, FolderID: folderID}
	if err := s.bookmarkRepo.AddBookmark(ctx, bookmark); err != nil {
		return nil, fmt.Errorf("add bookmark: %w", err)
	}
	return s.bookmarkRepo.GetBookmark(ctx, bookmark.BookmarkID)
}

func (s *bookmarkService) ListBookmarks(ctx context.Context, session *auth.Session, folderID string) ([]models.Bookmark, error) {
	if _, err := s.ownFolder(ctx, session, folderID); err != nil {
		return nil, err
	}
	return s.bookmarkRepo.ListBookmarks(ctx, folderID)
}

func (s *bookmarkService) ownBookmark(ctx context.Context, session *auth.Session, bookmarkID string) (*models.Bookmark, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	bookmark, err := s.bookmarkRepo.GetBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}
	if bookmark.UserID != session.UserID {
		return nil, apperr.Forbidden("bookmark belongs to another user")
	}
	return bookmark, nil
}

func (s *bookmarkService) RemoveBookmark(ctx context.Context, session *auth.Session, bookmarkID string) error {
	if _, err := s.ownBookmark(ctx, session, bookmarkID); err != nil {
		return err
	}
	return s.bookmarkRepo.DeleteBookmark(ctx, bookmarkID)
}

func (s *bookmarkService) MoveBookmark(ctx context.Context, session *auth.Session, bookmarkID, folderID string) (*models.Bookmark, error) {
	bookmark, err := s.ownBookmark(ctx, session, bookmarkID)
	if err != nil {
		return nil, err
	}
	if bookmark.FolderID == folderID {
		return bookmark, nil
	}
	if _, err := s.ownFolder(ctx, session, folderID); err != nil {
		return nil, err
	}

	if err := s.bookmarkRepo.MoveBookmark(ctx, bookmarkID, folderID); err != nil {
		return nil, fmt.Errorf("move bookmark: %w", err)
	}
	return s.bookmarkRepo.GetBookmark(ctx, bookmarkID)
}

func (s *bookmarkService) ReorderBookmarks(ctx context.Context, session *auth.Session, folderID string, req ReorderRequest) ([]models.Bookmark, error) {
	if _, err := s.ownFolder(ctx, session, folderID); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := reorder(ctx, req, ordering.DisplayOrderBase,
			func(ctx context.Context) ([]ordering.Assignment, error) {
				return s.bookmarkRepo.LockBookmarkIDs(ctx, folderID)
			},
			s.bookmarkRepo.SetBookmarkOrder,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reorder bookmarks: %w", err)
	}
	return s.bookmarkRepo.ListBookmarks(ctx, folderID)
}

func folderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("folder name is required")
	}
	if len([]rune(name)) > 64 {
		return "", apperr.Validation("folder name must be at most 64 characters")
	}
	return name, nil
}
