package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"comicshare/internal/apperr"
	"comicshare/internal/auth"
	"comicshare/internal/config"
	"comicshare/internal/database"
	"comicshare/internal/models"
	"comicshare/internal/ordering"
	"comicshare/internal/repository"
	"comicshare/internal/storage"
)

type ChapterInput struct {
	ChapterNumber int    `json:"chapterNumber" validate:"required,min=1"`
	Title         string `json:"title" validate:"max=200"`
	Publish       bool   `json:"publish"`
}

type ChapterService interface {
	List(ctx context.Context, session *auth.Session, comicID string) ([]models.Chapter, error)
	Create(ctx context.Context, session *auth.Session, comicID string, in ChapterInput) (*models.Chapter, error)
	ListPages(ctx context.Context, session *auth.Session, chapterID string) ([]models.Page, error)
	UploadPage(ctx context.Context, session *auth.Session, chapterID string, r io.Reader) (*models.Page, error)
	ReorderPages(ctx context.Context, session *auth.Session, chapterID string, req ReorderRequest) ([]models.Page, error)
}

type chapterService struct {
	comicRepo   repository.ComicRepository
	chapterRepo repository.ChapterRepository
	tx          database.Transactor
	storage     storage.Storage
	cfg         *config.Config
	log         *zap.Logger
}

func NewChapterService(comicRepo repository.ComicRepository, chapterRepo repository.ChapterRepository, tx database.Transactor, store storage.Storage, cfg *config.Config, log *zap.Logger) ChapterService {
	return &chapterService{
		comicRepo:   comicRepo,
		chapterRepo: chapterRepo,
		tx:          tx,
		storage:     store,
		cfg:         cfg,
		log:         log,
	}
}

// visibleComic hides unpublished comics from everyone but administrators.
func visibleComic(ctx context.Context, repo repository.ComicRepository, session *auth.Session, comicID string) (*models.Comic, error) {
	comic, err := repo.GetByID(ctx, comicID)
	if err != nil {
		return nil, err
	}
	if comic.Status != models.StatusPublished && !session.IsAdmin() {
		return nil, apperr.NotFound("comic not found")
	}
	return comic, nil
}

func (s *chapterService) List(ctx context.Context, session *auth.Session, comicID string) ([]models.Chapter, error) {
	if _, err := visibleComic(ctx, s.comicRepo, session, comicID); err != nil {
		return nil, err
	}
	return s.chapterRepo.ListByComic(ctx, comicID)
}

func (s *chapterService) Create(ctx context.Context, session *auth.Session, comicID string, in ChapterInput) (*models.Chapter, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if in.ChapterNumber < 1 {
		return nil, apperr.Validation("chapter number must be positive")
	}

	chapter := &models.Chapter{
		ComicID:       comicID,
		ChapterNumber: in.ChapterNumber,
		Title:         strings.TrimSpace(in.Title),
	}
	if in.Publish {
		now := time.Now().UTC()
		chapter.PublishedAt = &now
	}

	if err := s.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, fmt.Errorf("create chapter: %w", err)
	}
	return chapter, nil
}

func (s *chapterService) chapter(ctx context.Context, session *auth.Session, chapterID string) (*models.Chapter, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if _, err := visibleComic(ctx, s.comicRepo, session, chapter.ComicID); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *chapterService) ListPages(ctx context.Context, session *auth.Session, chapterID string) ([]models.Page, error) {
	if _, err := s.chapter(ctx, session, chapterID); err != nil {
		return nil, err
	}
	return s.chapterRepo.ListPages(ctx, chapterID)
}

// UploadPage stores the image and appends it as the chapter's last page. The
// object is removed again when the row cannot be written.
func (s *chapterService) UploadPage(ctx context.Context, session *auth.Session, chapterID string, r io.Reader) (*models.Page, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if _, err := s.chapterRepo.GetByID(ctx, chapterID); err != nil {
		return nil, err
	}

	count, err := s.chapterRepo.CountPages(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if count >= s.cfg.Upload.MaxPages {
		return nil, apperr.New(apperr.ErrLimitExceeded, fmt.Sprintf("a chapter holds at most %d pages", s.cfg.Upload.MaxPages))
	}

	page := &models.Page{PageID: uuid.New().String(), ChapterID: chapterID}
	key := storage.ChapterPageKey(chapterID, page.PageID)

	url, media, err := storeImage(ctx, s.storage, key, r, s.cfg.Upload.MaxUploadSize)
	if err != nil {
		return nil, err
	}
	page.ImageURL = url
	page.ObjectKey = key
	page.Width = media.Width
	page.Height = media.Height

	if err := s.chapterRepo.CreatePage(ctx, page); err != nil {
		if derr := s.storage.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.log.Warn("orphaned page object", zap.String("key", key), zap.Error(derr))
		}
		return nil, fmt.Errorf("create page: %w", err)
	}
	return page, nil
}

// ReorderPages renumbers only the pages whose position changed. Object keys
// are not renamed; they are tied to page ids, not numbers.
func (s *chapterService) ReorderPages(ctx context.Context, session *auth.Session, chapterID string, req ReorderRequest) ([]models.Page, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := reorder(ctx, req, ordering.PageNumberBase,
			func(ctx context.Context) ([]ordering.Assignment, error) {
				return s.chapterRepo.LockPageIDs(ctx, chapterID)
			},
			s.chapterRepo.SetPageNumber,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reorder pages: %w", err)
	}
	return s.chapterRepo.ListPages(ctx, chapterID)
}
