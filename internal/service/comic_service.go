package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"comicshare/internal/apperr"
	"comicshare/internal/auth"
	"comicshare/internal/cache"
	"comicshare/internal/config"
	"comicshare/internal/database"
	"comicshare/internal/markup"
	"comicshare/internal/models"
	"comicshare/internal/repository"
	"comicshare/internal/storage"
)

type ComicQuery struct {
	Query  string
	Genre  string
	Status string
	Pagination
}

// ComicInput is the admin-editable part of a comic. An empty Slug is derived
// from Title.
type ComicInput struct {
	Slug        string `json:"slug" validate:"omitempty,max=120"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=20000"`
	Author      string `json:"author" validate:"max=120"`
	Artist      string `json:"artist" validate:"max=120"`
	GenreIDs    []int  `json:"genreIds"`
}

type ComicService interface {
	List(ctx context.Context, session *auth.Session, q ComicQuery) (*models.PageResult[models.Comic], error)
	GetBySlug(ctx context.Context, session *auth.Session, slug string) (*models.Comic, error)
	Create(ctx context.Context, session *auth.Session, in ComicInput) (*models.Comic, error)
	Update(ctx context.Context, session *auth.Session, comicID string, in ComicInput) (*models.Comic, error)
	SetStatus(ctx context.Context, session *auth.Session, comicID, status string) error
	UploadCover(ctx context.Context, session *auth.Session, comicID string, r io.Reader) (*models.Comic, error)
	Genres(ctx context.Context) ([]models.Genre, error)
}

type comicService struct {
	comicRepo repository.ComicRepository
	tx        database.Transactor
	storage   storage.Storage
	cache     *cache.ComicCache
	cfg       *config.Config
}

func NewComicService(comicRepo repository.ComicRepository, tx database.Transactor, store storage.Storage, comicCache *cache.ComicCache, cfg *config.Config) ComicService {
	return &comicService{
		comicRepo: comicRepo,
		tx:        tx,
		storage:   store,
		cache:     comicCache,
		cfg:       cfg,
	}
}

// List shows published comics to everyone. Administrators may filter by any
// status, or see all of them with an empty status.
func (s *comicService) List(ctx context.Context, session *auth.Session, q ComicQuery) (*models.PageResult[models.Comic], error) {
	status := models.StatusPublished
	if session.IsAdmin() {
		status = q.Status
	}
	if status != "" && !validStatus(status) {
		return nil, apperr.Validation("unknown status " + status)
	}

	comics, total, err := s.comicRepo.List(ctx, repository.ComicFilter{
		Query:     q.Query,
		GenreSlug: q.Genre,
		Status:    status,
		Limit:     q.Limit(),
		Offset:    q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &models.PageResult[models.Comic]{Items: comics, Total: total}, nil
}

// GetBySlug returns a comic with genres and rendered description. Published
// comics are served from the cache when possible.
func (s *comicService) GetBySlug(ctx context.Context, session *auth.Session, slug string) (*models.Comic, error) {
	if cached := s.cache.Get(ctx, slug); cached != nil {
		return cached, nil
	}

	comic, err := s.comicRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if comic.Status != models.StatusPublished && !session.IsAdmin() {
		return nil, apperr.NotFound("comic not found")
	}

	if err := s.decorate(ctx, comic); err != nil {
		return nil, err
	}

	if comic.Status == models.StatusPublished {
		s.cache.Set(ctx, comic)
	}
	return comic, nil
}

func (s *comicService) decorate(ctx context.Context, comic *models.Comic) error {
	genres, err := s.comicRepo.GenresFor(ctx, comic.ComicID)
	if err != nil {
		return err
	}
	comic.Genres = genres

	html, err := markup.RenderMarkdown(comic.Description)
	if err != nil {
		return err
	}
	comic.DescriptionHTML = html
	return nil
}

func (s *comicService) Create(ctx context.Context, session *auth.Session, in ComicInput) (*models.Comic, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	comic := &models.Comic{Status: models.StatusDraft, CreatedBy: &session.UserID}
	if err := applyComicInput(comic, in); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.comicRepo.Create(ctx, comic); err != nil {
			return err
		}
		return s.comicRepo.SetGenres(ctx, comic.ComicID, in.GenreIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("create comic: %w", err)
	}

	if err := s.decorate(ctx, comic); err != nil {
		return nil, err
	}
	return comic, nil
}

func (s *comicService) Update(ctx context.Context, session *auth.Session, comicID string, in ComicInput) (*models.Comic, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	var comic *models.Comic
	var oldSlug string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		comic, err = s.comicRepo.GetByID(ctx, comicID)
		if err != nil {
			return err
		}
		oldSlug = comic.Slug

		if err := applyComicInput(comic, in); err != nil {
			return err
		}
		if err := s.comicRepo.Update(ctx, comic); err != nil {
			return err
		}
		return s.comicRepo.SetGenres(ctx, comic.ComicID, in.GenreIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("update comic: %w", err)
	}

	s.cache.Invalidate(ctx, oldSlug, comic.Slug)

	if err := s.decorate(ctx, comic); err != nil {
		return nil, err
	}
	return comic, nil
}

func (s *comicService) SetStatus(ctx context.Context, session *auth.Session, comicID, status string) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if !validStatus(status) {
		return apperr.Validation("unknown status " + status)
	}

	comic, err := s.comicRepo.GetByID(ctx, comicID)
	if err != nil {
		return err
	}
	if err := s.comicRepo.UpdateStatus(ctx, comicID, status); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, comic.Slug)
	return nil
}

func (s *comicService) UploadCover(ctx context.Context, session *auth.Session, comicID string, r io.Reader) (*models.Comic, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}

	comic, err := s.comicRepo.GetByID(ctx, comicID)
	if err != nil {
		return nil, err
	}

	url, _, err := storeImage(ctx, s.storage, storage.CoverKey(comicID), r, s.cfg.Upload.MaxUploadSize)
	if err != nil {
		return nil, err
	}
	if err := s.comicRepo.UpdateCover(ctx, comicID, url); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, comic.Slug)
	comic.CoverURL = &url
	return comic, nil
}

func (s *comicService) Genres(ctx context.Context) ([]models.Genre, error) {
	return s.comicRepo.ListGenres(ctx)
}

func applyComicInput(comic *models.Comic, in ComicInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return apperr.Validation("title is required")
	}

	slug := slugify(in.Slug)
	if slug == "" {
		slug = slugify(title)
	}
	if slug == "" {
		return apperr.Validation("slug must contain letters or digits")
	}

	comic.Title = title
	comic.Slug = slug
	comic.Description = in.Description
	comic.Author = strings.TrimSpace(in.Author)
	comic.Artist = strings.TrimSpace(in.Artist)
	return nil
}
