package service

import (
	"context"
	"errors"
	"fmt"

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
	"comicshare/internal/wizard"
)

// Draft is everything the upload wizard collects before submission.
type Draft struct {
	Cover   *wizard.File
	Pages   []wizard.File
	Details wizard.Details
}

// DraftReport tells the client how far a draft gets through the wizard.
type DraftReport struct {
	Step      wizard.State `json:"step"`
	Ready     bool         `json:"ready"`
	Error     string       `json:"error,omitempty"`
	PageCount int          `json:"pageCount"`
	MaxPages  int          `json:"maxPages"`
}

type UserComicService interface {
	Validate(ctx context.Context, session *auth.Session, draft Draft) (*DraftReport, error)
	Submit(ctx context.Context, session *auth.Session, draft Draft) (*models.UserComic, error)
	MyComics(ctx context.Context, session *auth.Session, p Pagination) (*models.PageResult[models.UserComicStats], error)
	Get(ctx context.Context, session *auth.Session, userComicID string) (*models.UserComic, error)
	SetStatus(ctx context.Context, session *auth.Session, userComicID, status string) error
	Delete(ctx context.Context, session *auth.Session, userComicID string) error
	ReorderPages(ctx context.Context, session *auth.Session, userComicID string, req ReorderRequest) ([]models.ComicPage, error)
}

type userComicService struct {
	repo    repository.UserComicRepository
	tx      database.Transactor
	storage storage.Storage
	cfg     *config.Config
	log     *zap.Logger
}

func NewUserComicService(repo repository.UserComicRepository, tx database.Transactor, store storage.Storage, cfg *config.Config, log *zap.Logger) UserComicService {
	return &userComicService{
		repo:    repo,
		tx:      tx,
		storage: store,
		cfg:     cfg,
		log:     log,
	}
}

func (s *userComicService) fill(draft Draft) (*wizard.Wizard, error) {
	w := wizard.New(s.cfg.Upload.MaxPages)
	return w, w.Fill(draft.Cover, draft.Pages, draft.Details)
}

// Validate runs the wizard guards without storing anything.
func (s *userComicService) Validate(ctx context.Context, session *auth.Session, draft Draft) (*DraftReport, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	w, err := s.fill(draft)
	report := &DraftReport{
		Step:      w.State(),
		Ready:     err == nil,
		PageCount: w.PageCount(),
		MaxPages:  w.MaxPages(),
	}

	var guardErr *wizard.GuardError
	switch {
	case err == nil:
	case errors.As(err, &guardErr):
		report.Error = guardErr.Error()
	default:
		return nil, err
	}
	return report, nil
}

// Submit walks the wizard to review and stores the comic. Objects are uploaded
// first and the rows are then written in one short transaction. When any step
// fails every object uploaded so far is deleted.
func (s *userComicService) Submit(ctx context.Context, session *auth.Session, draft Draft) (*models.UserComic, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	w, err := s.fill(draft)
	if err != nil {
		return nil, err
	}
	if err := w.Submit(); err != nil {
		return nil, err
	}

	comicID := uuid.New().String()
	details := w.Details()
	comic := &models.UserComic{
		UserComicID: comicID,
		UserID:      session.UserID,
		Slug:        uniqueSlug(details.Title, comicID),
		Title:       details.Title,
		Artist:      details.Artist,
		Description: details.Description,
		Tags:        details.Tags,
		Status:      models.StatusPublished,
	}

	pages, uploaded, err := s.uploadDraft(ctx, w, comic)
	if err == nil {
		err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.repo.Create(ctx, comic); err != nil {
				return err
			}
			for i := range pages {
				if err := s.repo.CreatePage(ctx, &pages[i]); err != nil {
					return fmt.Errorf("page %d: %w", pages[i].PageNumber, err)
				}
			}
			return nil
		})
	}
	_ = w.Finish(err)
	if err != nil {
		s.removeObjects(ctx, uploaded)
		return nil, fmt.Errorf("submit comic: %w", err)
	}

	comic.Pages = pages

	s.log.Info("user comic published",
		zap.String("user_comic_id", comicID),
		zap.String("user_id", session.UserID),
		zap.Int("pages", len(comic.Pages)))
	return comic, nil
}

// uploadDraft stores the cover and the pages in page order. It returns the page
// rows to insert and the keys uploaded so far, also on failure.
func (s *userComicService) uploadDraft(ctx context.Context, w *wizard.Wizard, comic *models.UserComic) ([]models.ComicPage, []string, error) {
	var uploaded []string

	coverKey := storage.UserCoverKey(comic.UserID, comic.UserComicID)
	coverURL, _, err := s.put(ctx, coverKey, *w.Cover())
	if err != nil {
		return nil, uploaded, fmt.Errorf("cover: %w", err)
	}
	uploaded = append(uploaded, coverKey)
	comic.CoverURL = &coverURL
	comic.CoverObjectKey = &coverKey

	files := w.Pages()
	pages := make([]models.ComicPage, 0, len(files))
	for i, file := range files {
		number := i + ordering.PageNumberBase
		key := storage.UserPageKey(comic.UserID, comic.UserComicID, number)

		url, media, err := s.put(ctx, key, file)
		if err != nil {
			return nil, uploaded, fmt.Errorf("page %d: %w", number, err)
		}
		uploaded = append(uploaded, key)

		pages = append(pages, models.ComicPage{
			UserComicID: comic.UserComicID,
			PageNumber:  number,
			ImageURL:    url,
			ObjectKey:   key,
			Width:       media.Width,
			Height:      media.Height,
		})
	}
	return pages, uploaded, nil
}

func (s *userComicService) put(ctx context.Context, key string, file wizard.File) (string, *storage.Media, error) {
	rc, err := file.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer rc.Close()

	return storeImage(ctx, s.storage, key, rc, s.cfg.Upload.MaxUploadSize)
}

// removeObjects deletes keys, e.g. objects written by a failed submission. It
// runs even if the request context is already cancelled.
func (s *userComicService) removeObjects(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.log.Error("object cleanup failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *userComicService) MyComics(ctx context.Context, session *auth.Session, p Pagination) (*models.PageResult[models.UserComicStats], error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListStats(ctx, session.UserID, p.Limit(), p.Offset())
	if err != nil {
		return nil, err
	}

	result := &models.PageResult[models.UserComicStats]{Items: rows}
	if len(rows) > 0 {
		result.Total = rows[0].TotalCount
	}
	return result, nil
}

// Get returns the comic with its pages. Unpublished comics are visible to
// their owner and administrators only, through presigned URLs.
func (s *userComicService) Get(ctx context.Context, session *auth.Session, userComicID string) (*models.UserComic, error) {
	comic, err := s.repo.GetByID(ctx, userComicID)
	if err != nil {
		return nil, err
	}

	published := comic.Status == models.StatusPublished
	if !published && !session.CanManage(comic.UserID) {
		return nil, apperr.NotFound("comic not found")
	}

	pages, err := s.repo.ListPages(ctx, userComicID)
	if err != nil {
		return nil, err
	}
	comic.Pages = pages

	if !published {
		if err := s.presign(ctx, comic); err != nil {
			return nil, err
		}
	}
	return comic, nil
}

func (s *userComicService) presign(ctx context.Context, comic *models.UserComic) error {
	if comic.CoverObjectKey != nil {
		url, err := s.storage.PresignedURL(ctx, *comic.CoverObjectKey)
		if err != nil {
			return err
		}
		comic.CoverURL = &url
	}
	for i := range comic.Pages {
		url, err := s.storage.PresignedURL(ctx, comic.Pages[i].ObjectKey)
		if err != nil {
			return err
		}
		comic.Pages[i].ImageURL = url
	}
	return nil
}

func (s *userComicService) owned(ctx context.Context, session *auth.Session, userComicID string) (*models.UserComic, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	comic, err := s.repo.GetByID(ctx, userComicID)
	if err != nil {
		return nil, err
	}
	if !session.CanManage(comic.UserID) {
		return nil, apperr.Forbidden("comic belongs to another user")
	}
	return comic, nil
}

func (s *userComicService) SetStatus(ctx context.Context, session *auth.Session, userComicID, status string) error {
	if !validStatus(status) {
		return apperr.Validation("unknown status " + status)
	}
	if _, err := s.owned(ctx, session, userComicID); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, userComicID, status)
}

// Delete removes the rows first; objects are removed once the rows are gone.
func (s *userComicService) Delete(ctx context.Context, session *auth.Session, userComicID string) error {
	comic, err := s.owned(ctx, session, userComicID)
	if err != nil {
		return err
	}

	var keys []string
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		pages, err := s.repo.ListPages(ctx, userComicID)
		if err != nil {
			return err
		}
		for _, p := range pages {
			keys = append(keys, p.ObjectKey)
		}
		return s.repo.Delete(ctx, userComicID)
	})
	if err != nil {
		return fmt.Errorf("delete comic: %w", err)
	}

	if comic.CoverObjectKey != nil {
		keys = append(keys, *comic.CoverObjectKey)
	}
	s.removeObjects(ctx, keys)
	return nil
}

func (s *userComicService) ReorderPages(ctx context.Context, session *auth.Session, userComicID string, req ReorderRequest) ([]models.ComicPage, error) {
	if _, err := s.owned(ctx, session, userComicID); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := reorder(ctx, req, ordering.PageNumberBase,
			func(ctx context.Context) ([]ordering.Assignment, error) { return s.repo.LockPageIDs(ctx, userComicID) },
			s.repo.SetPageNumber,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reorder pages: %w", err)
	}
	return s.repo.ListPages(ctx, userComicID)
}

// uniqueSlug suffixes the title slug with part of the id so two uploads with
// the same title do not collide.
func uniqueSlug(title, id string) string {
	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	if base := slugify(title); base != "" {
		return base + "-" + suffix
	}
	return suffix
}
