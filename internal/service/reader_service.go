package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"comicshare/internal/apperr"
	"comicshare/internal/auth"
	"comicshare/internal/models"
	"comicshare/internal/repository"
)

// PageRef points at one page of one chapter.
type PageRef struct {
	ChapterID  string `json:"chapterId"`
	PageNumber int    `json:"pageNumber"`
}

// ReaderPage is one reader view: the page plus navigation that crosses
// chapter boundaries.
type ReaderPage struct {
	ComicID       string      `json:"comicId"`
	ComicTitle    string      `json:"comicTitle"`
	ChapterID     string      `json:"chapterId"`
	ChapterNumber int         `json:"chapterNumber"`
	ChapterTitle  string      `json:"chapterTitle"`
	Page          models.Page `json:"page"`
	TotalPages    int         `json:"totalPages"`
	Prev          *PageRef    `json:"prev"`
	Next          *PageRef    `json:"next"`
}

type ReaderService interface {
	Read(ctx context.Context, session *auth.Session, comicID, chapterID string, pageNumber int) (*ReaderPage, error)
	Progress(ctx context.Context, session *auth.Session) ([]models.ReadingProgress, error)
}

type readerService struct {
	comicRepo    repository.ComicRepository
	chapterRepo  repository.ChapterRepository
	progressRepo repository.ProgressRepository
	log          *zap.Logger
}

func NewReaderService(comicRepo repository.ComicRepository, chapterRepo repository.ChapterRepository, progressRepo repository.ProgressRepository, log *zap.Logger) ReaderService {
	return &readerService{
		comicRepo:    comicRepo,
		chapterRepo:  chapterRepo,
		progressRepo: progressRepo,
		log:          log,
	}
}

// Read returns page pageNumber of the chapter and, for signed-in readers,
// records it as their reading progress.
func (s *readerService) Read(ctx context.Context, session *auth.Session, comicID, chapterID string, pageNumber int) (*ReaderPage, error) {
	if pageNumber < 1 {
		return nil, apperr.Validation("page must be 1 or greater")
	}

	comic, err := visibleComic(ctx, s.comicRepo, session, comicID)
	if err != nil {
		return nil, err
	}

	chapter, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.ComicID != comicID {
		return nil, apperr.NotFound("chapter not found")
	}
	if chapter.PageCount == 0 {
		return nil, apperr.NotFound("chapter has no pages yet")
	}
	if pageNumber > chapter.PageCount {
		return nil, apperr.NotFound(fmt.Sprintf("page %d not found, chapter has %d pages", pageNumber, chapter.PageCount))
	}

	page, err := s.chapterRepo.GetPage(ctx, chapterID, pageNumber)
	if err != nil {
		return nil, err
	}

	view := &ReaderPage{
		ComicID:       comic.ComicID,
		ComicTitle:    comic.Title,
		ChapterID:     chapter.ChapterID,
		ChapterNumber: chapter.ChapterNumber,
		ChapterTitle:  chapter.Title,
		Page:          *page,
		TotalPages:    chapter.PageCount,
	}

	if view.Prev, err = s.prev(ctx, chapter, pageNumber); err != nil {
		return nil, err
	}
	if view.Next, err = s.next(ctx, chapter, pageNumber); err != nil {
		return nil, err
	}

	if session != nil {
		progress := &models.ReadingProgress{
			UserID:     session.UserID,
			ComicID:    comicID,
			ChapterID:  &chapter.ChapterID,
			PageNumber: pageNumber,
		}
		if err := s.progressRepo.Upsert(ctx, progress); err != nil {
			s.log.Warn("reading progress not saved",
				zap.String("user_id", session.UserID), zap.String("comic_id", comicID), zap.Error(err))
		}
	}

	return view, nil
}

// prev is the previous page, or the last page of the nearest earlier chapter
// that has pages.
func (s *readerService) prev(ctx context.Context, chapter *models.Chapter, pageNumber int) (*PageRef, error) {
	if pageNumber > 1 {
		return &PageRef{ChapterID: chapter.ChapterID, PageNumber: pageNumber - 1}, nil
	}

	number := chapter.ChapterNumber
	for {
		adjacent, err := s.chapterRepo.Adjacent(ctx, chapter.ComicID, number, false)
		if err != nil || adjacent == nil {
			return nil, err
		}
		if adjacent.PageCount > 0 {
			return &PageRef{ChapterID: adjacent.ChapterID, PageNumber: adjacent.PageCount}, nil
		}
		number = adjacent.ChapterNumber
	}
}

// next is the following page, or the first page of the nearest later chapter
// that has pages.
func (s *readerService) next(ctx context.Context, chapter *models.Chapter, pageNumber int) (*PageRef, error) {
	if pageNumber < chapter.PageCount {
		return &PageRef{ChapterID: chapter.ChapterID, PageNumber: pageNumber + 1}, nil
	}

	number := chapter.ChapterNumber
	for {
		adjacent, err := s.chapterRepo.Adjacent(ctx, chapter.ComicID, number, true)
		if err != nil || adjacent == nil {
			return nil, err
		}
		if adjacent.PageCount > 0 {
			return &PageRef{ChapterID: adjacent.ChapterID, PageNumber: 1}, nil
		}
		number = adjacent.ChapterNumber
	}
}

func (s *readerService) Progress(ctx context.Context, session *auth.Session) ([]models.ReadingProgress, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	return s.progressRepo.ListByUser(ctx, session.UserID)
}
