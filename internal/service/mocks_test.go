package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"comicshare/internal/models"
	"comicshare/internal/ordering"
)

type MockChapterRepository struct {
	mock.Mock
}

func (m *MockChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}

func (m *MockChapterRepository) GetByID(ctx context.Context, chapterID string) (*models.Chapter, error) {
	args := m.Called(ctx, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockChapterRepository) ListByComic(ctx context.Context, comicID string) ([]models.Chapter, error) {
	args := m.Called(ctx, comicID)
	return args.Get(0).([]models.Chapter), args.Error(1)
}

func (m *MockChapterRepository) Adjacent(ctx context.Context, comicID string, number int, next bool) (*models.Chapter, error) {
	args := m.Called(ctx, comicID, number, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chapter), args.Error(1)
}

func (m *MockChapterRepository) CreatePage(ctx context.Context, page *models.Page) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

func (m *MockChapterRepository) GetPage(ctx context.Context, chapterID string, pageNumber int) (*models.Page, error) {
	args := m.Called(ctx, chapterID, pageNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page), args.Error(1)
}

func (m *MockChapterRepository) ListPages(ctx context.Context, chapterID string) ([]models.Page, error) {
	args := m.Called(ctx, chapterID)
	return args.Get(0).([]models.Page), args.Error(1)
}

func (m *MockChapterRepository) CountPages(ctx context.Context, chapterID string) (int, error) {
	args := m.Called(ctx, chapterID)
	return args.Int(0), args.Error(1)
}

func (m *MockChapterRepository) LockPageIDs(ctx context.Context, chapterID string) ([]ordering.Assignment, error) {
	args := m.Called(ctx, chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Assignment), args.Error(1)
}

func (m *MockChapterRepository) SetPageNumber(ctx context.Context, pageID string, pageNumber int) error {
	args := m.Called(ctx, pageID, pageNumber)
	return args.Error(0)
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Upsert(ctx context.Context, progress *models.ReadingProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) Get(ctx context.Context, userID, comicID string) (*models.ReadingProgress, error) {
	args := m.Called(ctx, userID, comicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReadingProgress), args.Error(1)
}

func (m *MockProgressRepository) ListByUser(ctx context.Context, userID string) ([]models.ReadingProgress, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.ReadingProgress), args.Error(1)
}

type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) ListPackages(ctx context.Context) ([]models.CreditPackage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.CreditPackage), args.Error(1)
}

func (m *MockCreditRepository) GetPackage(ctx context.Context, packageID int) (*models.CreditPackage, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreditPackage), args.Error(1)
}

func (m *MockCreditRepository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCreditRepository) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByComic(ctx context.Context, comicID string, limit, offset int) ([]models.Comment, int, error) {
	args := m.Called(ctx, comicID, limit, offset)
	return args.Get(0).([]models.Comment), args.Int(1), args.Error(2)
}

func (m *MockCommentRepository) Delete(ctx context.Context, commentID string) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}
