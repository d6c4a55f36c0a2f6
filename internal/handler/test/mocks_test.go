package test

import (
	"context"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"

	"comicshare/internal/auth"
	"comicshare/internal/models"
	"comicshare/internal/service"
	"comicshare/internal/storage"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*models.User, *service.Tokens, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*service.Tokens), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, *service.Tokens, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*service.Tokens), args.Error(2)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, *service.Tokens, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*service.Tokens), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, session *auth.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*jwt.Token, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.Token), args.Error(1)
}

func (m *MockAuthService) SessionFromToken(ctx context.Context, tokenString string) (*auth.Session, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

type MockComicService struct {
	mock.Mock
}

func (m *MockComicService) List(ctx context.Context, session *auth.Session, q service.ComicQuery) (*models.PageResult[models.Comic], error) {
	args := m.Called(ctx, session, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PageResult[models.Comic]), args.Error(1)
}

func (m *MockComicService) GetBySlug(ctx context.Context, session *auth.Session, slug string) (*models.Comic, error) {
	args := m.Called(ctx, session, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comic), args.Error(1)
}

func (m *MockComicService) Create(ctx context.Context, session *auth.Session, in service.ComicInput) (*models.Comic, error) {
	args := m.Called(ctx, session, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comic), args.Error(1)
}

func (m *MockComicService) Update(ctx context.Context, session *auth.Session, comicID string, in service.ComicInput) (*models.Comic, error) {
	args := m.Called(ctx, session, comicID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comic), args.Error(1)
}

func (m *MockComicService) SetStatus(ctx context.Context, session *auth.Session, comicID, status string) error {
	args := m.Called(ctx, session, comicID, status)
	return args.Error(0)
}

func (m *MockComicService) UploadCover(ctx context.Context, session *auth.Session, comicID string, r io.Reader) (*models.Comic, error) {
	args := m.Called(ctx, session, comicID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comic), args.Error(1)
}

func (m *MockComicService) Genres(ctx context.Context) ([]models.Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Genre), args.Error(1)
}

type MockBookmarkService struct {
	mock.Mock
}

func (m *MockBookmarkService) ListFolders(ctx context.Context, session *auth.Session) ([]models.BookmarkFolder, error) {
	args := m.Called(ctx, session)
	return args.Get(0).([]models.BookmarkFolder), args.Error(1)
}

func (m *MockBookmarkService) CreateFolder(ctx context.Context, session *auth.Session, name string) (*models.BookmarkFolder, error) {
	args := m.Called(ctx, session, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookmarkFolder), args.Error(1)
}

func (m *MockBookmarkService) RenameFolder(ctx context.Context, session *auth.Session, folderID, name string) (*models.BookmarkFolder, error) {
	args := m.Called(ctx, session, folderID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookmarkFolder), args.Error(1)
}

func (m *MockBookmarkService) DeleteFolder(ctx context.Context, session *auth.Session, folderID string) error {
	args := m.Called(ctx, session, folderID)
	return args.Error(0)
}

func (m *MockBookmarkService) ReorderFolders(ctx context.Context, session *auth.Session, req service.ReorderRequest) ([]models.BookmarkFolder, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookmarkFolder), args.Error(1)
}

func (m *MockBookmarkService) Remaining(ctx context.Context, session *auth.Session) (int, error) {
	args := m.Called(ctx, session)
	return args.Int(0), args.Error(1)
}

func (m *MockBookmarkService) AddBookmark(ctx context.Context, session *auth.Session, folderID, comicID string) (*models.Bookmark, error) {
	args := m.Called(ctx, session, folderID, comicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bookmark), args.Error(1)
}

func (m *MockBookmarkService) ListBookmarks(ctx context.Context, session *auth.Session, folderID string) ([]models.Bookmark, error) {
	args := m.Called(ctx, session, folderID)
	return args.Get(0).([]models.Bookmark), args.Error(1)
}

func (m *MockBookmarkService) RemoveBookmark(ctx context.Context, session *auth.Session, bookmarkID string) error {
	args := m.Called(ctx, session, bookmarkID)
	return args.Error(0)
}

func (m *MockBookmarkService) MoveBookmark(ctx context.Context, session *auth.Session, bookmarkID, folderID string) (*models.Bookmark, error) {
	args := m.Called(ctx, session, bookmarkID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bookmark), args.Error(1)
}

func (m *MockBookmarkService) ReorderBookmarks(ctx context.Context, session *auth.Session, folderID string, req service.ReorderRequest) ([]models.Bookmark, error) {
	args := m.Called(ctx, session, folderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Bookmark), args.Error(1)
}

type MockUserComicService struct {
	mock.Mock
}

func (m *MockUserComicService) Validate(ctx context.Context, session *auth.Session, draft service.Draft) (*service.DraftReport, error) {
	args := m.Called(ctx, session, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DraftReport), args.Error(1)
}

func (m *MockUserComicService) Submit(ctx context.Context, session *auth.Session, draft service.Draft) (*models.UserComic, error) {
	args := m.Called(ctx, session, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserComic), args.Error(1)
}

func (m *MockUserComicService) MyComics(ctx context.Context, session *auth.Session, p service.Pagination) (*models.PageResult[models.UserComicStats], error) {
	args := m.Called(ctx, session, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PageResult[models.UserComicStats]), args.Error(1)
}

func (m *MockUserComicService) Get(ctx context.Context, session *auth.Session, userComicID string) (*models.UserComic, error) {
	args := m.Called(ctx, session, userComicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserComic), args.Error(1)
}

func (m *MockUserComicService) SetStatus(ctx context.Context, session *auth.Session, userComicID, status string) error {
	args := m.Called(ctx, session, userComicID, status)
	return args.Error(0)
}

func (m *MockUserComicService) Delete(ctx context.Context, session *auth.Session, userComicID string) error {
	args := m.Called(ctx, session, userComicID)
	return args.Error(0)
}

func (m *MockUserComicService) ReorderPages(ctx context.Context, session *auth.Session, userComicID string, req service.ReorderRequest) ([]models.ComicPage, error) {
	args := m.Called(ctx, session, userComicID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ComicPage), args.Error(1)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) GetCountTablesDB(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTablesService) CheckStorage(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockAdsService struct {
	mock.Mock
}

func (m *MockAdsService) List(ctx context.Context, position string) ([]storage.Object, error) {
	args := m.Called(ctx, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Object), args.Error(1)
}
