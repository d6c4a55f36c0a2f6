package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"comicshare/internal/models"
	"comicshare/internal/ordering"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	// RevokeSessions clears the refresh token and invalidates every access
	// token issued so far.
	RevokeSessions(ctx context.Context, userID string) error
	GetSessionState(ctx context.Context, userID string) (*models.SessionState, error)
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	UpdateSettings(ctx context.Context, profile *models.Profile) error
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
	SetFolderLimit(ctx context.Context, userID string, limit int) error
	// AddCredits applies delta to the balance and returns the new balance.
	AddCredits(ctx context.Context, userID string, delta int) (int, error)
}

// ComicFilter narrows a catalogue listing. Zero values mean no restriction.
type ComicFilter struct {
	Query     string
	GenreSlug string
	Status    string
	Limit     int
	Offset    int
}

type ComicRepository interface {
	Create(ctx context.Context, comic *models.Comic) error
	Update(ctx context.Context, comic *models.Comic) error
	UpdateStatus(ctx context.Context, comicID, status string) error
	UpdateCover(ctx context.Context, comicID, coverURL string) error
	GetByID(ctx context.Context, comicID string) (*models.Comic, error)
	GetBySlug(ctx context.Context, slug string) (*models.Comic, error)
	List(ctx context.Context, filter ComicFilter) ([]models.Comic, int, error)
	SetGenres(ctx context.Context, comicID string, genreIDs []int) error
	GenresFor(ctx context.Context, comicID string) ([]models.Genre, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
}

type ChapterRepository interface {
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, chapterID string) (*models.Chapter, error)
	ListByComic(ctx context.Context, comicID string) ([]models.Chapter, error)
	// Adjacent returns the nearest chapter before or after number, or nil.
	Adjacent(ctx context.Context, comicID string, number int, next bool) (*models.Chapter, error)
	CreatePage(ctx context.Context, page *models.Page) error
	GetPage(ctx context.Context, chapterID string, pageNumber int) (*models.Page, error)
	ListPages(ctx context.Context, chapterID string) ([]models.Page, error)
	CountPages(ctx context.Context, chapterID string) (int, error)
	// LockPageIDs returns page ids with their stored numbers in page order and
	// locks the rows.
	LockPageIDs(ctx context.Context, chapterID string) ([]ordering.Assignment, error)
	SetPageNumber(ctx context.Context, pageID string, pageNumber int) error
}

type UserComicRepository interface {
	Create(ctx context.Context, comic *models.UserComic) error
	UpdateCover(ctx context.Context, userComicID, coverURL, objectKey string) error
	GetByID(ctx context.Context, userComicID string) (*models.UserComic, error)
	ListStats(ctx context.Context, userID string, limit, offset int) ([]models.UserComicStats, error)
	UpdateStatus(ctx context.Context, userComicID, status string) error
	Delete(ctx context.Context, userComicID string) error
	CreatePage(ctx context.Context, page *models.ComicPage) error
	ListPages(ctx context.Context, userComicID string) ([]models.ComicPage, error)
	LockPageIDs(ctx context.Context, userComicID string) ([]ordering.Assignment, error)
	SetPageNumber(ctx context.Context, pageID string, pageNumber int) error
}

type BookmarkRepository interface {
	CreateFolder(ctx context.Context, folder *models.BookmarkFolder) error
	GetFolder(ctx context.Context, folderID string) (*models.BookmarkFolder, error)
	ListFolders(ctx context.Context, userID string) ([]models.BookmarkFolder, error)
	CountFolders(ctx context.Context, userID string) (int, error)
	RenameFolder(ctx context.Context, folderID, name string) error
	DeleteFolder(ctx context.Context, folderID string) error
	LockFolderIDs(ctx context.Context, userID string) ([]ordering.Assignment, error)
	SetFolderOrder(ctx context.Context, folderID string, order int) error

	AddBookmark(ctx context.Context, bookmark *models.Bookmark) error
	GetBookmark(ctx context.Context, bookmarkID string) (*models.Bookmark, error)
	ListBookmarks(ctx context.Context, folderID string) ([]models.Bookmark, error)
	DeleteBookmark(ctx context.Context, bookmarkID string) error
	MoveBookmark(ctx context.Context, bookmarkID, folderID string) error
	LockBookmarkIDs(ctx context.Context, folderID string) ([]ordering.Assignment, error)
	SetBookmarkOrder(ctx context.Context, bookmarkID string, order int) error
}

type ProgressRepository interface {
	Upsert(ctx context.Context, progress *models.ReadingProgress) error
	Get(ctx context.Context, userID, comicID string) (*models.ReadingProgress, error)
	ListByUser(ctx context.Context, userID string) ([]models.ReadingProgress, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, commentID string) (*models.Comment, error)
	ListByComic(ctx context.Context, comicID string, limit, offset int) ([]models.Comment, int, error)
	Delete(ctx context.Context, commentID string) error
}

type CreditRepository interface {
	ListPackages(ctx context.Context) ([]models.CreditPackage, error)
	GetPackage(ctx context.Context, packageID int) (*models.CreditPackage, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error)
}

type TablesRepository interface {
	CountTablesDB(ctx context.Context) (int, error)
}

type Repository struct {
	Users      UserRepository
	Profiles   ProfileRepository
	Comics     ComicRepository
	Chapters   ChapterRepository
	UserComics UserComicRepository
	Bookmarks  BookmarkRepository
	Progress   ProgressRepository
	Comments   CommentRepository
	Credits    CreditRepository
	Tables     TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Users:      NewUserRepository(db),
		Profiles:   NewProfileRepository(db),
		Comics:     NewComicRepository(db),
		Chapters:   NewChapterRepository(db),
		UserComics: NewUserComicRepository(db),
		Bookmarks:  NewBookmarkRepository(db),
		Progress:   NewProgressRepository(db),
		Comments:   NewCommentRepository(db),
		Credits:    NewCreditRepository(db),
		Tables:     NewTablesRepository(db),
	}
}
