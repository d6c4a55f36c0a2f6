package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

const (
	TransactionPurchase = "purchase"
	TransactionSpend    = "spend"
)

type User struct {
	UserID                 string     `json:"userId" db:"user_id"`
	Email                  string     `json:"email" db:"email"`
	PasswordHash           string     `json:"-" db:"password_hash"`
	RefreshToken           *string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime *time.Time `json:"-" db:"refresh_token_expiry_time"`
	TokenVersion           int        `json:"-" db:"token_version"`
	CreatedAt              time.Time  `json:"createdAt" db:"created_at"`
}

// SessionState is what an access token is checked against on every request.
type SessionState struct {
	UserID       string `db:"user_id"`
	Email        string `db:"email"`
	Role         string `db:"role"`
	TokenVersion int    `db:"token_version"`
}

type Profile struct {
	UserID             string    `json:"userId" db:"user_id"`
	Username           string    `json:"username" db:"username"`
	DisplayName        *string   `json:"displayName" db:"display_name"`
	AvatarURL          *string   `json:"avatarUrl" db:"avatar_url"`
	Role               string    `json:"role" db:"role"`
	Credits            int       `json:"credits" db:"credits"`
	Theme              string    `json:"theme" db:"theme"`
	EmailNotifications bool      `json:"emailNotifications" db:"email_notifications"`
	PushNotifications  bool      `json:"pushNotifications" db:"push_notifications"`
	MaxBookmarkFolders int       `json:"maxBookmarkFolders" db:"max_bookmark_folders"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

type Genre struct {
	GenreID int    `json:"genreId" db:"genre_id"`
	Name    string `json:"name" db:"name"`
	Slug    string `json:"slug" db:"slug"`
}

type Comic struct {
	ComicID         string    `json:"comicId" db:"comic_id"`
	Slug            string    `json:"slug" db:"slug"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	DescriptionHTML string    `json:"descriptionHtml,omitempty" db:"-"`
	Author          string    `json:"author" db:"author"`
	Artist          string    `json:"artist" db:"artist"`
	CoverURL        *string   `json:"coverUrl" db:"cover_url"`
	Status          string    `json:"status" db:"status"`
	CreatedBy       *string   `json:"createdBy" db:"created_by"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
	Genres          []Genre   `json:"genres,omitempty" db:"-"`
}

type Chapter struct {
	ChapterID     string     `json:"chapterId" db:"chapter_id"`
	ComicID       string     `json:"comicId" db:"comic_id"`
	ChapterNumber int        `json:"chapterNumber" db:"chapter_number"`
	Title         string     `json:"title" db:"title"`
	PageCount     int        `json:"pageCount" db:"page_count"`
	PublishedAt   *time.Time `json:"publishedAt" db:"published_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

// Page belongs to a chapter of an official comic.
type Page struct {
	PageID     string    `json:"pageId" db:"page_id"`
	ChapterID  string    `json:"chapterId" db:"chapter_id"`
	PageNumber int       `json:"pageNumber" db:"page_number"`
	ImageURL   string    `json:"imageUrl" db:"image_url"`
	ObjectKey  string    `json:"-" db:"object_key"`
	Width      int       `json:"width" db:"width"`
	Height     int       `json:"height" db:"height"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// UserComic is a comic uploaded by a regular user through the upload wizard.
type UserComic struct {
	UserComicID    string         `json:"userComicId" db:"user_comic_id"`
	UserID         string         `json:"userId" db:"user_id"`
	Slug           string         `json:"slug" db:"slug"`
	Title          string         `json:"title" db:"title"`
	Artist         string         `json:"artist" db:"artist"`
	Description    string         `json:"description" db:"description"`
	Tags           pq.StringArray `json:"tags" db:"tags"`
	CoverURL       *string        `json:"coverUrl" db:"cover_url"`
	CoverObjectKey *string        `json:"-" db:"cover_object_key"`
	Status         string         `json:"status" db:"status"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
	Pages          []ComicPage    `json:"pages,omitempty" db:"-"`
}

// ComicPage belongs directly to a user comic.
type ComicPage struct {
	PageID      string    `json:"pageId" db:"page_id"`
	UserComicID string    `json:"userComicId" db:"user_comic_id"`
	PageNumber  int       `json:"pageNumber" db:"page_number"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	ObjectKey   string    `json:"-" db:"object_key"`
	Width       int       `json:"width" db:"width"`
	Height      int       `json:"height" db:"height"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// UserComicStats is a row of the user_comic_stats stored function.
type UserComicStats struct {
	UserComicID string    `json:"userComicId" db:"user_comic_id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Status      string    `json:"status" db:"status"`
	CoverURL    *string   `json:"coverUrl" db:"cover_url"`
	PageCount   int       `json:"pageCount" db:"page_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	TotalCount  int       `json:"-" db:"total_count"`
}

type BookmarkFolder struct {
	FolderID      string    `json:"folderId" db:"folder_id"`
	UserID        string    `json:"userId" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	DisplayOrder  int       `json:"displayOrder" db:"display_order"`
	BookmarkCount int       `json:"bookmarkCount" db:"bookmark_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

type Bookmark struct {
	BookmarkID   string    `json:"bookmarkId" db:"bookmark_id"`
	UserID       string    `json:"userId" db:"user_id"`
	ComicID      string    `json:"comicId" db:"comic_id"`
	FolderID     string    `json:"folderId" db:"folder_id"`
	DisplayOrder int       `json:"displayOrder" db:"display_order"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	ComicTitle   string    `json:"comicTitle" db:"comic_title"`
	ComicSlug    string    `json:"comicSlug" db:"comic_slug"`
	ComicCover   *string   `json:"comicCoverUrl" db:"comic_cover_url"`
}

type ReadingProgress struct {
	UserID     string    `json:"userId" db:"user_id"`
	ComicID    string    `json:"comicId" db:"comic_id"`
	ChapterID  *string   `json:"chapterId" db:"chapter_id"`
	PageNumber int       `json:"pageNumber" db:"page_number"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
	ComicTitle string    `json:"comicTitle,omitempty" db:"comic_title"`
}

type Comment struct {
	CommentID string    `json:"commentId" db:"comment_id"`
	ComicID   string    `json:"comicId" db:"comic_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CreditPackage struct {
	PackageID  int    `json:"packageId" db:"package_id"`
	Name       string `json:"name" db:"name"`
	Credits    int    `json:"credits" db:"credits"`
	PriceCents int    `json:"priceCents" db:"price_cents"`
	Active     bool   `json:"active" db:"active"`
}

type Transaction struct {
	TransactionID string    `json:"transactionId" db:"transaction_id"`
	UserID        string    `json:"userId" db:"user_id"`
	PackageID     *int      `json:"packageId" db:"package_id"`
	Kind          string    `json:"kind" db:"kind"`
	Amount        int       `json:"amount" db:"amount"`
	BalanceAfter  int       `json:"balanceAfter" db:"balance_after"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// PageResult is a window over a listing together with the unpaged total.
type PageResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
