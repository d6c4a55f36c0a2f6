package service

import (
	"go.uber.org/zap"

	"comicshare/internal/cache"
	"comicshare/internal/config"
	"comicshare/internal/database"
	"comicshare/internal/repository"
	"comicshare/internal/storage"
)

type Service struct {
	Auth      AuthService
	Profile   ProfileService
	Comic     ComicService
	Chapter   ChapterService
	Reader    ReaderService
	Bookmark  BookmarkService
	UserComic UserComicService
	Comment   CommentService
	Credit    CreditService
	Ads       AdsService
	Tables    TablesService
}

func NewService(rep *repository.Repository, tx database.Transactor, store storage.Storage, comicCache *cache.ComicCache, cfg *config.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:      NewAuthService(rep.Users, rep.Profiles, tx, cfg),
		Profile:   NewProfileService(rep.Users, rep.Profiles, store, cfg, log),
		Comic:     NewComicService(rep.Comics, tx, store, comicCache, cfg),
		Chapter:   NewChapterService(rep.Comics, rep.Chapters, tx, store, cfg, log),
		Reader:    NewReaderService(rep.Comics, rep.Chapters, rep.Progress, log),
		Bookmark:  NewBookmarkService(rep.Bookmarks, rep.Profiles, rep.Comics, tx),
		UserComic: NewUserComicService(rep.UserComics, tx, store, cfg, log),
		Comment:   NewCommentService(rep.Comments, rep.Comics),
		Credit:    NewCreditService(rep.Credits, rep.Profiles, tx),
		Ads:       NewAdsService(store),
		Tables:    NewTablesService(rep.Tables, store),
	}
}
