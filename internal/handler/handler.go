package handlers

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"comicshare/internal/config"
	"comicshare/internal/service"
)

type Handlers struct {
	AuthService      service.AuthService
	ProfileService   service.ProfileService
	ComicService     service.ComicService
	ChapterService   service.ChapterService
	ReaderService    service.ReaderService
	BookmarkService  service.BookmarkService
	UserComicService service.UserComicService
	CommentService   service.CommentService
	CreditService    service.CreditService
	AdsService       service.AdsService
	TablesService    service.TablesService
	Cfg              *config.Config
	Validate         *validator.Validate
	Log              *zap.Logger
}

func NewHandlers(services *service.Service, cfg *config.Config, log *zap.Logger) *Handlers {
	return &Handlers{
		AuthService:      services.Auth,
		ProfileService:   services.Profile,
		ComicService:     services.Comic,
		ChapterService:   services.Chapter,
		ReaderService:    services.Reader,
		BookmarkService:  services.Bookmark,
		UserComicService: services.UserComic,
		CommentService:   services.Comment,
		CreditService:    services.Credit,
		AdsService:       services.Ads,
		TablesService:    services.Tables,
		Cfg:              cfg,
		Validate:         validator.New(validator.WithRequiredStructEnabled()),
		Log:              log,
	}
}
