package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"comicshare/internal/auth"
	handlers "comicshare/internal/handler"
	"comicshare/internal/middleware"
)

// NewRouter registers every route. Sessions are attached for all requests;
// private routes additionally require one and admin routes require the admin
// role.
func NewRouter(h *handlers.Handlers, verifier middleware.SessionVerifier, limiter *middleware.RateLimiter, allowedOrigin string) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteError(w, "route not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	private := func(f http.HandlerFunc) http.Handler { return middleware.RequireAuth(f) }
	admin := func(f http.HandlerFunc) http.Handler { return middleware.RequireRole(auth.RoleAdmin)(f) }

	r.HandleFunc("/health", handlers.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/test/db", h.TablesHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/test/storage", h.StorageHandler).Methods(http.MethodGet)

	// auth and account
	r.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/refresh-token", h.RefreshToken).Methods(http.MethodPost)
	r.Handle("/api/auth/logout", private(h.Logout)).Methods(http.MethodPost)
	r.Handle("/api/me", private(h.GetCurrentUser)).Methods(http.MethodGet)
	r.Handle("/api/me", private(h.DeleteAccount)).Methods(http.MethodDelete)
	r.Handle("/api/me/settings", private(h.UpdateSettings)).Methods(http.MethodPatch)
	r.Handle("/api/me/avatar", private(h.UploadAvatar)).Methods(http.MethodPut)

	// catalogue and reader
	r.HandleFunc("/api/genres", h.ListGenres).Methods(http.MethodGet)
	r.HandleFunc("/api/comics", h.ListComics).Methods(http.MethodGet)
	r.HandleFunc("/api/comics/{slug}", h.GetComic).Methods(http.MethodGet)
	r.HandleFunc("/api/comics/{comicID}/chapters", h.ListChapters).Methods(http.MethodGet)
	r.HandleFunc("/api/chapters/{chapterID}/pages", h.ListPages).Methods(http.MethodGet)
	r.HandleFunc("/api/read/{comicID}/chapters/{chapterID}", h.ReadPage).Methods(http.MethodGet)
	r.Handle("/api/progress", private(h.ListProgress)).Methods(http.MethodGet)

	// comments
	r.HandleFunc("/api/comics/{comicID}/comments", h.ListComments).Methods(http.MethodGet)
	r.Handle("/api/comics/{comicID}/comments", private(h.AddComment)).Methods(http.MethodPost)
	r.Handle("/api/comments/{commentID}", private(h.DeleteComment)).Methods(http.MethodDelete)

	// bookmarks
	r.Handle("/api/bookmarks/folders", private(h.ListFolders)).Methods(http.MethodGet)
	r.Handle("/api/bookmarks/folders", private(h.CreateFolder)).Methods(http.MethodPost)
	r.Handle("/api/bookmarks/folders/order", private(h.ReorderFolders)).Methods(http.MethodPut)
	r.Handle("/api/bookmarks/folders/{folderID}", private(h.RenameFolder)).Methods(http.MethodPatch)
	r.Handle("/api/bookmarks/folders/{folderID}", private(h.DeleteFolder)).Methods(http.MethodDelete)
	r.Handle("/api/bookmarks/folders/{folderID}/bookmarks", private(h.ListBookmarks)).Methods(http.MethodGet)
	r.Handle("/api/bookmarks/folders/{folderID}/bookmarks", private(h.AddBookmark)).Methods(http.MethodPost)
	r.Handle("/api/bookmarks/folders/{folderID}/bookmarks/order", private(h.ReorderBookmarks)).Methods(http.MethodPut)
	r.Handle("/api/bookmarks/{bookmarkID}", private(h.MoveBookmark)).Methods(http.MethodPatch)
	r.Handle("/api/bookmarks/{bookmarkID}", private(h.RemoveBookmark)).Methods(http.MethodDelete)

	// user uploads
	r.Handle("/api/user-comics", private(h.MyComics)).Methods(http.MethodGet)
	r.Handle("/api/user-comics", private(h.SubmitComic)).Methods(http.MethodPost)
	r.Handle("/api/user-comics/validate", private(h.ValidateDraft)).Methods(http.MethodPost)
	r.HandleFunc("/api/user-comics/{userComicID}", h.GetUserComic).Methods(http.MethodGet)
	r.Handle("/api/user-comics/{userComicID}", private(h.DeleteUserComic)).Methods(http.MethodDelete)
	r.Handle("/api/user-comics/{userComicID}/status", private(h.SetUserComicStatus)).Methods(http.MethodPatch)
	r.Handle("/api/user-comics/{userComicID}/pages/order", private(h.ReorderUserComicPages)).Methods(http.MethodPut)

	// credits and ads
	r.HandleFunc("/api/credits/packages", h.ListPackages).Methods(http.MethodGet)
	r.Handle("/api/credits/purchase", private(h.PurchaseCredits)).Methods(http.MethodPost)
	r.Handle("/api/credits/transactions", private(h.ListTransactions)).Methods(http.MethodGet)
	r.HandleFunc("/api/ads/{position}", h.ListAds).Methods(http.MethodGet)

	// administration
	r.Handle("/api/admin/comics", admin(h.CreateComic)).Methods(http.MethodPost)
	r.Handle("/api/admin/comics/{comicID}", admin(h.UpdateComic)).Methods(http.MethodPut)
	r.Handle("/api/admin/comics/{comicID}/status", admin(h.SetComicStatus)).Methods(http.MethodPatch)
	r.Handle("/api/admin/comics/{comicID}/cover", admin(h.UploadComicCover)).Methods(http.MethodPut)
	r.Handle("/api/admin/comics/{comicID}/chapters", admin(h.CreateChapter)).Methods(http.MethodPost)
	r.Handle("/api/admin/chapters/{chapterID}/pages", admin(h.UploadPage)).Methods(http.MethodPost)
	r.Handle("/api/admin/chapters/{chapterID}/pages/order", admin(h.ReorderPages)).Methods(http.MethodPut)

	return middleware.Chain(
		r,
		middleware.Auth(verifier),
		limiter.Middleware,
		middleware.CORS(allowedOrigin),
		middleware.Logging(h.Log),
		middleware.Recover(h.Log),
	)
}

// Router builds the HTTP handler for this App.
func (a *App) Router() http.Handler {
	return NewRouter(a.Handlers, a.Services.Auth, a.Limiter, a.Cfg.Server.AllowedOrigin)
}
