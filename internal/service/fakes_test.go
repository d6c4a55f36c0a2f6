package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"comicshare/internal/apperr"
	"comicshare/internal/config"
	"comicshare/internal/models"
	"comicshare/internal/ordering"
	"comicshare/internal/repository"
	"comicshare/internal/storage"
	"comicshare/internal/wizard"
)

// memData backs the in-memory repositories. Its rules mirror the schema's
// constraints and triggers closely enough for service tests.
type memData struct {
	mu         sync.Mutex
	users      map[string]*models.User
	profiles   map[string]*models.Profile
	comics     map[string]*models.Comic
	folders    map[string]*models.BookmarkFolder
	bookmarks  map[string]*models.Bookmark
	userComics map[string]*models.UserComic
	comicPages map[string][]models.ComicPage
	passwords  map[string]string
	clock      time.Time
}

func newMemData() *memData {
	return &memData{
		users:      map[string]*models.User{},
		profiles:   map[string]*models.Profile{},
		comics:     map[string]*models.Comic{},
		folders:    map[string]*models.BookmarkFolder{},
		bookmarks:  map[string]*models.Bookmark{},
		userComics: map[string]*models.UserComic{},
		comicPages: map[string][]models.ComicPage{},
		passwords:  map[string]string{},
		clock:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing creation time so ties on a position
// break the way created_at does. Callers hold mu.
func (d *memData) tick() time.Time {
	d.clock = d.clock.Add(time.Millisecond)
	return d.clock
}

func (d *memData) repository() *repository.Repository {
	return &repository.Repository{
		Users:      &memUsers{d},
		Profiles:   &memProfiles{d},
		Comics:     &memComics{d},
		Bookmarks:  &memBookmarks{d},
		UserComics: &memUserComics{d},
	}
}

func (d *memData) addComic(title, status string) *models.Comic {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := &models.Comic{ComicID: uuid.New().String(), Slug: slugify(title), Title: title, Status: status, CreatedAt: time.Now()}
	d.comics[c.ComicID] = c
	return c
}

// fakeTx runs fn inline. onBegin observes the moment a transaction opens and
// commitErr, when set, fails the commit after fn succeeded.
type fakeTx struct {
	calls     int
	onBegin   func()
	commitErr error
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if f.onBegin != nil {
		f.onBegin()
	}
	if err := fn(ctx); err != nil {
		return err
	}
	return f.commitErr
}

// users

type memUsers struct{ d *memData }

func (r *memUsers) CreateUser(_ context.Context, user *models.User, password string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if u.Email == user.Email {
			return apperr.Conflict("email is already registered")
		}
	}
	user.UserID = uuid.New().String()
	user.PasswordHash = "hashed:" + password
	user.CreatedAt = time.Now()
	cp := *user
	r.d.users[user.UserID] = &cp
	r.d.passwords[user.Email] = password
	r.d.profiles[user.UserID] = &models.Profile{
		UserID:             user.UserID,
		Username:           strings.SplitN(user.Email, "@", 2)[0],
		Role:               "user",
		Theme:              models.ThemeSystem,
		MaxBookmarkFolders: 100,
	}
	return nil
}

func (r *memUsers) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	u, ok := r.d.users[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (r *memUsers) DeleteUser(_ context.Context, userID string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.users[userID]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(r.d.users, userID)
	delete(r.d.profiles, userID)
	return nil
}

func (r *memUsers) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	u, err := r.GetUserByEmail(ctx, email)
	if err != nil || r.d.passwords[email] != password {
		return nil, apperr.New(apperr.ErrUnauthorized, "invalid email or password")
	}
	return u, nil
}

func (r *memUsers) UpdateRefreshToken(_ context.Context, userID, token string, expiry time.Time) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	u, ok := r.d.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.RefreshToken = &token
	u.RefreshTokenExpiryTime = &expiry
	return nil
}

func (r *memUsers) RevokeSessions(_ context.Context, userID string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if u, ok := r.d.users[userID]; ok {
		u.RefreshToken = nil
		u.RefreshTokenExpiryTime = nil
		u.TokenVersion++
	}
	return nil
}

func (r *memUsers) GetSessionState(_ context.Context, userID string) (*models.SessionState, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	u, ok := r.d.users[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	state := &models.SessionState{UserID: u.UserID, Email: u.Email, TokenVersion: u.TokenVersion}
	if p, ok := r.d.profiles[userID]; ok {
		state.Role = p.Role
	}
	return state, nil
}

func (r *memUsers) GetUserByRefreshToken(_ context.Context, token string) (*models.User, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, u := range r.d.users {
		if u.RefreshToken != nil && *u.RefreshToken == token && u.RefreshTokenExpiryTime.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.ErrUnauthorized, "invalid or expired refresh token")
}

// profiles

type memProfiles struct{ d *memData }

func (r *memProfiles) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	p, ok := r.d.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("profile not found")
	}
	cp := *p
	return &cp, nil
}

func (r *memProfiles) UpdateSettings(_ context.Context, profile *models.Profile) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.profiles[profile.UserID]; !ok {
		return apperr.NotFound("profile not found")
	}
	cp := *profile
	r.d.profiles[profile.UserID] = &cp
	return nil
}

func (r *memProfiles) UpdateAvatar(_ context.Context, userID, url string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	p, ok := r.d.profiles[userID]
	if !ok {
		return apperr.NotFound("profile not found")
	}
	p.AvatarURL = &url
	return nil
}

func (r *memProfiles) SetFolderLimit(_ context.Context, userID string, limit int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	p, ok := r.d.profiles[userID]
	if !ok {
		return apperr.NotFound("profile not found")
	}
	p.MaxBookmarkFolders = limit
	return nil
}

func (r *memProfiles) AddCredits(_ context.Context, userID string, delta int) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	p, ok := r.d.profiles[userID]
	if !ok {
		return 0, apperr.NotFound("profile not found")
	}
	if p.Credits+delta < 0 {
		return 0, apperr.Validation("value is not allowed")
	}
	p.Credits += delta
	return p.Credits, nil
}

// comics

type memComics struct{ d *memData }

func (r *memComics) Create(_ context.Context, comic *models.Comic) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, c := range r.d.comics {
		if c.Slug == comic.Slug {
			return apperr.Conflict("slug is already taken")
		}
	}
	comic.ComicID = uuid.New().String()
	cp := *comic
	r.d.comics[comic.ComicID] = &cp
	return nil
}

func (r *memComics) Update(_ context.Context, comic *models.Comic) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.comics[comic.ComicID]; !ok {
		return apperr.NotFound("comic not found")
	}
	cp := *comic
	r.d.comics[comic.ComicID] = &cp
	return nil
}

func (r *memComics) UpdateStatus(_ context.Context, comicID, status string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.comics[comicID]
	if !ok {
		return apperr.NotFound("comic not found")
	}
	c.Status = status
	return nil
}

func (r *memComics) UpdateCover(_ context.Context, comicID, url string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.comics[comicID]
	if !ok {
		return apperr.NotFound("comic not found")
	}
	c.CoverURL = &url
	return nil
}

func (r *memComics) GetByID(_ context.Context, comicID string) (*models.Comic, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.comics[comicID]
	if !ok {
		return nil, apperr.NotFound("comic not found")
	}
	cp := *c
	return &cp, nil
}

func (r *memComics) GetBySlug(_ context.Context, slug string) (*models.Comic, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, c := range r.d.comics {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("comic not found")
}

func (r *memComics) List(_ context.Context, f repository.ComicFilter) ([]models.Comic, int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var all []models.Comic
	for _, c := range r.d.comics {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(f.Query)) {
			continue
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	total := len(all)
	if f.Offset >= total {
		return []models.Comic{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return all[f.Offset:end], total, nil
}

func (r *memComics) SetGenres(context.Context, string, []int) error { return nil }

func (r *memComics) GenresFor(context.Context, string) ([]models.Genre, error) {
	return []models.Genre{{GenreID: 1, Name: "Action", Slug: "action"}}, nil
}

func (r *memComics) ListGenres(context.Context) ([]models.Genre, error) {
	return []models.Genre{{GenreID: 1, Name: "Action", Slug: "action"}}, nil
}

// bookmarks

type memBookmarks struct{ d *memData }

func (r *memBookmarks) CreateFolder(_ context.Context, folder *models.BookmarkFolder) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	limit := 100
	if p, ok := r.d.profiles[folder.UserID]; ok {
		limit = p.MaxBookmarkFolders
	}
	count, next := 0, 0
	for _, f := range r.d.folders {
		if f.UserID != folder.UserID {
			continue
		}
		if f.Name == folder.Name {
			return apperr.Conflict("a folder with this name already exists")
		}
		count++
		if f.DisplayOrder >= next {
			next = f.DisplayOrder + 1
		}
	}
	if count >= limit {
		return apperr.New(apperr.ErrLimitExceeded, "bookmark folder limit reached")
	}

	folder.FolderID = uuid.New().String()
	folder.DisplayOrder = next
	folder.CreatedAt = r.d.tick()
	cp := *folder
	r.d.folders[folder.FolderID] = &cp
	return nil
}

func (r *memBookmarks) countIn(folderID string) int {
	n := 0
	for _, b := range r.d.bookmarks {
		if b.FolderID == folderID {
			n++
		}
	}
	return n
}

func (r *memBookmarks) GetFolder(_ context.Context, folderID string) (*models.BookmarkFolder, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	f, ok := r.d.folders[folderID]
	if !ok {
		return nil, apperr.NotFound("folder not found")
	}
	cp := *f
	cp.BookmarkCount = r.countIn(folderID)
	return &cp, nil
}

func (r *memBookmarks) ListFolders(_ context.Context, userID string) ([]models.BookmarkFolder, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []models.BookmarkFolder{}
	for _, f := range r.d.folders {
		if f.UserID == userID {
			cp := *f
			cp.BookmarkCount = r.countIn(f.FolderID)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memBookmarks) CountFolders(_ context.Context, userID string) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	n := 0
	for _, f := range r.d.folders {
		if f.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *memBookmarks) RenameFolder(_ context.Context, folderID, name string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	f, ok := r.d.folders[folderID]
	if !ok {
		return apperr.NotFound("folder not found")
	}
	f.Name = name
	return nil
}

func (r *memBookmarks) DeleteFolder(_ context.Context, folderID string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.folders[folderID]; !ok {
		return apperr.NotFound("folder not found")
	}
	delete(r.d.folders, folderID)
	for id, b := range r.d.bookmarks {
		if b.FolderID == folderID {
			delete(r.d.bookmarks, id)
		}
	}
	return nil
}

func (r *memBookmarks) LockFolderIDs(ctx context.Context, userID string) ([]ordering.Assignment, error) {
	folders, _ := r.ListFolders(ctx, userID)
	rows := make([]ordering.Assignment, len(folders))
	for i, f := range folders {
		rows[i] = ordering.Assignment{ID: f.FolderID, Position: f.DisplayOrder}
	}
	return rows, nil
}

func (r *memBookmarks) SetFolderOrder(_ context.Context, folderID string, order int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	f, ok := r.d.folders[folderID]
	if !ok {
		return apperr.NotFound("folder not found")
	}
	f.DisplayOrder = order
	return nil
}

func (r *memBookmarks) AddBookmark(_ context.Context, b *models.Bookmark) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	next := 0
	for _, other := range r.d.bookmarks {
		if other.FolderID != b.FolderID {
			continue
		}
		if other.ComicID == b.ComicID {
			return apperr.Conflict("comic is already bookmarked in this folder")
		}
		if other.DisplayOrder >= next {
			next = other.DisplayOrder + 1
		}
	}
	b.BookmarkID = uuid.New().String()
	b.DisplayOrder = next
	b.CreatedAt = r.d.tick()
	cp := *b
	r.d.bookmarks[b.BookmarkID] = &cp
	return nil
}

func (r *memBookmarks) GetBookmark(_ context.Context, id string) (*models.Bookmark, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	b, ok := r.d.bookmarks[id]
	if !ok {
		return nil, apperr.NotFound("bookmark not found")
	}
	cp := *b
	if c, ok := r.d.comics[b.ComicID]; ok {
		cp.ComicTitle = c.Title
		cp.ComicSlug = c.Slug
	}
	return &cp, nil
}

func (r *memBookmarks) ListBookmarks(_ context.Context, folderID string) ([]models.Bookmark, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := []models.Bookmark{}
	for _, b := range r.d.bookmarks {
		if b.FolderID == folderID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memBookmarks) DeleteBookmark(_ context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.bookmarks[id]; !ok {
		return apperr.NotFound("bookmark not found")
	}
	delete(r.d.bookmarks, id)
	return nil
}

func (r *memBookmarks) MoveBookmark(_ context.Context, id, folderID string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	b, ok := r.d.bookmarks[id]
	if !ok {
		return apperr.NotFound("bookmark not found")
	}
	next := 0
	for _, other := range r.d.bookmarks {
		if other.FolderID != folderID || other.BookmarkID == id {
			continue
		}
		if other.ComicID == b.ComicID {
			return apperr.Conflict("comic is already bookmarked in this folder")
		}
		if other.DisplayOrder >= next {
			next = other.DisplayOrder + 1
		}
	}
	b.FolderID = folderID
	b.DisplayOrder = next
	return nil
}

func (r *memBookmarks) LockBookmarkIDs(ctx context.Context, folderID string) ([]ordering.Assignment, error) {
	items, _ := r.ListBookmarks(ctx, folderID)
	rows := make([]ordering.Assignment, len(items))
	for i, b := range items {
		rows[i] = ordering.Assignment{ID: b.BookmarkID, Position: b.DisplayOrder}
	}
	return rows, nil
}

func (r *memBookmarks) SetBookmarkOrder(_ context.Context, id string, order int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	b, ok := r.d.bookmarks[id]
	if !ok {
		return apperr.NotFound("bookmark not found")
	}
	b.DisplayOrder = order
	return nil
}

// user comics

type memUserComics struct{ d *memData }

func (r *memUserComics) Create(_ context.Context, comic *models.UserComic) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for _, c := range r.d.userComics {
		if c.Slug == comic.Slug {
			return apperr.Conflict("slug is already taken")
		}
	}
	comic.CreatedAt = time.Now()
	cp := *comic
	cp.Pages = nil
	r.d.userComics[comic.UserComicID] = &cp
	return nil
}

func (r *memUserComics) UpdateCover(_ context.Context, id, url, key string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.userComics[id]
	if !ok {
		return apperr.NotFound("comic not found")
	}
	c.CoverURL, c.CoverObjectKey = &url, &key
	return nil
}

func (r *memUserComics) GetByID(_ context.Context, id string) (*models.UserComic, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.userComics[id]
	if !ok {
		return nil, apperr.NotFound("comic not found")
	}
	cp := *c
	return &cp, nil
}

func (r *memUserComics) ListStats(_ context.Context, userID string, limit, offset int) ([]models.UserComicStats, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var all []models.UserComicStats
	for _, c := range r.d.userComics {
		if c.UserID != userID {
			continue
		}
		all = append(all, models.UserComicStats{
			UserComicID: c.UserComicID,
			Title:       c.Title,
			Slug:        c.Slug,
			Status:      c.Status,
			CoverURL:    c.CoverURL,
			PageCount:   len(r.d.comicPages[c.UserComicID]),
			CreatedAt:   c.CreatedAt,
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	for i := range all {
		all[i].TotalCount = len(all)
	}
	if offset >= len(all) {
		return []models.UserComicStats{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memUserComics) UpdateStatus(_ context.Context, id, status string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.userComics[id]
	if !ok {
		return apperr.NotFound("comic not found")
	}
	c.Status = status
	return nil
}

func (r *memUserComics) Delete(_ context.Context, id string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.userComics[id]; !ok {
		return apperr.NotFound("comic not found")
	}
	delete(r.d.userComics, id)
	delete(r.d.comicPages, id)
	return nil
}

func (r *memUserComics) CreatePage(_ context.Context, page *models.ComicPage) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.userComics[page.UserComicID]; !ok {
		return apperr.NotFound("referenced record does not exist")
	}
	if page.PageID == "" {
		page.PageID = uuid.New().String()
	}
	r.d.comicPages[page.UserComicID] = append(r.d.comicPages[page.UserComicID], *page)
	return nil
}

func (r *memUserComics) ListPages(_ context.Context, id string) ([]models.ComicPage, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	out := append([]models.ComicPage{}, r.d.comicPages[id]...)
	sort.Slice(out, func(i, j int) bool { return out[i].PageNumber < out[j].PageNumber })
	return out, nil
}

func (r *memUserComics) LockPageIDs(ctx context.Context, id string) ([]ordering.Assignment, error) {
	pages, _ := r.ListPages(ctx, id)
	rows := make([]ordering.Assignment, len(pages))
	for i, p := range pages {
		rows[i] = ordering.Assignment{ID: p.PageID, Position: p.PageNumber}
	}
	return rows, nil
}

func (r *memUserComics) SetPageNumber(_ context.Context, pageID string, n int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for id, pages := range r.d.comicPages {
		for i := range pages {
			if pages[i].PageID == pageID {
				r.d.comicPages[id][i].PageNumber = n
				return nil
			}
		}
	}
	return apperr.NotFound("page not found")
}

// memStore is an in-memory object store. failAt makes the n-th upload
// (1-based) fail.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
	failAt  int
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	if m.failAt > 0 && m.uploads == m.failAt {
		return "", apperr.New(apperr.ErrStorage, "failed to upload file")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	return m.PublicURL(key), nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memStore) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			delete(m.objects, k)
			m.deleted = append(m.deleted, k)
		}
	}
	return nil
}

func (m *memStore) List(_ context.Context, prefix string) ([]storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []storage.Object
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.Object{Key: k, URL: "http://cdn.test/" + k, Size: int64(len(v))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memStore) PresignedURL(_ context.Context, key string) (string, error) {
	return "http://cdn.test/" + key + "?signature=test", nil
}

func (m *memStore) PublicURL(key string) string { return "http://cdn.test/" + key }

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:         "test-secret",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		DefaultFolderLimit:   100,
		Upload:               config.Upload{MaxUploadSize: 1 << 20, MaxPages: wizard.DefaultMaxPages},
	}
}

// pngBytes encodes a w x h image.
func pngBytes(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func pngFile(name string) wizard.File {
	data := pngBytes(4, 6)
	return wizard.File{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: "image/png",
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func pngFiles(n int) []wizard.File {
	files := make([]wizard.File, n)
	for i := range files {
		files[i] = pngFile(fmt.Sprintf("page-%d.png", i+1))
	}
	return files
}

// harness wires real services over the in-memory fakes.
type harness struct {
	data  *memData
	store *memStore
	tx    *fakeTx
	cfg   *config.Config
	svc   *Service
}

func newHarness() *harness {
	h := &harness{data: newMemData(), store: newMemStore(), tx: &fakeTx{}, cfg: testConfig()}
	rep := h.data.repository()
	log := zap.NewNop()
	h.svc = &Service{
		Auth:      NewAuthService(rep.Users, rep.Profiles, h.tx, h.cfg),
		Profile:   NewProfileService(rep.Users, rep.Profiles, h.store, h.cfg, log),
		Comic:     NewComicService(rep.Comics, h.tx, h.store, nil, h.cfg),
		Bookmark:  NewBookmarkService(rep.Bookmarks, rep.Profiles, rep.Comics, h.tx),
		UserComic: NewUserComicService(rep.UserComics, h.tx, h.store, h.cfg, log),
		Ads:       NewAdsService(h.store),
	}
	return h
}

func stringsReader(s string) io.Reader { return strings.NewReader(s) }
