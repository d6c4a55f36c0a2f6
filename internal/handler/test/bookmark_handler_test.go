package test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"comicshare/internal/apperr"
	handlers "comicshare/internal/handler"
	"comicshare/internal/models"
	"comicshare/internal/service"
)

const comicUUID = "6f1c1e4a-3c1b-4c52-9d0e-3b1f5a2c7d11"

func TestListFolders_IncludesRemaining(t *testing.T) {
	h := createTestHandler()
	bookmarks := new(MockBookmarkService)
	h.BookmarkService = bookmarks
	bookmarks.On("ListFolders", mock.Anything, userSession).
		Return([]models.BookmarkFolder{{FolderID: "f1", Name: "Reading", BookmarkCount: 2}}, nil)
	bookmarks.On("Remaining", mock.Anything, userSession).Return(99, nil)

	var resp handlers.FoldersResponse
	decodeBody(t, serve(h.ListFolders, newRequest(http.MethodGet, "/api/bookmarks/folders", nil, userSession, nil)), http.StatusOK, &resp)

	require.Len(t, resp.Folders, 1)
	assert.Equal(t, 2, resp.Folders[0].BookmarkCount)
	assert.Equal(t, 99, resp.Remaining)
}

func TestCreateFolder_LimitReached(t *testing.T) {
	h := createTestHandler()
	bookmarks := new(MockBookmarkService)
	h.BookmarkService = bookmarks
	bookmarks.On("CreateFolder", mock.Anything, userSession, "One too many").
		Return(nil, apperr.New(apperr.ErrLimitExceeded, "bookmark folder limit of 100 reached"))

	rr := serve(h.CreateFolder, newRequest(http.MethodPost, "/api/bookmarks/folders",
		handlers.FolderRequest{Name: "One too many"}, userSession, nil))

	assertJSONError(t, rr, http.StatusUnprocessableEntity, "limit of 100")
}

func TestReorderFolders_StaleView(t *testing.T) {
	h := createTestHandler()
	bookmarks := new(MockBookmarkService)
	h.BookmarkService = bookmarks
	req := service.ReorderRequest{From: 0, To: 2, Expected: []string{"a", "b", "c"}}
	bookmarks.On("ReorderFolders", mock.Anything, userSession, req).
		Return(nil, apperr.Conflict("the list was changed elsewhere, reload and try again"))

	rr := serve(h.ReorderFolders, newRequest(http.MethodPut, "/api/bookmarks/folders/order", req, userSession, nil))

	assertJSONError(t, rr, http.StatusConflict, "changed elsewhere")
}

func TestAddBookmark(t *testing.T) {
	h := createTestHandler()
	bookmarks := new(MockBookmarkService)
	h.BookmarkService = bookmarks
	vars := map[string]string{"folderID": "f1"}
	bookmarks.On("AddBookmark", mock.Anything, userSession, "f1", comicUUID).
		Return(&models.Bookmark{BookmarkID: "b1", FolderID: "f1", ComicID: comicUUID}, nil)

	var created models.Bookmark
	rr := serve(h.AddBookmark, newRequest(http.MethodPost, "/api/bookmarks/folders/f1/bookmarks",
		handlers.BookmarkRequest{ComicID: comicUUID}, userSession, vars))
	decodeBody(t, rr, http.StatusCreated, &created)
	assert.Equal(t, "b1", created.BookmarkID)

	rr = serve(h.AddBookmark, newRequest(http.MethodPost, "/api/bookmarks/folders/f1/bookmarks",
		handlers.BookmarkRequest{ComicID: "not-a-uuid"}, userSession, vars))
	assertJSONError(t, rr, http.StatusBadRequest, "ComicID failed uuid")
}

func TestRemoveBookmark_Forbidden(t *testing.T) {
	h := createTestHandler()
	bookmarks := new(MockBookmarkService)
	h.BookmarkService = bookmarks
	bookmarks.On("RemoveBookmark", mock.Anything, userSession, "b9").Return(apperr.Forbidden("bookmark belongs to another user"))

	rr := serve(h.RemoveBookmark, newRequest(http.MethodDelete, "/api/bookmarks/b9", nil, userSession, map[string]string{"bookmarkID": "b9"}))

	assertJSONError(t, rr, http.StatusForbidden, "another user")
}
