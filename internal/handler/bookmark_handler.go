package handlers

import (
	"net/http"

	"comicshare/internal/auth"
	"comicshare/internal/models"
	"comicshare/internal/service"
)

type FolderRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type BookmarkRequest struct {
	ComicID string `json:"comicId" validate:"required,uuid"`
}

type MoveBookmarkRequest struct {
	FolderID string `json:"folderId" validate:"required,uuid"`
}

type FoldersResponse struct {
	Folders   []models.BookmarkFolder `json:"folders"`
	Remaining int                     `json:"remaining"`
}

func (h *Handlers) ListFolders(w http.ResponseWriter, r *http.Request) {
	session := auth.FromContext(r.Context())
	folders, err := h.BookmarkService.ListFolders(r.Context(), session)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	remaining, err := h.BookmarkService.Remaining(r.Context(), session)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, FoldersResponse{Folders: folders, Remaining: remaining}, http.StatusOK)
}

func (h *Handlers) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if !h.decode(w, r, &req) {
		return
	}

	folder, err := h.BookmarkService.CreateFolder(r.Context(), auth.FromContext(r.Context()), req.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, folder, http.StatusCreated)
}

func (h *Handlers) RenameFolder(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if !h.decode(w, r, &req) {
		return
	}

	folder, err := h.BookmarkService.RenameFolder(r.Context(), auth.FromContext(r.Context()), pathVar(r, "folderID"), req.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, folder, http.StatusOK)
}

func (h *Handlers) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.BookmarkService.DeleteFolder(r.Context(), auth.FromContext(r.Context()), pathVar(r, "folderID")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ReorderFolders(w http.ResponseWriter, r *http.Request) {
	var req service.ReorderRequest
	if !h.decode(w, r, &req) {
		return
	}

	folders, err := h.BookmarkService.ReorderFolders(r.Context(), auth.FromContext(r.Context()), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, folders, http.StatusOK)
}

func (h *Handlers) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.BookmarkService.ListBookmarks(r.Context(), auth.FromContext(r.Context()), pathVar(r, "folderID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, bookmarks, http.StatusOK)
}

func (h *Handlers) AddBookmark(w http.ResponseWriter, r *http.Request) {
	var req BookmarkRequest
	if !h.decode(w, r, &req) {
		return
	}

	bookmark, err := h.BookmarkService.AddBookmark(r.Context(), auth.FromContext(r.Context()), pathVar(r, "folderID"), req.ComicID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, bookmark, http.StatusCreated)
}

func (h *Handlers) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	if err := h.BookmarkService.RemoveBookmark(r.Context(), auth.FromContext(r.Context()), pathVar(r, "bookmarkID")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) MoveBookmark(w http.ResponseWriter, r *http.Request) {
	var req MoveBookmarkRequest
	if !h.decode(w, r, &req) {
		return
	}

	bookmark, err := h.BookmarkService.MoveBookmark(r.Context(), auth.FromContext(r.Context()), pathVar(r, "bookmarkID"), req.FolderID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, bookmark, http.StatusOK)
}

func (h *Handlers) ReorderBookmarks(w http.ResponseWriter, r *http.Request) {
	var req service.ReorderRequest
	if !h.decode(w, r, &req) {
		return
	}

	bookmarks, err := h.BookmarkService.ReorderBookmarks(r.Context(), auth.FromContext(r.Context()), pathVar(r, "folderID"), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, bookmarks, http.StatusOK)
}
