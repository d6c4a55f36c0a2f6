package handlers

import (
	"net/http"

	"comicshare/internal/auth"
	"comicshare/internal/service"
)

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published archived"`
}

func (h *Handlers) ListComics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.ComicService.List(r.Context(), auth.FromContext(r.Context()), service.ComicQuery{
		Query:      q.Get("q"),
		Genre:      q.Get("genre"),
		Status:     q.Get("status"),
		Pagination: pagination(r),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, res, http.StatusOK)
}

func (h *Handlers) GetComic(w http.ResponseWriter, r *http.Request) {
	comic, err := h.ComicService.GetBySlug(r.Context(), auth.FromContext(r.Context()), pathVar(r, "slug"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, comic, http.StatusOK)
}

func (h *Handlers) CreateComic(w http.ResponseWriter, r *http.Request) {
	var req service.ComicInput
	if !h.decode(w, r, &req) {
		return
	}

	comic, err := h.ComicService.Create(r.Context(), auth.FromContext(r.Context()), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, comic, http.StatusCreated)
}

func (h *Handlers) UpdateComic(w http.ResponseWriter, r *http.Request) {
	var req service.ComicInput
	if !h.decode(w, r, &req) {
		return
	}

	comic, err := h.ComicService.Update(r.Context(), auth.FromContext(r.Context()), pathVar(r, "comicID"), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, comic, http.StatusOK)
}

func (h *Handlers) SetComicStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.ComicService.SetStatus(r.Context(), auth.FromContext(r.Context()), pathVar(r, "comicID"), req.Status); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UploadComicCover(w http.ResponseWriter, r *http.Request) {
	file, ok := h.singleFile(w, r, "cover")
	if !ok {
		return
	}
	defer file.Close()

	comic, err := h.ComicService.UploadCover(r.Context(), auth.FromContext(r.Context()), pathVar(r, "comicID"), file)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, comic, http.StatusOK)
}

func (h *Handlers) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.ComicService.Genres(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, genres, http.StatusOK)
}
