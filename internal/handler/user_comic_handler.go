package handlers

import (
	"net/http"

	"comicshare/internal/auth"
	"comicshare/internal/service"
)

// draftLimit bounds a wizard submission: every page and the cover at the
// per-file limit plus room for the text fields.
func (h *Handlers) draftLimit() int64 {
	return int64(h.Cfg.Upload.MaxPages+1)*h.Cfg.Upload.MaxUploadSize + formOverhead
}

// ValidateDraft reports how far the submitted form gets through the wizard
// without storing anything.
func (h *Handlers) ValidateDraft(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r, h.draftLimit()) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	report, err := h.UserComicService.Validate(r.Context(), auth.FromContext(r.Context()), draftFromForm(r.MultipartForm))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, report, http.StatusOK)
}

func (h *Handlers) SubmitComic(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r, h.draftLimit()) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	comic, err := h.UserComicService.Submit(r.Context(), auth.FromContext(r.Context()), draftFromForm(r.MultipartForm))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, comic, http.StatusCreated)
}

func (h *Handlers) MyComics(w http.ResponseWriter, r *http.Request) {
	res, err := h.UserComicService.MyComics(r.Context(), auth.FromContext(r.Context()), pagination(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, res, http.StatusOK)
}

func (h *Handlers) GetUserComic(w http.ResponseWriter, r *http.Request) {
	comic, err := h.UserComicService.Get(r.Context(), auth.FromContext(r.Context()), pathVar(r, "userComicID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, comic, http.StatusOK)
}

func (h *Handlers) SetUserComicStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.UserComicService.SetStatus(r.Context(), auth.FromContext(r.Context()), pathVar(r, "userComicID"), req.Status); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteUserComic(w http.ResponseWriter, r *http.Request) {
	if err := h.UserComicService.Delete(r.Context(), auth.FromContext(r.Context()), pathVar(r, "userComicID")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ReorderUserComicPages(w http.ResponseWriter, r *http.Request) {
	var req service.ReorderRequest
	if !h.decode(w, r, &req) {
		return
	}

	pages, err := h.UserComicService.ReorderPages(r.Context(), auth.FromContext(r.Context()), pathVar(r, "userComicID"), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, pages, http.StatusOK)
}
