package handlers

import (
	"net/http"

	"comicshare/internal/auth"
)

type CommentRequest struct {
	Body string `json:"body" validate:"required"`
}

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	res, err := h.CommentService.List(r.Context(), auth.FromContext(r.Context()), pathVar(r, "comicID"), pagination(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, res, http.StatusOK)
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if !h.decode(w, r, &req) {
		return
	}

	comment, err := h.CommentService.Add(r.Context(), auth.FromContext(r.Context()), pathVar(r, "comicID"), req.Body)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, comment, http.StatusCreated)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.CommentService.Delete(r.Context(), auth.FromContext(r.Context()), pathVar(r, "commentID")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
