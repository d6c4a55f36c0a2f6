package handlers

import (
	"net/http"

	"comicshare/internal/auth"
	"comicshare/internal/service"
)

func (h *Handlers) ListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.ChapterService.List(r.Context(), auth.FromContext(r.Context()), pathVar(r, "comicID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, chapters, http.StatusOK)
}

func (h *Handlers) CreateChapter(w http.ResponseWriter, r *http.Request) {
	var req service.ChapterInput
	if !h.decode(w, r, &req) {
		return
	}

	chapter, err := h.ChapterService.Create(r.Context(), auth.FromContext(r.Context()), pathVar(r, "comicID"), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, chapter, http.StatusCreated)
}

func (h *Handlers) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.ChapterService.ListPages(r.Context(), auth.FromContext(r.Context()), pathVar(r, "chapterID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, pages, http.StatusOK)
}

func (h *Handlers) UploadPage(w http.ResponseWriter, r *http.Request) {
	file, ok := h.singleFile(w, r, "page")
	if !ok {
		return
	}
	defer file.Close()

	page, err := h.ChapterService.UploadPage(r.Context(), auth.FromContext(r.Context()), pathVar(r, "chapterID"), file)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, page, http.StatusCreated)
}

func (h *Handlers) ReorderPages(w http.ResponseWriter, r *http.Request) {
	var req service.ReorderRequest
	if !h.decode(w, r, &req) {
		return
	}

	pages, err := h.ChapterService.ReorderPages(r.Context(), auth.FromContext(r.Context()), pathVar(r, "chapterID"), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, pages, http.StatusOK)
}

// ReadPage serves one reader view; the page number comes from ?page= and
// defaults to the first page.
func (h *Handlers) ReadPage(w http.ResponseWriter, r *http.Request) {
	view, err := h.ReaderService.Read(r.Context(), auth.FromContext(r.Context()),
		pathVar(r, "comicID"), pathVar(r, "chapterID"), queryInt(r, "page", 1))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, view, http.StatusOK)
}

func (h *Handlers) ListProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.ReaderService.Progress(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, progress, http.StatusOK)
}
