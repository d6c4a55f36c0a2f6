package handlers

import (
	"net/http"

	"comicshare/internal/auth"
	"comicshare/internal/service"
)

// GetCurrentUser returns the caller's profile.
func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.ProfileService.Get(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, profile, http.StatusOK)
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req service.SettingsUpdate
	if !h.decode(w, r, &req) {
		return
	}

	profile, err := h.ProfileService.UpdateSettings(r.Context(), auth.FromContext(r.Context()), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, profile, http.StatusOK)
}

func (h *Handlers) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, ok := h.singleFile(w, r, "avatar")
	if !ok {
		return
	}
	defer file.Close()

	profile, err := h.ProfileService.UploadAvatar(r.Context(), auth.FromContext(r.Context()), file)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, profile, http.StatusOK)
}

func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.ProfileService.DeleteAccount(r.Context(), auth.FromContext(r.Context())); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
