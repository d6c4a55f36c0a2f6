package handlers

import (
	"net/http"

	"comicshare/internal/auth"
)

type PurchaseRequest struct {
	PackageID int `json:"packageId" validate:"required,min=1"`
}

func (h *Handlers) ListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.CreditService.Packages(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, packages, http.StatusOK)
}

func (h *Handlers) PurchaseCredits(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if !h.decode(w, r, &req) {
		return
	}

	record, err := h.CreditService.Purchase(r.Context(), auth.FromContext(r.Context()), req.PackageID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, record, http.StatusCreated)
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	items, err := h.CreditService.History(r.Context(), auth.FromContext(r.Context()), pagination(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, items, http.StatusOK)
}
