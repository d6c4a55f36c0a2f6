package handlers

import (
	"net/http"
)

type TablesResponse struct {
	CountTables int `json:"countTables"`
}

type StorageResponse struct {
	Bucket string `json:"bucket"`
	Status string `json:"status"`
}

// TablesHandler counts the tables of the public schema; it proves the
// database connection works.
func (h *Handlers) TablesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.TablesService.GetCountTablesDB(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, TablesResponse{CountTables: count}, http.StatusOK)
}

func (h *Handlers) StorageHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.TablesService.CheckStorage(r.Context()); err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, StorageResponse{Bucket: h.Cfg.MinIO.BucketName, Status: "ok"}, http.StatusOK)
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *Handlers) ListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.AdsService.List(r.Context(), pathVar(r, "position"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeSuccess(w, ads, http.StatusOK)
}
