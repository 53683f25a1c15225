// internal/handler/partner_handler.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/silversky/partnersms-backend/internal/repository"
	"github.com/silversky/partnersms-backend/internal/service"
)

// PartnerHandler holds the dependencies for partner-related HTTP handlers
type PartnerHandler struct {
	Service *service.PartnerService
}

func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.PartnerInput
	if !decodeBody(w, r, &in) {
		return
	}
	partner, err := h.Service.Create(in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, partner)
}

func queryIDs(r *http.Request, key string) []int64 {
	ids := []int64{}
	for _, raw := range r.URL.Query()[key] {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	f := repository.PartnerFilter{
		Search:          r.URL.Query().Get("search"),
		RegionIDs:       queryIDs(r, "region_id"),
		TSDIDs:          queryIDs(r, "tsd_id"),
		ProductIDs:      queryIDs(r, "product_id"),
		TagIDs:          queryIDs(r, "tag_id"),
		NewOnly:         r.URL.Query().Get("new_only") == "true",
		IncludeArchived: r.URL.Query().Get("include_archived") == "true",
	}
	partners, err := h.Service.List(f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partners)
}

func (h *PartnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partner id"})
		return
	}
	partner, err := h.Service.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partner)
}

func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partner id"})
		return
	}
	var in service.PartnerInput
	if !decodeBody(w, r, &in) {
		return
	}
	partner, err := h.Service.Update(id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partner)
}

func (h *PartnerHandler) ToggleArchive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partner id"})
		return
	}
	archived, err := h.Service.ToggleArchive(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "archived": archived})
}

func (h *PartnerHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partner id"})
		return
	}
	pinned, err := h.Service.TogglePin(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "pinned": pinned})
}

func (h *PartnerHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partner id"})
		return
	}
	var body struct {
		Notes string `json:"notes"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := h.Service.UpdateNotes(id, body.Notes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Import ingests a partner CSV uploaded as multipart form field "file".
func (h *PartnerHandler) Import(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no file provided"})
		return
	}
	defer file.Close()

	result, err := h.Service.ImportPartners(file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PartnerHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=partners.csv")
	if err := h.Service.ExportPartners(w); err != nil {
		writeError(w, err)
	}
}
