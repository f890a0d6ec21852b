package web

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/rescueops/foodledger/internal/domain"
	"github.com/rescueops/foodledger/internal/ledger"
	"github.com/rescueops/foodledger/internal/mirror"
)

// entryRequest is a volunteer form submission. Quantity stays raw so both
// numbers and numeric strings are accepted; anything else falls back to 0.
type entryRequest struct {
	FoodType      string          `json:"foodType"`
	ItemName      string          `json:"itemName" validate:"required"`
	Quantity      json.RawMessage `json:"quantity"`
	Unit          string          `json:"unit"`
	ExpiryDate    string          `json:"expiryDate"`
	Donor         string          `json:"donor"`
	VolunteerName string          `json:"volunteerName"`
	Notes         string          `json:"notes"`
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 100, 500)

	entries := s.service.Entries(r.Context())
	sorted := make([]*domain.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	if sorted == nil {
		sorted = []*domain.Entry{}
	}

	s.writeJSON(w, http.StatusOK, sorted)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, "itemName is required")
		return
	}

	quantity := coerceQuantity(req.Quantity)
	if quantity < 0 {
		s.writeError(w, http.StatusBadRequest, "quantity must be non-negative")
		return
	}

	entry, err := s.service.AddEntry(r.Context(), ledger.EntryInput{
		FoodType:      req.FoodType,
		ItemName:      req.ItemName,
		Quantity:      quantity,
		Unit:          req.Unit,
		ExpiryDate:    req.ExpiryDate,
		Donor:         req.Donor,
		VolunteerName: req.VolunteerName,
		Notes:         req.Notes,
	})
	if err != nil {
		s.logger.Error("create entry failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	s.writeJSON(w, http.StatusCreated, entry)
}

const maxImportSize = 10 << 20 // 10 MiB upload cap

func (s *Server) handleImportEntries(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "workbook file is required")
		return
	}
	defer func() { _ = file.Close() }()

	items, err := mirror.ParseUpload(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "could not parse workbook")
		return
	}
	if len(items) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]any{"imported": 0})
		return
	}

	created, err := s.service.AddEntriesBatch(r.Context(),
		items, r.FormValue("volunteer"), r.FormValue("defaultDonor"))
	if err != nil {
		s.logger.Error("import entries failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to save imported entries")
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"imported": len(created),
		"entries":  created,
	})
}

func (s *Server) handleNearExpiry(w http.ResponseWriter, r *http.Request) {
	near := s.service.NearExpiry(r.Context(), s.now().UTC())
	if near == nil {
		near = []*domain.Entry{}
	}
	s.writeJSON(w, http.StatusOK, near)
}

func coerceQuantity(raw json.RawMessage) float64 {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0
	}
	text = strings.Trim(text, `"`)
	q, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return q
}

func queryLimit(r *http.Request, def, max int) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
