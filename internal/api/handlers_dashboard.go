package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	apperrors "github.com/asset-dashboard/internal/errors"
	"github.com/asset-dashboard/internal/session"
	"github.com/asset-dashboard/internal/types"
)

// SetSortRequest is the body of PUT /api/sort
type SetSortRequest struct {
	SortKey types.SortKey `json:"sortKey"`
}

// SetSelectionRequest is the body of PUT /api/selection. A null or absent
// assetId closes the detail view.
type SetSelectionRequest struct {
	AssetID *int64 `json:"assetId"`
}

// handleGetDashboard handles GET /api/dashboard
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.session.View())
}

// handleToggleWallet handles POST /api/wallet/toggle
func (s *Server) handleToggleWallet(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, s.session.ToggleWallet)
}

// handleToggleFilter handles POST /api/filter/toggle
func (s *Server) handleToggleFilter(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, s.session.ToggleFilterMineOnly)
}

// handleSetSort handles PUT /api/sort
func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var req SetSortRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, apperrors.CodeInvalidInput, "Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.respondView(w, r, func() (session.View, error) {
		return s.session.SetSortKey(req.SortKey)
	})
}

// handleSetSelection handles PUT /api/selection
func (s *Server) handleSetSelection(w http.ResponseWriter, r *http.Request) {
	var req SetSelectionRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, apperrors.CodeInvalidInput, "Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.respondView(w, r, func() (session.View, error) {
		return s.session.SelectAsset(req.AssetID)
	})
}

// handleGetAsset handles GET /api/assets/{id}
func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondServiceError(w, r, apperrors.NewInvalidInputError("asset id must be an integer"))
		return
	}

	card, ok := s.session.Asset(id)
	if !ok {
		respondServiceError(w, r, apperrors.NewNotFoundError("asset", raw))
		return
	}

	respondJSON(w, http.StatusOK, card)
}

// respondView runs an intent and writes the resulting view
func (s *Server) respondView(w http.ResponseWriter, r *http.Request, intent func() (session.View, error)) {
	view, err := intent()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
