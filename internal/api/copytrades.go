package api

import (
	"net/http"

	"tradesphere/internal/httputil"
	"tradesphere/internal/models"
	"tradesphere/internal/utils"
)

func (s *Server) createCopyTrade(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	var req models.CreateCopyTradeRequest
	if !s.bind(w, r, &req) {
		return
	}

	ct, err := s.store.CreateCopyTrade(r.Context(), claims.UserID, req.TraderID)
	if err != nil {
		s.storeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, ct)
}

func (s *Server) listCopyTrades(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	cts, err := s.store.ListActiveCopyTrades(r.Context(), claims.UserID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if cts == nil {
		cts = []models.CopyTrade{}
	}

	httputil.WriteJSON(w, http.StatusOK, cts)
}

func (s *Server) deactivateCopyTrade(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	id, err := utils.GetIDFromPath(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid copy trade ID")
		return
	}

	if err := s.store.DeactivateCopyTrade(r.Context(), id, claims.UserID); err != nil {
		s.storeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "copy trade deactivated"})
}
