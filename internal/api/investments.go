package api

import (
	"net/http"
	"time"

	"tradesphere/internal/httputil"
	"tradesphere/internal/models"
)

func (s *Server) createInvestment(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	var req models.CreateInvestmentRequest
	if !s.bind(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if !req.Amount.IsPositive() {
		fields["Amount"] = "must be greater than zero"
	}
	if !req.EndDate.After(time.Now()) {
		fields["EndDate"] = "must be a future date"
	}
	if len(fields) > 0 {
		httputil.WriteValidationError(w, fields)
		return
	}

	inv, err := s.store.CreateInvestment(r.Context(), claims.UserID, req.PlanName, req.Amount.Decimal, req.EndDate)
	if err != nil {
		s.storeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, inv)
}

func (s *Server) listInvestments(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	invs, err := s.store.ListUserInvestments(r.Context(), claims.UserID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if invs == nil {
		invs = []models.Investment{}
	}

	httputil.WriteJSON(w, http.StatusOK, invs)
}
