package api

import (
	"net/http"

	"tradesphere/internal/httputil"
	"tradesphere/internal/models"
)

func (s *Server) executeTrade(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	var req models.CreateTradeRequest
	if !s.bind(w, r, &req) {
		return
	}

	fields := map[string]string{}
	if !req.Amount.IsPositive() {
		fields["Amount"] = "must be greater than zero"
	}
	if !req.Price.IsPositive() {
		fields["Price"] = "must be greater than zero"
	}
	if len(fields) > 0 {
		httputil.WriteValidationError(w, fields)
		return
	}

	trade, err := s.store.ExecuteTrade(r.Context(), claims.UserID, req.Symbol, req.Type, req.Amount.Decimal, req.Price.Decimal)
	if err != nil {
		s.storeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, trade)
}

func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	trades, err := s.store.ListUserTrades(r.Context(), claims.UserID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}

	httputil.WriteJSON(w, http.StatusOK, trades)
}
