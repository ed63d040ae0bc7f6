package api

import (
	"errors"
	"net/http"

	"tradesphere/internal/httputil"
	"tradesphere/internal/models"
	"tradesphere/internal/store"
)

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	user, err := s.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s.storeError(w, err)
		return
	}
	if !user.IsVerified {
		httputil.WriteError(w, http.StatusForbidden, "account must be verified first")
		return
	}

	var req models.CreateTransactionRequest
	if !s.bind(w, r, &req) {
		return
	}
	if !req.Amount.IsPositive() {
		httputil.WriteValidationError(w, map[string]string{"Amount": "must be greater than zero"})
		return
	}

	tx, err := s.store.CreateTransaction(r.Context(), user.ID, req.Type, req.Amount.Decimal)
	if err != nil {
		s.storeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, tx)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	txs, err := s.store.ListUserTransactions(r.Context(), claims.UserID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	httputil.WriteJSON(w, http.StatusOK, txs)
}
