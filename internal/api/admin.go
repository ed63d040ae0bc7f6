package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"tradesphere/internal/httputil"
	"tradesphere/internal/models"
	"tradesphere/internal/utils"
)

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	httputil.WriteJSON(w, http.StatusOK, users)
}

func (s *Server) verifyUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	id, err := utils.GetIDFromPath(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := s.store.VerifyUser(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}

	details, _ := json.Marshal(map[string]int64{"userId": id})
	if err := s.store.CreateAdminLog(r.Context(), claims.UserID, "verify_user", string(details)); err != nil {
		s.logger.Error("writing admin log", zap.Error(err))
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "user verified"})
}

func (s *Server) listPendingTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListPendingTransactions(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	httputil.WriteJSON(w, http.StatusOK, txs)
}

func (s *Server) approveTransaction(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	id, err := utils.GetIDFromPath(r)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	tx, err := s.store.ApproveTransaction(r.Context(), id, claims.UserID)
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.logger.Info("transaction approved",
		zap.Int64("transaction_id", tx.ID),
		zap.Int64("admin_id", claims.UserID),
		zap.String("type", tx.Type))
	httputil.WriteJSON(w, http.StatusOK, tx)
}

func (s *Server) listAdminLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.store.ListAdminLogs(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	if logs == nil {
		logs = []models.AdminLog{}
	}

	httputil.WriteJSON(w, http.StatusOK, logs)
}

func (s *Server) platformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}
