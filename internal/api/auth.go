package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"tradesphere/internal/httputil"
	"tradesphere/internal/middleware"
	"tradesphere/internal/models"
	"tradesphere/internal/store"
	"tradesphere/internal/utils"
)

// dummyHash keeps login timing uniform when the username does not
// exist: the bcrypt comparison runs either way.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !s.bind(w, r, &req) {
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Username, hash)
	if err != nil {
		s.storeError(w, err)
		return
	}

	token, err := middleware.GenerateToken(s.jwtSecret, user.ID, user.Role)
	if err != nil {
		s.logger.Error("signing token", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	httputil.WriteJSON(w, http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !s.bind(w, r, &req) {
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.CheckPasswordHash(req.Password, dummyHash)
			httputil.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.storeError(w, err)
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := middleware.GenerateToken(s.jwtSecret, user.ID, user.Role)
	if err != nil {
		s.logger.Error("signing token", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: user})
}

// logout is stateless: bearer tokens expire on their own, the endpoint
// exists so clients have a uniform call to end a session.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
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

	httputil.WriteJSON(w, http.StatusOK, user)
}

func (s *Server) requestVerification(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.claims(w, r)
	if !ok {
		return
	}

	if err := s.store.VerifyUser(r.Context(), claims.UserID); err != nil {
		s.storeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "account verified"})
}
