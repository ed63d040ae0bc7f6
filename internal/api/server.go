package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"tradesphere/internal/httputil"
	"tradesphere/internal/ledger"
	"tradesphere/internal/middleware"
	"tradesphere/internal/models"
	"tradesphere/internal/store"
)

type Server struct {
	store     store.Storage
	logger    *zap.Logger
	validate  *validator.Validate
	jwtSecret []byte
	router    *chi.Mux
}

func NewServer(st store.Storage, logger *zap.Logger, jwtSecret []byte) *Server {
	s := &Server{
		store:     st,
		logger:    logger,
		validate:  validator.New(),
		jwtSecret: jwtSecret,
	}
	s.router = s.RegisterRoutes()
	return s
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv.ListenAndServe()
}

// bind decodes the JSON body into dst and runs struct validation.
// On failure it writes the error response and returns false.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = "failed on '" + fe.Tag() + "'"
			}
			httputil.WriteValidationError(w, fields)
		} else {
			httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		}
		return false
	}
	return true
}

// claims returns the authenticated caller's token claims. The
// middleware guarantees they exist on protected routes; the guard here
// covers misconfigured routing.
func (s *Server) claims(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
	}
	return claims, ok
}

// storeError maps storage and ledger errors onto the HTTP taxonomy.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicateUsername):
		httputil.WriteError(w, http.StatusBadRequest, "username already taken")
	case errors.Is(err, store.ErrDuplicateCopyTrade):
		httputil.WriteError(w, http.StatusConflict, "already copying this trader")
	case errors.Is(err, store.ErrNotPending):
		httputil.WriteError(w, http.StatusConflict, "transaction is not pending")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		httputil.WriteError(w, http.StatusBadRequest, "insufficient funds")
	default:
		s.logger.Error("request failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
