package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	appmw "tradesphere/internal/middleware"
)

func (s *Server) RegisterRoutes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Post("/api/register", s.register)
	r.Post("/api/login", s.login)
	r.Post("/api/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(appmw.Authenticated(s.jwtSecret))

		r.Get("/api/user", s.currentUser)
		r.Post("/api/verify", s.requestVerification)

		r.Post("/api/transactions", s.createTransaction)
		r.Get("/api/transactions", s.listTransactions)

		r.Post("/api/trades", s.executeTrade)
		r.Get("/api/trades", s.listTrades)

		r.Post("/api/investments", s.createInvestment)
		r.Get("/api/investments", s.listInvestments)

		r.Post("/api/copy-trades", s.createCopyTrade)
		r.Get("/api/copy-trades", s.listCopyTrades)
		r.Post("/api/copy-trades/{id}/deactivate", s.deactivateCopyTrade)

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(appmw.AdminOnly)

			r.Get("/users", s.listUsers)
			r.Post("/users/{id}/verify", s.verifyUser)
			r.Get("/transactions/pending", s.listPendingTransactions)
			r.Post("/transactions/{id}/approve", s.approveTransaction)
			r.Get("/logs", s.listAdminLogs)
			r.Get("/stats", s.platformStats)
		})
	})

	return r
}
