// Package server exposes the service layer as the JSON REST API the mini
// app front end consumes.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andreusxcarvalho/SplitTON/internal/auth"
	"github.com/andreusxcarvalho/SplitTON/internal/middleware"
	"github.com/andreusxcarvalho/SplitTON/internal/service"
)

// Server wires the services to HTTP routes.
type Server struct {
	auth         *service.AuthService
	settlements  *service.SettlementService
	friends      *service.FriendService
	transactions *service.TransactionService
	tokens       *auth.JWTManager
}

// New creates a new Server.
func New(
	authSvc *service.AuthService,
	settlementSvc *service.SettlementService,
	friendSvc *service.FriendService,
	transactionSvc *service.TransactionService,
	tokens *auth.JWTManager,
) *Server {
	return &Server{
		auth:         authSvc,
		settlements:  settlementSvc,
		friends:      friendSvc,
		transactions: transactionSvc,
		tokens:       tokens,
	}
}

// Handler builds the full route tree. Every user-scoped route requires a
// Bearer token whose subject matches the userID in the path: the user a
// request acts for is always explicit, never taken from ambient state.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.CORS)
	r.Use(middleware.Metrics)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/register", s.handleRegister)
	r.Post("/verify", s.handleVerify)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.tokens))

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Use(s.requireSelf)
			r.Get("/settlements", s.handleOutstanding)
			r.Get("/stats", s.handleStats)
			r.Get("/transactions", s.handleHistory)
			r.Get("/friends", s.handleListFriends)
			r.Post("/friends", s.handleAddFriend)
			r.Delete("/friends/{friendLinkID}", s.handleRemoveFriend)
		})

		r.Post("/transactions", s.handleRecordTransaction)
		r.Get("/transactions/{transactionID}/receipt", s.handleReceipt)

		r.Post("/settlements/{obligationID}/settle", s.handleSettle)
		r.Post("/settlements/{obligationID}/invoice", s.handleInvoice)
	})

	return r
}

// requireSelf rejects requests where the path userID is not the
// authenticated user.
func (s *Server) requireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "userID") != middleware.GetUserID(r.Context()) {
			writeErrorStatus(w, http.StatusForbidden, "you can only access your own data")
			return
		}
		next.ServeHTTP(w, r)
	})
}
