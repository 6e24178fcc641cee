package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/paypulse/paypulse/pkg/billing"
	"github.com/paypulse/paypulse/pkg/httputil"
	"github.com/paypulse/paypulse/pkg/observability"
)

// Server is the HTTP API for the payment tracker.
type Server struct {
	router  *mux.Router
	billing billing.Service
	logger  *observability.Logger
}

// Options configures optional server behavior.
type Options struct {
	// CORSOrigins lists allowed origins for browser clients. Empty
	// disables CORS handling.
	CORSOrigins []string

	// Metrics instruments the API routes when set.
	Metrics *observability.Metrics
}

// NewServer creates the API server and registers all routes.
func NewServer(svc billing.Service, logger *observability.Logger, opts Options) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		billing: svc,
		logger:  logger,
	}

	middlewares := []mux.MiddlewareFunc{
		httputil.RecoveryMiddleware,
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware,
	}
	if len(opts.CORSOrigins) > 0 {
		middlewares = append(middlewares, httputil.CORSMiddleware(opts.CORSOrigins))
	}
	if opts.Metrics != nil {
		middlewares = append(middlewares, func(next http.Handler) http.Handler {
			return opts.Metrics.InstrumentHandler("/api", next)
		})
	}
	s.router.Use(middlewares...)

	apiRouter := s.router.PathPrefix("/api").Subrouter()

	userHandlers := NewUserHandlers(svc)
	userHandlers.RegisterRoutes(apiRouter)

	paymentHandlers := NewPaymentHandlers(svc)
	paymentHandlers.RegisterRoutes(apiRouter)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// writeBillingError maps billing errors to HTTP responses.
func writeBillingError(w http.ResponseWriter, err error) {
	var ibe *billing.InsufficientBalanceError
	switch {
	case errors.As(err, &ibe):
		httputil.WriteDetailedError(w, http.StatusBadRequest, errors.New("Insufficient balance"), map[string]float64{
			"required":  ibe.Required,
			"available": ibe.Available,
		})
	case errors.Is(err, billing.ErrUserNotFound):
		httputil.WriteNotFoundError(w, "User not found")
	case errors.Is(err, billing.ErrMembershipNotFound):
		httputil.WriteNotFoundError(w, "Membership not found")
	case errors.Is(err, billing.ErrInvalidState):
		httputil.WriteBadRequest(w, "Membership is not in payment_failed state")
	case errors.Is(err, billing.ErrInvalidAmount):
		httputil.WriteBadRequest(w, "Invalid amount")
	default:
		httputil.WriteInternalError(w, err)
	}
}
