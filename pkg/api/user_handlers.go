package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/paypulse/paypulse/pkg/billing"
	"github.com/paypulse/paypulse/pkg/httputil"
)

// UserHandlers handles user account HTTP requests
type UserHandlers struct {
	billing billing.Service
}

// NewUserHandlers creates a new UserHandlers
func NewUserHandlers(svc billing.Service) *UserHandlers {
	return &UserHandlers{billing: svc}
}

// RegisterRoutes registers user account routes
func (h *UserHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/{address}", h.GetUser).Methods("GET")
	router.HandleFunc("/users/{address}/deposit", h.Deposit).Methods("POST")
	router.HandleFunc("/users/{address}/withdraw", h.Withdraw).Methods("POST")
	router.HandleFunc("/users/{address}/profile", h.UpdateProfile).Methods("PUT")
	router.HandleFunc("/users/{address}/memberships", h.ListMemberships).Methods("GET")
	router.HandleFunc("/users/{address}/memberships", h.AddMembership).Methods("POST")
	router.HandleFunc("/users/{address}/transactions", h.ListTransactions).Methods("GET")
	router.HandleFunc("/users/{address}/calendar", h.Calendar).Methods("GET")
}

// GetUser returns the user record, creating it on first sight.
func (h *UserHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	address, ok := httputil.ParsePathStringOrError(w, r, "address")
	if !ok {
		return
	}

	user, err := h.billing.GetOrCreateUser(address)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, user)
}

// depositResponse mirrors the wire shape of balance-changing operations.
type depositResponse struct {
	Success     bool                 `json:"success"`
	Balance     float64              `json:"balance"`
	Transaction *billing.Transaction `json:"transaction"`
}

// Deposit credits the user's balance.
func (h *UserHandlers) Deposit(w http.ResponseWriter, r *http.Request) {
	address, ok := httputil.ParsePathStringOrError(w, r, "address")
	if !ok {
		return
	}

	var req billing.DepositRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	update, err := h.billing.Deposit(address, &req)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, depositResponse{
		Success:     true,
		Balance:     update.Balance,
		Transaction: update.Transaction,
	})
}

// Withdraw debits the user's balance.
func (h *UserHandlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	address, ok := httputil.ParsePathStringOrError(w, r, "address")
	if !ok {
		return
	}

	var req billing.WithdrawRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	update, err := h.billing.Withdraw(address, &req)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, depositResponse{
		Success:     true,
		Balance:     update.Balance,
		Transaction: update.Transaction,
	})
}

// UpdateProfile sets the user's name and/or email.
func (h *UserHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	address, ok := httputil.ParsePathStringOrError(w, r, "address")
	if !ok {
		return
	}

	var req billing.UpdateProfileRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, err := h.billing.UpdateProfile(address, &req)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// ListMemberships returns the user's memberships.
func (h *UserHandlers) ListMemberships(w http.ResponseWriter, r *http.Request) {
	address, ok := httputil.ParsePathStringOrError(w, r, "address")
	if !ok {
		return
	}

	memberships, err := h.billing.ListMemberships(address)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, memberships)
}

// AddMembership creates a membership on the user's record.
func (h *UserHandlers) AddMembership(w http.ResponseWriter, r *http.Request) {
	address, ok := httputil.ParsePathStringOrError(w, r, "address")
	if !ok {
		return
	}

	var req billing.AddMembershipRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	membership, err := h.billing.AddMembership(address, &req)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{
		"success":    true,
		"membership": membership,
	})
}

// ListTransactions returns the user's ledger, newest first.
func (h *UserHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	address, ok := httputil.ParsePathStringOrError(w, r, "address")
	if !ok {
		return
	}

	transactions, err := h.billing.ListTransactions(address)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, transactions)
}

// Calendar returns projected charge events for the coming months.
func (h *UserHandlers) Calendar(w http.ResponseWriter, r *http.Request) {
	address, ok := httputil.ParsePathStringOrError(w, r, "address")
	if !ok {
		return
	}

	events, err := h.billing.Calendar(address, time.Now())
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, events)
}
