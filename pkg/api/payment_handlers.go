package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/paypulse/paypulse/pkg/billing"
	"github.com/paypulse/paypulse/pkg/httputil"
)

// PaymentHandlers handles membership payment and operator HTTP requests
type PaymentHandlers struct {
	billing billing.Service
}

// NewPaymentHandlers creates a new PaymentHandlers
func NewPaymentHandlers(svc billing.Service) *PaymentHandlers {
	return &PaymentHandlers{billing: svc}
}

// RegisterRoutes registers payment and operator routes
func (h *PaymentHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/{address}/memberships/{membershipId}/pay", h.PayMembership).Methods("POST")
	router.HandleFunc("/users/{address}/memberships/{membershipId}/retry", h.RetryPayment).Methods("POST")
	router.HandleFunc("/admin/process-payments", h.ProcessPayments).Methods("POST")
	router.HandleFunc("/admin/config", h.GetAdminConfig).Methods("GET")
	router.HandleFunc("/admin/config", h.UpdateAdminConfig).Methods("PUT")
}

// chargeResponse mirrors the wire shape of a successful charge.
type chargeResponse struct {
	Success     bool                 `json:"success"`
	Balance     float64              `json:"balance"`
	Transaction *billing.Transaction `json:"transaction"`
	Membership  *billing.Membership  `json:"membership"`
}

// PayMembership charges a membership on the user's request.
func (h *PaymentHandlers) PayMembership(w http.ResponseWriter, r *http.Request) {
	address, ok := httputil.ParsePathStringOrError(w, r, "address")
	if !ok {
		return
	}
	membershipID, ok := httputil.ParsePathStringOrError(w, r, "membershipId")
	if !ok {
		return
	}

	result, err := h.billing.PayMembership(address, membershipID, time.Now())
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, chargeResponse{
		Success:     true,
		Balance:     result.Balance,
		Transaction: result.Transaction,
		Membership:  result.Membership,
	})
}

// RetryPayment re-attempts a failed membership charge.
func (h *PaymentHandlers) RetryPayment(w http.ResponseWriter, r *http.Request) {
	address, ok := httputil.ParsePathStringOrError(w, r, "address")
	if !ok {
		return
	}
	membershipID, ok := httputil.ParsePathStringOrError(w, r, "membershipId")
	if !ok {
		return
	}

	result, err := h.billing.RetryPayment(address, membershipID, time.Now())
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, chargeResponse{
		Success:     true,
		Balance:     result.Balance,
		Transaction: result.Transaction,
		Membership:  result.Membership,
	})
}

// ProcessPayments triggers an automatic payment sweep on demand. It runs
// the same logic as the scheduled sweep, synchronously.
func (h *PaymentHandlers) ProcessPayments(w http.ResponseWriter, r *http.Request) {
	summary, err := h.billing.SweepAll(time.Now())
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{
		"success": true,
		"message": "Payment processing completed",
		"summary": summary,
	})
}

// GetAdminConfig returns the operator configuration.
func (h *PaymentHandlers) GetAdminConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.billing.GetAdminConfig()
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, cfg)
}

// UpdateAdminConfig sets the operator's name and receiving address.
func (h *PaymentHandlers) UpdateAdminConfig(w http.ResponseWriter, r *http.Request) {
	var req billing.UpdateAdminConfigRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Address, "address") {
		return
	}

	cfg, err := h.billing.UpdateAdminConfig(&req)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{
		"success": true,
		"admin":   cfg,
	})
}
