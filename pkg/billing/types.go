package billing

import (
	"time"
)

// MembershipStatus represents the billing state of a membership
type MembershipStatus string

const (
	MembershipStatusActive        MembershipStatus = "active"
	MembershipStatusPaused        MembershipStatus = "paused"
	MembershipStatusPaymentFailed MembershipStatus = "payment_failed"
)

// TransactionType represents the kind of ledger entry
type TransactionType string

const (
	TransactionTypeDeposit           TransactionType = "deposit"
	TransactionTypeWithdrawal        TransactionType = "withdrawal"
	TransactionTypeMembershipPayment TransactionType = "membership_payment"
	TransactionTypePaymentReceived   TransactionType = "payment_received"
)

// TransactionStatus represents the outcome recorded on a ledger entry
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Trigger identifies the origin of a payment attempt
type Trigger string

const (
	TriggerAutomatic Trigger = "automatic"
	TriggerManual    Trigger = "manual"
	TriggerRetry     Trigger = "retry"
)

// Membership is a recurring billing agreement between a user and an
// admin/operator, with a fixed monthly amount and charge day.
type Membership struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description,omitempty"`
	Amount            float64          `json:"amount"`
	ChargeDate        int              `json:"chargeDate"` // day of month, 1-31
	Status            MembershipStatus `json:"status"`
	Admin             string           `json:"admin,omitempty"`
	AdminAddress      string           `json:"adminAddress,omitempty"`
	NextPaymentDate   *time.Time       `json:"nextPaymentDate,omitempty"`
	LastPaidDate      *time.Time       `json:"lastPaidDate,omitempty"`
	FailedPaymentDate *time.Time       `json:"failedPaymentDate,omitempty"`
}

// Transaction is an immutable ledger entry. Lists of transactions are
// ordered newest-first: every mutation prepends.
type Transaction struct {
	ID              string            `json:"id"`
	Type            TransactionType   `json:"type"`
	Amount          float64           `json:"amount"`
	Status          TransactionStatus `json:"status"`
	Timestamp       time.Time         `json:"timestamp"`
	MembershipID    string            `json:"membershipId,omitempty"`
	MembershipTitle string            `json:"membershipTitle,omitempty"`
	From            string            `json:"from,omitempty"`
	Recipient       string            `json:"recipient,omitempty"`
	TxHash          string            `json:"txHash,omitempty"`
	Reason          string            `json:"reason,omitempty"`
	Automatic       bool              `json:"automatic,omitempty"`
	Retried         bool              `json:"retried,omitempty"`
}

// User is an account keyed by its wallet address.
type User struct {
	Address      string         `json:"address"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Balance      float64        `json:"balance"`
	Memberships  []*Membership  `json:"memberships"`
	Transactions []*Transaction `json:"transactions"`
}

// UserTable is the full user snapshot, keyed by wallet address.
type UserTable map[string]*User

// AdminConfig is the operator singleton. Its balance is an informational
// running total of platform-side credits; the authoritative per-admin
// balance lives in that admin's own User record.
type AdminConfig struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Balance    float64 `json:"balance"`
	Configured bool    `json:"configured"`
}

// DefaultAdminConfig returns the unconfigured operator record.
func DefaultAdminConfig() *AdminConfig {
	return &AdminConfig{
		Name:       "System Admin",
		Address:    "",
		Balance:    0,
		Configured: false,
	}
}

// ChargeResult is returned by a successful payment attempt.
type ChargeResult struct {
	Balance     float64      `json:"balance"`
	Transaction *Transaction `json:"transaction"`
	Membership  *Membership  `json:"membership"`
}

// SweepSummary reports the outcome of one full pass over all users.
type SweepSummary struct {
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	SweptAt   time.Time `json:"sweptAt"`
}

// Attempted reports whether the sweep attempted at least one charge.
func (s SweepSummary) Attempted() bool {
	return s.Processed > 0 || s.Failed > 0
}

// CalendarEvent is a projected upcoming charge for a membership.
type CalendarEvent struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Date         time.Time        `json:"date"`
	Amount       float64          `json:"amount"`
	Type         string           `json:"type"`
	MembershipID string           `json:"membershipId"`
	Status       MembershipStatus `json:"status"`
	ChargeDate   int              `json:"chargeDate"`
}

// DepositRequest is the request body for a balance deposit.
type DepositRequest struct {
	Amount float64 `json:"amount"`
	TxHash string  `json:"txHash,omitempty"`
}

// WithdrawRequest is the request body for a balance withdrawal.
type WithdrawRequest struct {
	Amount    float64 `json:"amount"`
	Recipient string  `json:"recipient,omitempty"`
}

// UpdateProfileRequest is the request body for a profile update. Nil
// fields are left untouched.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// AddMembershipRequest is the request body for creating a membership.
type AddMembershipRequest struct {
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Amount       float64          `json:"amount"`
	ChargeDate   int              `json:"chargeDate"`
	Status       MembershipStatus `json:"status,omitempty"`
	Admin        string           `json:"admin,omitempty"`
	AdminAddress string           `json:"adminAddress,omitempty"`
}

// UpdateAdminConfigRequest is the request body for configuring the operator.
type UpdateAdminConfigRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}
