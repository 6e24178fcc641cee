package billing

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paypulse/paypulse/pkg/observability"
)

// Store is the persistence port for the billing engine. Implementations
// read and write the full user-table snapshot and the operator singleton;
// the engine treats each call as one durable unit.
type Store interface {
	ReadUsers() (UserTable, error)
	WriteUsers(UserTable) error
	ReadAdmin() (*AdminConfig, error)
	WriteAdmin(*AdminConfig) error
}

// IDProvider generates unique identifiers for ledger entries and
// memberships.
type IDProvider interface {
	NewID() string
}

// UUIDProvider is the default IDProvider, backed by random UUIDs.
type UUIDProvider struct{}

// NewID implements IDProvider.
func (UUIDProvider) NewID() string {
	return uuid.NewString()
}

// BalanceUpdate is returned by deposit and withdrawal operations.
type BalanceUpdate struct {
	Balance     float64      `json:"balance"`
	Transaction *Transaction `json:"transaction"`
}

// Service defines the operations exposed by the billing engine.
type Service interface {
	// Account operations
	GetOrCreateUser(address string) (*User, error)
	Deposit(address string, req *DepositRequest) (*BalanceUpdate, error)
	Withdraw(address string, req *WithdrawRequest) (*BalanceUpdate, error)
	UpdateProfile(address string, req *UpdateProfileRequest) (*User, error)

	// Membership operations
	ListMemberships(address string) ([]*Membership, error)
	AddMembership(address string, req *AddMembershipRequest) (*Membership, error)
	ListTransactions(address string) ([]*Transaction, error)
	Calendar(address string, now time.Time) ([]*CalendarEvent, error)

	// Payment operations
	PayMembership(address, membershipID string, now time.Time) (*ChargeResult, error)
	RetryPayment(address, membershipID string, now time.Time) (*ChargeResult, error)
	SweepAll(now time.Time) (SweepSummary, error)

	// Operator configuration
	GetAdminConfig() (*AdminConfig, error)
	UpdateAdminConfig(req *UpdateAdminConfigRequest) (*AdminConfig, error)
}

// PaymentService implements Service over an injected Store.
//
// A single process-wide mutex serializes every read-modify-write cycle
// against the snapshot store. The flat-file layout has no transactional
// isolation of its own, so overlapping operations would otherwise race on
// the full-table write and silently drop the earlier writer's changes.
type PaymentService struct {
	store   Store
	ids     IDProvider
	logger  *observability.Logger
	metrics *observability.Metrics

	// SeedDemo seeds newly created users with the starter membership set.
	// Intended for local development only.
	SeedDemo bool

	mu sync.Mutex
}

// NewPaymentService creates a PaymentService. metrics may be nil.
func NewPaymentService(store Store, logger *observability.Logger, metrics *observability.Metrics) *PaymentService {
	return &PaymentService{
		store:   store,
		ids:     UUIDProvider{},
		logger:  logger,
		metrics: metrics,
	}
}

// loadUsers reads the full user table.
func (s *PaymentService) loadUsers() (UserTable, error) {
	users, err := s.store.ReadUsers()
	s.observeStorage("read_users", err)
	if err != nil {
		return nil, fmt.Errorf("failed to read user table: %w", err)
	}
	if users == nil {
		users = UserTable{}
	}
	return users, nil
}

// saveUsers persists the full user table.
func (s *PaymentService) saveUsers(users UserTable) error {
	err := s.store.WriteUsers(users)
	s.observeStorage("write_users", err)
	if err != nil {
		return fmt.Errorf("failed to write user table: %w", err)
	}
	return nil
}

// findMembership locates a user and one of its memberships.
func findMembership(users UserTable, address, membershipID string) (*User, *Membership, error) {
	user, ok := users[address]
	if !ok {
		return nil, nil, ErrUserNotFound
	}
	for _, m := range user.Memberships {
		if m.ID == membershipID {
			return user, m, nil
		}
	}
	return nil, nil, ErrMembershipNotFound
}

// observeCharge records a charge attempt in the metrics, if configured.
func (s *PaymentService) observeCharge(trigger Trigger, status TransactionStatus) {
	if s.metrics != nil {
		s.metrics.PaymentsTotal.WithLabelValues(string(trigger), string(status)).Inc()
	}
}

// observeStorage records a storage operation in the metrics, if configured.
func (s *PaymentService) observeStorage(operation string, err error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		s.metrics.StorageErrorsTotal.WithLabelValues(operation).Inc()
	}
	s.metrics.StorageOperationsTotal.WithLabelValues(operation, status).Inc()
}
