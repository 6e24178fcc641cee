package billing

import (
	"time"
)

// newUser builds an empty user record for an address.
func newUser(address string) *User {
	return &User{
		Address:      address,
		Name:         "",
		Email:        "",
		Balance:      0,
		Memberships:  []*Membership{},
		Transactions: []*Transaction{},
	}
}

// getOrCreate returns the user for address, inserting an empty record into
// the table when none exists. The second return value reports whether the
// record was created.
func (s *PaymentService) getOrCreate(users UserTable, address string) (*User, bool) {
	if user, ok := users[address]; ok {
		return user, false
	}
	user := newUser(address)
	if s.SeedDemo {
		user.Memberships = demoMemberships()
	}
	users[address] = user
	return user, true
}

// GetOrCreateUser returns the user record for an address, creating and
// persisting an empty one on first sight.
func (s *PaymentService) GetOrCreateUser(address string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	user, created := s.getOrCreate(users, address)
	if created {
		if err := s.saveUsers(users); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Deposit credits the user's balance and records a deposit transaction.
func (s *PaymentService) Deposit(address string, req *DepositRequest) (*BalanceUpdate, error) {
	if req == nil || req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	user, _ := s.getOrCreate(users, address)
	user.Balance += req.Amount

	tx := &Transaction{
		ID:        s.ids.NewID(),
		Type:      TransactionTypeDeposit,
		Amount:    req.Amount,
		Status:    TransactionStatusCompleted,
		Timestamp: time.Now(),
		TxHash:    req.TxHash,
	}
	user.Transactions = append([]*Transaction{tx}, user.Transactions...)

	if err := s.saveUsers(users); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"address": address,
		"amount":  req.Amount,
		"balance": user.Balance,
	}).Info("Deposit processed")
	if s.metrics != nil {
		s.metrics.DepositsTotal.Inc()
	}
	return &BalanceUpdate{Balance: user.Balance, Transaction: tx}, nil
}

// Withdraw debits the user's balance and records a withdrawal transaction.
func (s *PaymentService) Withdraw(address string, req *WithdrawRequest) (*BalanceUpdate, error) {
	if req == nil || req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	user, ok := users[address]
	if !ok {
		return nil, ErrUserNotFound
	}
	if user.Balance < req.Amount {
		return nil, &InsufficientBalanceError{Required: req.Amount, Available: user.Balance}
	}

	user.Balance -= req.Amount

	tx := &Transaction{
		ID:        s.ids.NewID(),
		Type:      TransactionTypeWithdrawal,
		Amount:    req.Amount,
		Status:    TransactionStatusCompleted,
		Timestamp: time.Now(),
		Recipient: req.Recipient,
	}
	user.Transactions = append([]*Transaction{tx}, user.Transactions...)

	if err := s.saveUsers(users); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"address": address,
		"amount":  req.Amount,
		"balance": user.Balance,
	}).Info("Withdrawal processed")
	return &BalanceUpdate{Balance: user.Balance, Transaction: tx}, nil
}

// UpdateProfile sets the user's display name and/or email.
func (s *PaymentService) UpdateProfile(address string, req *UpdateProfileRequest) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	user, _ := s.getOrCreate(users, address)
	if req != nil {
		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
	}

	if err := s.saveUsers(users); err != nil {
		return nil, err
	}
	return user, nil
}

// ListMemberships returns the user's memberships. An unknown address
// yields an empty list, matching the read-only nature of the call.
func (s *PaymentService) ListMemberships(address string) ([]*Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	user, ok := users[address]
	if !ok {
		return []*Membership{}, nil
	}
	return user.Memberships, nil
}

// AddMembership appends a new membership to the user's record.
func (s *PaymentService) AddMembership(address string, req *AddMembershipRequest) (*Membership, error) {
	if req == nil || req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	user, _ := s.getOrCreate(users, address)

	title := req.Title
	if title == "" {
		title = "New Membership"
	}
	chargeDate := req.ChargeDate
	if chargeDate < 1 || chargeDate > 31 {
		chargeDate = 1
	}
	status := req.Status
	if status == "" {
		status = MembershipStatusActive
	}

	m := &Membership{
		ID:           s.ids.NewID(),
		Title:        title,
		Description:  req.Description,
		Amount:       req.Amount,
		ChargeDate:   chargeDate,
		Status:       status,
		Admin:        req.Admin,
		AdminAddress: req.AdminAddress,
	}
	user.Memberships = append(user.Memberships, m)

	if err := s.saveUsers(users); err != nil {
		return nil, err
	}
	return m, nil
}

// ListTransactions returns the user's ledger, newest first.
func (s *PaymentService) ListTransactions(address string) ([]*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	user, ok := users[address]
	if !ok {
		return []*Transaction{}, nil
	}
	return user.Transactions, nil
}

// demoMemberships returns the starter membership set seeded for new users
// when demo mode is enabled.
func demoMemberships() []*Membership {
	return []*Membership{
		{
			ID:           "1",
			Title:        "Premium Member",
			Description:  "Access to all premium features including advanced analytics and priority support",
			Amount:       29.99,
			ChargeDate:   8,
			Status:       MembershipStatusActive,
			Admin:        "Premium Services Manager",
			AdminAddress: "5FedX18utL5FphajHzATymbBYntSV2SEb4smRciZMW4FWBX8",
		},
		{
			ID:           "2",
			Title:        "Pro Trader",
			Description:  "Professional trading tools with real-time market data and automated strategies",
			Amount:       99.99,
			ChargeDate:   15,
			Status:       MembershipStatusActive,
			Admin:        "Trading Platform Manager",
			AdminAddress: "5FedX18utL5FphajHzATymbBYntSV2SEb4smRciZMW4FWBX8",
		},
		{
			ID:           "3",
			Title:        "Enterprise Plan",
			Description:  "Full enterprise suite with unlimited users, dedicated support, and custom integrations",
			Amount:       499.99,
			ChargeDate:   22,
			Status:       MembershipStatusActive,
			Admin:        "Enterprise Solutions Manager",
			AdminAddress: "5FedX18utL5FphajHzATymbBYntSV2SEb4smRciZMW4FWBX8",
		},
	}
}
