package billing

import (
	"time"
)

// creditAdmin routes a successful charge to the membership's operator
// account. The credit is applied to the admin's own user record inside the
// same snapshot as the payer's debit, so both land in one table write.
//
// The operator singleton mirror is a separate write against the admin
// record; its failure is logged and never unwinds the already-applied
// debit. A crash between the table write and the mirror write leaves the
// mirror stale, which is acceptable: the mirror balance is informational
// and the authoritative total lives in the admin's user record.
func (s *PaymentService) creditAdmin(users UserTable, amount float64, m *Membership, payerAddress string, now time.Time) {
	if m.AdminAddress == "" {
		s.logger.WithField("membership", m.ID).Debug("No admin address on membership, skipping credit")
		return
	}

	admin, ok := users[m.AdminAddress]
	if !ok {
		name := m.Admin
		if name == "" {
			name = "Admin"
		}
		admin = &User{
			Address:      m.AdminAddress,
			Name:         name,
			Balance:      0,
			Memberships:  []*Membership{},
			Transactions: []*Transaction{},
		}
		users[m.AdminAddress] = admin
	}

	admin.Balance += amount
	tx := &Transaction{
		ID:              s.ids.NewID(),
		Type:            TransactionTypePaymentReceived,
		Amount:          amount,
		Status:          TransactionStatusCompleted,
		Timestamp:       now,
		From:            payerAddress,
		MembershipTitle: m.Title,
	}
	admin.Transactions = append([]*Transaction{tx}, admin.Transactions...)

	s.logger.WithFields(map[string]interface{}{
		"admin":   m.AdminAddress,
		"amount":  amount,
		"balance": admin.Balance,
	}).Info("Credited membership payment to admin account")

	s.mirrorAdminBalance(amount)
}

// mirrorAdminBalance adds amount to the operator singleton's informational
// running total when one is configured. Failures are logged only.
func (s *PaymentService) mirrorAdminBalance(amount float64) {
	cfg, err := s.store.ReadAdmin()
	if err != nil {
		s.logger.WithError(err).Error("Failed to read admin config for balance mirror")
		return
	}
	if cfg == nil || !cfg.Configured {
		return
	}
	cfg.Balance += amount
	if err := s.store.WriteAdmin(cfg); err != nil {
		s.logger.WithError(err).Error("Failed to update admin balance mirror")
	}
}

// GetAdminConfig returns the operator singleton.
func (s *PaymentService) GetAdminConfig() (*AdminConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.store.ReadAdmin()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = DefaultAdminConfig()
	}
	return cfg, nil
}

// UpdateAdminConfig sets the operator's name and receiving address and
// marks the singleton configured. The mirrored balance is preserved.
func (s *PaymentService) UpdateAdminConfig(req *UpdateAdminConfigRequest) (*AdminConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.store.ReadAdmin()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = DefaultAdminConfig()
	}

	cfg.Name = req.Name
	cfg.Address = req.Address
	cfg.Configured = true

	if err := s.store.WriteAdmin(cfg); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"name":    cfg.Name,
		"address": cfg.Address,
	}).Info("Admin configuration updated")
	return cfg, nil
}
