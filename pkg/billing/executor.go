package billing

import (
	"time"
)

// attemptCharge runs one charge attempt against an in-memory snapshot. It
// mutates user and m in place and does not persist; callers own the table
// write.
//
// Behavior by trigger when the balance cannot cover the amount:
//   - automatic: a failed transaction is recorded, the membership moves to
//     payment_failed, and (nil, nil) is returned so the sweep can continue.
//   - manual/retry: nothing is mutated and an InsufficientBalanceError is
//     returned.
func (s *PaymentService) attemptCharge(users UserTable, user *User, m *Membership, now time.Time, trigger Trigger) (*ChargeResult, error) {
	if trigger == TriggerRetry && m.Status != MembershipStatusPaymentFailed {
		return nil, ErrInvalidState
	}

	if user.Balance < m.Amount {
		if trigger != TriggerAutomatic {
			return nil, &InsufficientBalanceError{Required: m.Amount, Available: user.Balance}
		}

		tx := &Transaction{
			ID:              s.ids.NewID(),
			Type:            TransactionTypeMembershipPayment,
			Amount:          m.Amount,
			Status:          TransactionStatusFailed,
			Timestamp:       now,
			MembershipID:    m.ID,
			MembershipTitle: m.Title,
			Automatic:       true,
			Reason:          "Insufficient balance",
		}
		user.Transactions = append([]*Transaction{tx}, user.Transactions...)

		failedAt := now
		m.Status = MembershipStatusPaymentFailed
		m.FailedPaymentDate = &failedAt

		s.logger.WithFields(map[string]interface{}{
			"address":    user.Address,
			"membership": m.ID,
			"required":   m.Amount,
			"available":  user.Balance,
		}).Warn("Automatic payment failed: insufficient balance")
		s.observeCharge(trigger, TransactionStatusFailed)
		return nil, nil
	}

	user.Balance -= m.Amount

	tx := &Transaction{
		ID:              s.ids.NewID(),
		Type:            TransactionTypeMembershipPayment,
		Amount:          m.Amount,
		Status:          TransactionStatusCompleted,
		Timestamp:       now,
		MembershipID:    m.ID,
		MembershipTitle: m.Title,
		Automatic:       trigger == TriggerAutomatic,
		Retried:         trigger == TriggerRetry,
	}
	user.Transactions = append([]*Transaction{tx}, user.Transactions...)

	paidAt := now
	m.LastPaidDate = &paidAt
	m.FailedPaymentDate = nil
	if m.Status == MembershipStatusPaymentFailed {
		m.Status = MembershipStatusActive
	}

	// The automatic path anchors the next due date on the date it just
	// matched, preserving the charge-day cadence. Manual and retried
	// payments anchor on the later of now and any future due date, so
	// paying ahead stacks.
	var base time.Time
	if trigger == TriggerAutomatic && m.NextPaymentDate != nil {
		base = *m.NextPaymentDate
	} else {
		base = manualBaseDate(m, now)
	}
	next := NextDueDate(base, m.ChargeDate)
	m.NextPaymentDate = &next

	s.creditAdmin(users, m.Amount, m, user.Address, now)

	s.logger.WithFields(map[string]interface{}{
		"address":     user.Address,
		"membership":  m.ID,
		"amount":      m.Amount,
		"balance":     user.Balance,
		"nextPayment": next,
		"trigger":     trigger,
	}).Info("Membership payment processed")
	s.observeCharge(trigger, TransactionStatusCompleted)

	return &ChargeResult{
		Balance:     user.Balance,
		Transaction: tx,
		Membership:  m,
	}, nil
}

// PayMembership charges a membership immediately on the user's request.
func (s *PaymentService) PayMembership(address, membershipID string, now time.Time) (*ChargeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	user, m, err := findMembership(users, address, membershipID)
	if err != nil {
		return nil, err
	}

	result, err := s.attemptCharge(users, user, m, now, TriggerManual)
	if err != nil {
		return nil, err
	}

	if err := s.saveUsers(users); err != nil {
		return nil, err
	}
	return result, nil
}

// RetryPayment re-attempts a charge for a membership in payment_failed
// state. On success the membership returns to active and its failure
// marker is cleared.
func (s *PaymentService) RetryPayment(address, membershipID string, now time.Time) (*ChargeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	user, m, err := findMembership(users, address, membershipID)
	if err != nil {
		return nil, err
	}

	result, err := s.attemptCharge(users, user, m, now, TriggerRetry)
	if err != nil {
		return nil, err
	}

	if err := s.saveUsers(users); err != nil {
		return nil, err
	}
	return result, nil
}
