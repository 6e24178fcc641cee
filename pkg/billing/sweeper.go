package billing

import (
	"sort"
	"time"
)

// SweepAll makes one full pass over every user and membership, charging
// each membership that is due at now. Per-membership failures are recorded
// and do not stop the pass. The mutated table is persisted exactly once at
// the end, and only if at least one charge was attempted.
func (s *PaymentService) SweepAll(now time.Time) (SweepSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	summary := SweepSummary{SweptAt: now}

	users, err := s.loadUsers()
	if err != nil {
		return summary, err
	}

	// Deterministic order keeps logs and tests stable; the map itself
	// carries no ordering.
	addresses := make([]string, 0, len(users))
	for address := range users {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	for _, address := range addresses {
		user := users[address]
		for _, m := range user.Memberships {
			if !IsDue(m, now) {
				continue
			}

			result, err := s.attemptCharge(users, user, m, now, TriggerAutomatic)
			if err != nil {
				// The automatic path records balance failures itself;
				// anything surfacing here is unexpected but still must
				// not abort the rest of the sweep.
				s.logger.WithError(err).WithFields(map[string]interface{}{
					"address":    address,
					"membership": m.ID,
				}).Error("Charge attempt failed during sweep")
				summary.Failed++
				continue
			}
			if result == nil {
				summary.Failed++
				continue
			}
			summary.Processed++
		}
	}

	if summary.Attempted() {
		if err := s.saveUsers(users); err != nil {
			return summary, err
		}
		s.logger.WithFields(map[string]interface{}{
			"processed": summary.Processed,
			"failed":    summary.Failed,
		}).Info("Automatic payment sweep complete")
	} else {
		s.logger.Debug("No payments due")
	}

	if s.metrics != nil {
		s.metrics.SweepsTotal.Inc()
		s.metrics.SweepDuration.Observe(time.Since(started).Seconds())
	}
	return summary, nil
}
