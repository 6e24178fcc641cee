package billing

import (
	"fmt"
	"sort"
	"time"
)

// calendarMonths is how far ahead the calendar projection looks.
const calendarMonths = 3

// Calendar projects each membership's charge day across the coming months
// as a read-only event list, sorted by date. It never touches billing
// state.
func (s *PaymentService) Calendar(address string, now time.Time) ([]*CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	user, ok := users[address]
	if !ok {
		return []*CalendarEvent{}, nil
	}

	events := []*CalendarEvent{}
	for _, m := range user.Memberships {
		chargeDay := m.ChargeDate
		if chargeDay < 1 {
			chargeDay = 1
		}

		for i := 0; i < calendarMonths; i++ {
			year, month, _ := now.Date()
			month += time.Month(i)
			day := chargeDay
			if last := daysInMonth(year, month); day > last {
				day = last
			}
			date := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
			if date.Before(now) {
				continue
			}

			events = append(events, &CalendarEvent{
				ID:           fmt.Sprintf("%s-%d", m.ID, i),
				Title:        m.Title,
				Description:  fmt.Sprintf("%s - Monthly charge on day %d", m.Title, chargeDay),
				Date:         date,
				Amount:       m.Amount,
				Type:         "membership",
				MembershipID: m.ID,
				Status:       m.Status,
				ChargeDate:   chargeDay,
			})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}
