// Package api exposes the payment tracker's REST surface: user accounts,
// deposits and withdrawals, memberships, payments, the transaction ledger,
// the upcoming-charge calendar, and operator configuration.
package api
