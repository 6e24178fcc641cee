package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paypulse/paypulse/pkg/billing"
)

func TestNewFileSystemStoreInitializesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	store, err := NewFileSystemStore(dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "users.json"))
	assert.FileExists(t, filepath.Join(dir, "admin.json"))

	users, err := store.ReadUsers()
	require.NoError(t, err)
	assert.Empty(t, users)

	cfg, err := store.ReadAdmin()
	require.NoError(t, err)
	assert.Equal(t, "System Admin", cfg.Name)
	assert.False(t, cfg.Configured)
}

func TestNewFileSystemStorePreservesExistingData(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileSystemStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.WriteUsers(billing.UserTable{
		"alice": {Address: "alice", Balance: 42},
	}))

	// Reopening must not reinitialize the files.
	store, err = NewFileSystemStore(dir)
	require.NoError(t, err)
	users, err := store.ReadUsers()
	require.NoError(t, err)
	require.Contains(t, users, "alice")
	assert.InDelta(t, 42.0, users["alice"].Balance, 1e-9)
}

func TestUsersRoundTrip(t *testing.T) {
	store, err := NewFileSystemStore(t.TempDir())
	require.NoError(t, err)

	next := time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC)
	in := billing.UserTable{
		"alice": {
			Address: "alice",
			Name:    "Alice",
			Balance: 70.01,
			Memberships: []*billing.Membership{
				{
					ID:              "m1",
					Title:           "Premium Member",
					Amount:          29.99,
					ChargeDate:      8,
					Status:          billing.MembershipStatusActive,
					NextPaymentDate: &next,
				},
			},
			Transactions: []*billing.Transaction{
				{
					ID:        "t1",
					Type:      billing.TransactionTypeMembershipPayment,
					Amount:    29.99,
					Status:    billing.TransactionStatusCompleted,
					Timestamp: next,
					Automatic: true,
				},
			},
		},
	}
	require.NoError(t, store.WriteUsers(in))

	out, err := store.ReadUsers()
	require.NoError(t, err)
	require.Contains(t, out, "alice")
	alice := out["alice"]
	assert.InDelta(t, 70.01, alice.Balance, 1e-9)
	require.Len(t, alice.Memberships, 1)
	require.NotNil(t, alice.Memberships[0].NextPaymentDate)
	assert.True(t, alice.Memberships[0].NextPaymentDate.Equal(next))
	require.Len(t, alice.Transactions, 1)
	assert.True(t, alice.Transactions[0].Automatic)
}

func TestAdminRoundTrip(t *testing.T) {
	store, err := NewFileSystemStore(t.TempDir())
	require.NoError(t, err)

	in := &billing.AdminConfig{
		Name:       "Ops Team",
		Address:    "admin-addr",
		Configured: true,
		Balance:    59.98,
	}
	require.NoError(t, store.WriteAdmin(in))

	out, err := store.ReadAdmin()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadUsersMissingFile(t *testing.T) {
	store, err := NewFileSystemStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(store.dataDir, "users.json")))

	users, err := store.ReadUsers()
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestReadAdminMissingFile(t *testing.T) {
	store, err := NewFileSystemStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(store.dataDir, "admin.json")))

	cfg, err := store.ReadAdmin()
	require.NoError(t, err)
	assert.Equal(t, billing.DefaultAdminConfig(), cfg)
}

func TestReadUsersCorruptFile(t *testing.T) {
	store, err := NewFileSystemStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.dataDir, "users.json"), []byte("{not json"), 0644))

	_, err = store.ReadUsers()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestHealthCheck(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSystemStore(dir)
	require.NoError(t, err)
	assert.NoError(t, store.HealthCheck())

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, store.HealthCheck())
}
