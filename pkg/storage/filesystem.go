package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paypulse/paypulse/pkg/billing"
)

const (
	usersFile = "users.json"
	adminFile = "admin.json"
)

// FileSystemStore implements the billing Store port over two flat JSON
// documents: the full user table and the operator singleton. Reads and
// writes each cover one whole document; there is no finer-grained
// isolation, which is why the billing engine serializes access.
type FileSystemStore struct {
	dataDir string
}

// NewFileSystemStore creates the data directory and initializes both
// documents if they do not exist yet.
func NewFileSystemStore(dataDir string) (*FileSystemStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &FileSystemStore{dataDir: dataDir}

	usersPath := s.path(usersFile)
	if _, err := os.Stat(usersPath); os.IsNotExist(err) {
		if err := s.WriteUsers(billing.UserTable{}); err != nil {
			return nil, err
		}
	}

	adminPath := s.path(adminFile)
	if _, err := os.Stat(adminPath); os.IsNotExist(err) {
		if err := s.WriteAdmin(billing.DefaultAdminConfig()); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *FileSystemStore) path(name string) string {
	return filepath.Join(s.dataDir, name)
}

// ReadUsers implements billing.Store.
func (s *FileSystemStore) ReadUsers() (billing.UserTable, error) {
	data, err := os.ReadFile(s.path(usersFile))
	if err != nil {
		if os.IsNotExist(err) {
			return billing.UserTable{}, nil
		}
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var users billing.UserTable
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users file: %w", err)
	}
	if users == nil {
		users = billing.UserTable{}
	}
	return users, nil
}

// WriteUsers implements billing.Store.
func (s *FileSystemStore) WriteUsers(users billing.UserTable) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}
	if err := os.WriteFile(s.path(usersFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	return nil
}

// ReadAdmin implements billing.Store.
func (s *FileSystemStore) ReadAdmin() (*billing.AdminConfig, error) {
	data, err := os.ReadFile(s.path(adminFile))
	if err != nil {
		if os.IsNotExist(err) {
			return billing.DefaultAdminConfig(), nil
		}
		return nil, fmt.Errorf("failed to read admin file: %w", err)
	}

	var cfg billing.AdminConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal admin file: %w", err)
	}
	return &cfg, nil
}

// WriteAdmin implements billing.Store.
func (s *FileSystemStore) WriteAdmin(cfg *billing.AdminConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal admin config: %w", err)
	}
	if err := os.WriteFile(s.path(adminFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write admin file: %w", err)
	}
	return nil
}

// HealthCheck verifies the data directory is accessible.
func (s *FileSystemStore) HealthCheck() error {
	if _, err := os.Stat(s.dataDir); err != nil {
		return fmt.Errorf("data directory not accessible: %w", err)
	}
	return nil
}
