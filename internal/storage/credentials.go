package storage

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"holiday-planner/internal/auth"
	"holiday-planner/internal/models"

	"github.com/rs/zerolog"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

// CredentialStore maps usernames to password hashes in a JSON file of the
// form {"username": "hash"}. Every write rewrites the whole file.
type CredentialStore struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

// NewCredentialStore returns a store backed by the file at path. The file is
// created on the first registration.
func NewCredentialStore(path string, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{path: path, log: log}
}

// Path returns the credential file location.
func (s *CredentialStore) Path() string { return s.path }

func (s *CredentialStore) load() (map[string]string, error) {
	users := make(map[string]string)
	if err := readJSON(s.path, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Register creates a new account.
func (s *CredentialStore) Register(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return &models.ValidationError{Problems: []string{"username is required"}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := users[username]; ok {
		return fmt.Errorf("register %s: %w", username, models.ErrDuplicateUser)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return models.ErrWeakPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	users[username] = hash
	return writeJSON(s.path, users)
}

// Authenticate checks username and password against the stored hash. A
// legacy unsalted digest is replaced by a bcrypt hash after a successful
// check.
func (s *CredentialStore) Authenticate(username, password string) error {
	username = strings.TrimSpace(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	hash, ok := users[username]
	if !ok {
		return models.ErrUnknownUser
	}
	if !auth.CheckPassword(password, hash) {
		return models.ErrBadPassword
	}

	if auth.IsLegacyHash(hash) {
		if err := s.upgrade(users, username, password); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to upgrade legacy password hash")
		}
	}
	return nil
}

func (s *CredentialStore) upgrade(users map[string]string, username, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	users[username] = hash
	return writeJSON(s.path, users)
}

// Exists reports whether username is registered.
func (s *CredentialStore) Exists(username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := users[strings.TrimSpace(username)]
	return ok, nil
}

// Count returns the number of registered users.
func (s *CredentialStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(users), nil
}
