package newsletter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teachstack/edudir/internal/logger"
)

// Subscriber is one newsletter signup. VerificationToken is cleared
// once the subscriber confirms their address.
type Subscriber struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Source            string    `json:"source,omitempty"`
	UserGroup         string    `json:"userGroup,omitempty"`
	IsVerified        bool      `json:"isVerified"`
	VerificationToken string    `json:"verificationToken,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Store is a JSON-file subscriber list. Writes are serialized through
// a mutex; the file is small enough to rewrite whole.
type Store struct {
	mu   sync.Mutex
	path string
	log  logger.Logger
}

func NewStore(path string, log logger.Logger) *Store {
	return &Store{path: path, log: log}
}

// List returns all subscribers. A missing or unreadable file is
// treated as an empty list, not an error.
func (s *Store) List() []Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add registers an email, generating an ID and verification token.
// Adding an email that is already subscribed returns the existing
// record with created=false.
func (s *Store) Add(email, source, userGroup string) (Subscriber, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subscribers := s.load()
	for _, sub := range subscribers {
		if sub.Email == email {
			return sub, false, nil
		}
	}

	now := time.Now().UTC()
	sub := Subscriber{
		ID:                uuid.NewString(),
		Email:             email,
		Source:            source,
		UserGroup:         userGroup,
		VerificationToken: uuid.NewString(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	subscribers = append(subscribers, sub)
	if err := s.save(subscribers); err != nil {
		return Subscriber{}, false, err
	}
	return sub, true, nil
}

// Verify marks the subscriber holding token as verified and clears the
// token. Returns false for unknown tokens.
func (s *Store) Verify(token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subscribers := s.load()
	for i := range subscribers {
		if subscribers[i].VerificationToken == token {
			subscribers[i].IsVerified = true
			subscribers[i].VerificationToken = ""
			subscribers[i].UpdatedAt = time.Now().UTC()
			if err := s.save(subscribers); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Remove deletes a subscriber by ID. Returns false when no subscriber
// has that ID.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subscribers := s.load()
	kept := subscribers[:0]
	for _, sub := range subscribers {
		if sub.ID != id {
			kept = append(kept, sub)
		}
	}
	if len(kept) == len(subscribers) {
		return false, nil
	}

	if err := s.save(kept); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) load() []Subscriber {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read subscribers file", logger.Error(err))
		}
		return []Subscriber{}
	}

	var subscribers []Subscriber
	if err := json.Unmarshal(data, &subscribers); err != nil {
		s.log.Warn("failed to parse subscribers file", logger.Error(err))
		return []Subscriber{}
	}
	return subscribers
}

func (s *Store) save(subscribers []Subscriber) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(subscribers, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode subscribers: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write subscribers file: %w", err)
	}
	return nil
}
