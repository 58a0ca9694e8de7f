// Package credstore holds the access and refresh tokens of the current session and
// mirrors them into durable storage.
package credstore

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Credentials is the token pair of one session. Either token may be empty.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty reports whether neither token is set.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Store is the single owner of the session credentials. Memory is authoritative: a
// failed storage write is reported to the caller and logged, but the in-memory value
// is updated regardless.
type Store struct {
	mu      sync.RWMutex
	creds   Credentials
	storage Storage
	log     zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report storage failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns a Store backed by storage and loads whatever it currently holds. A load
// failure is logged and leaves the store empty.
func New(storage Storage, opts ...Option) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{storage: storage, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		s.log.Warn().Err(err).Msg("failed to load stored credentials")
	}
	return s
}

// Get returns a copy of the current credentials.
func (s *Store) Get() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Set replaces both tokens. An empty token removes its storage slot.
func (s *Store) Set(c Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = c
	err := errors.Join(
		s.mirror(AccessTokenSlot, c.AccessToken),
		s.mirror(RefreshTokenSlot, c.RefreshToken),
	)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to persist credentials")
	}
	return err
}

// SetAccessToken replaces the access token and keeps the refresh token.
func (s *Store) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = token
	err := s.mirror(AccessTokenSlot, token)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to persist access token")
	}
	return err
}

// Clear removes both tokens from memory and storage.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	err := errors.Join(
		s.storage.Delete(AccessTokenSlot),
		s.storage.Delete(RefreshTokenSlot),
	)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stored credentials")
	}
	return err
}

// Reload replaces the in-memory credentials with the storage contents. On error the
// in-memory value is left untouched.
func (s *Store) Reload() error {
	access, _, err := s.storage.Read(AccessTokenSlot)
	if err != nil {
		return err
	}
	refresh, _, err := s.storage.Read(RefreshTokenSlot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.creds = Credentials{AccessToken: access, RefreshToken: refresh}
	s.mu.Unlock()
	return nil
}

func (s *Store) mirror(slot Slot, value string) error {
	if value == "" {
		return s.storage.Delete(slot)
	}
	return s.storage.Write(slot, value)
}
