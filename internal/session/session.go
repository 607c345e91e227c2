// Package session holds the admin's credentials for the lifetime of one gymctl invocation.
package session

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gymctl/internal/models"

	"go.uber.org/zap"
)

// TokenEnv overrides the stored token for a single invocation
const TokenEnv = "GYMCTL_TOKEN"

// Session carries the bearer token used by the API client.
// It is created once per invocation with Open and released with Close.
type Session struct {
	ServerURL string

	mu     sync.RWMutex
	token  string
	store  *models.TokenStore
	logger *zap.Logger
	closed bool
}

// Open starts a session against serverURL, reading the token from the environment
// first and from the token store in configDir otherwise.
func Open(serverURL, configDir string, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		ServerURL: strings.TrimRight(serverURL, "/"),
		store:     models.NewTokenStore(configDir),
		logger:    logger.Named("session"),
	}

	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		s.token = token
		s.logger.Debug("using token from environment")
		return s, nil
	}

	token, err := s.store.GetToken()
	if err != nil {
		return nil, fmt.Errorf("error reading stored token: %w", err)
	}
	s.token = token

	return s, nil
}

// Token returns the current bearer token, or "" when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// LoggedIn reports whether a token is available
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// RequireToken returns ErrNotLoggedIn when no token is available
func (s *Session) RequireToken() error {
	if !s.LoggedIn() {
		return models.ErrNotLoggedIn
	}
	return nil
}

// Login stores token for this and later invocations
func (s *Session) Login(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("empty token")
	}

	if err := s.store.SaveToken(token); err != nil {
		return fmt.Errorf("error saving token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Info("logged in", zap.String("server", s.ServerURL))
	return nil
}

// Logout forgets the token in memory and on disk
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.store.ClearToken(); err != nil {
		return fmt.Errorf("error clearing token: %w", err)
	}

	s.logger.Info("logged out", zap.String("server", s.ServerURL))
	return nil
}

// TokenFile returns where the token is kept on disk
func (s *Session) TokenFile() string {
	return s.store.TokenFile
}

// Close ends the session. The stored token is kept; only the in-memory copy is dropped.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.token = ""
	return nil
}
