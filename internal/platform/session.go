package platform

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	apperrors "github.com/panoramablock/zico-x-bot/pkg/errors"
)

// Session is the cached result of a successful credential verification.
// It has an explicit lifecycle: OpenSession reads it from disk, IsValid
// checks its age, Save writes it back, Close drops it.
type Session struct {
	UserID     string    `json:"user_id"`
	ScreenName string    `json:"screen_name"`
	VerifiedAt time.Time `json:"verified_at"`
}

// OpenSession loads a session from the cache file. A missing or corrupt
// file reports ErrSessionNotFound so callers fall back to Authenticate.
func OpenSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSessionNotFound, path)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: corrupt session file %s", apperrors.ErrSessionNotFound, path)
	}
	if s.UserID == "" || s.VerifiedAt.IsZero() {
		return nil, fmt.Errorf("%w: incomplete session file %s", apperrors.ErrSessionNotFound, path)
	}
	return &s, nil
}

// IsValid reports whether the session was verified recently enough.
func (s *Session) IsValid(ttl time.Duration) bool {
	if s == nil || s.VerifiedAt.IsZero() {
		return false
	}
	return time.Since(s.VerifiedAt) < ttl
}

// Save writes the session to the cache file.
func (s *Session) Save(path string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Close discards the in-memory session state.
func (s *Session) Close() {
	*s = Session{}
}
