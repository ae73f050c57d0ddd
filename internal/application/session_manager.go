package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/example/roombook/internal/directory"
	"github.com/example/roombook/internal/persistence"
)

// ClientStorage is the durable key-value storage that mirrors client state.
// Absent keys are reported with persistence.ErrNotFound.
type ClientStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// PersonDirectory resolves people who may sign in or be booked.
type PersonDirectory interface {
	People() []directory.Person
	Lookup(identity string) (directory.Person, bool)
}

// sessionRecord is the persisted shape of a session.
type sessionRecord struct {
	DisplayName string `json:"name"`
	Identity    string `json:"rollNumber"`
}

// SessionManager validates credentials against the directory and holds the
// signed-in identity, mirroring it to client storage.
type SessionManager struct {
	mu          sync.RWMutex
	people      PersonDirectory
	storage     ClientStorage
	matchSecret SecretMatcher
	current     *Session
	logger      *slog.Logger
}

// NewSessionManager constructs a SessionManager with the default secret matcher.
func NewSessionManager(people PersonDirectory, storage ClientStorage, logger *slog.Logger) *SessionManager {
	return NewSessionManagerWithMatcher(people, storage, nil, logger)
}

// NewSessionManagerWithMatcher constructs a SessionManager with a custom secret matcher.
func NewSessionManagerWithMatcher(people PersonDirectory, storage ClientStorage, match SecretMatcher, logger *slog.Logger) *SessionManager {
	if people == nil {
		people = directory.Empty()
	}
	if match == nil {
		match = MatchSecret
	}
	return &SessionManager{
		people:      people,
		storage:     storage,
		matchSecret: match,
		logger:      defaultLogger(logger),
	}
}

func (m *SessionManager) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, m.logger, "SessionManager", operation, attrs...)
}

// Authenticate signs in the directory entry whose identity matches exactly and
// whose secret matches after normalization. A failed attempt leaves no session.
func (m *SessionManager) Authenticate(ctx context.Context, identity, secret string) (session Session, err error) {
	if m == nil {
		err = fmt.Errorf("SessionManager is nil")
		return
	}

	identity = strings.TrimSpace(identity)
	logger := m.loggerWith(ctx, "Authenticate", "roll_number", identity)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "authentication succeeded", "name", session.DisplayName)
	}()

	person, ok := m.match(identity, secret)
	if !ok {
		if clearErr := m.clear(ctx); clearErr != nil {
			err = errors.Join(ErrInvalidCredentials, clearErr)
			return
		}
		err = ErrInvalidCredentials
		return
	}

	session = Session{Identity: person.Identity, DisplayName: person.DisplayName}
	if err = m.persist(ctx, session); err != nil {
		return
	}

	m.mu.Lock()
	m.current = &session
	m.mu.Unlock()
	return
}

func (m *SessionManager) match(identity, secret string) (directory.Person, bool) {
	if identity == "" || strings.TrimSpace(secret) == "" {
		return directory.Person{}, false
	}
	for _, person := range m.people.People() {
		if person.Identity != identity {
			continue
		}
		if m.matchSecret(person.Secret, secret) {
			return person, true
		}
	}
	return directory.Person{}, false
}

// Restore reloads a persisted session if its identity still exists in the
// directory. Unreadable or stale sessions are discarded. The display name is
// taken from the directory, since bookings record directory names.
func (m *SessionManager) Restore(ctx context.Context) (session Session, ok bool, err error) {
	if m == nil {
		err = fmt.Errorf("SessionManager is nil")
		return
	}

	logger := m.loggerWith(ctx, "Restore")

	if m.storage == nil {
		return
	}

	raw, err := m.storage.Get(ctx, persistence.SessionKey)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = nil
			logger.DebugContext(ctx, "no persisted session")
			return
		}
		logger.ErrorContext(ctx, "failed to read persisted session", "error", err)
		return
	}

	var record sessionRecord
	if decodeErr := json.Unmarshal(raw, &record); decodeErr != nil || strings.TrimSpace(record.Identity) == "" {
		logger.WarnContext(ctx, "discarding unreadable session", "error", decodeErr)
		err = m.clear(ctx)
		return
	}

	person, exists := m.people.Lookup(record.Identity)
	if !exists {
		logger.WarnContext(ctx, "discarding session for unknown roll number", "roll_number", record.Identity)
		err = m.clear(ctx)
		return
	}

	session = Session{Identity: person.Identity, DisplayName: person.DisplayName}
	if record.DisplayName != person.DisplayName {
		if persistErr := m.persist(ctx, session); persistErr != nil {
			logger.WarnContext(ctx, "failed to refresh persisted session name", "error", persistErr)
		}
	}
	m.mu.Lock()
	m.current = &session
	m.mu.Unlock()

	logger.InfoContext(ctx, "session restored", "roll_number", session.Identity)
	ok = true
	return
}

// End clears the in-memory and persisted session unconditionally.
func (m *SessionManager) End(ctx context.Context) error {
	if m == nil {
		return fmt.Errorf("SessionManager is nil")
	}

	logger := m.loggerWith(ctx, "End")
	if err := m.clear(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to clear persisted session", "error", err)
		return err
	}
	logger.InfoContext(ctx, "session ended")
	return nil
}

// Current returns the signed-in session, if any.
func (m *SessionManager) Current() (Session, bool) {
	if m == nil {
		return Session{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

func (m *SessionManager) persist(ctx context.Context, session Session) error {
	if m.storage == nil {
		return nil
	}
	raw, err := json.Marshal(sessionRecord{DisplayName: session.DisplayName, Identity: session.Identity})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.storage.Set(ctx, persistence.SessionKey, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (m *SessionManager) clear(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if m.storage == nil {
		return nil
	}
	if err := m.storage.Delete(ctx, persistence.SessionKey); err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
