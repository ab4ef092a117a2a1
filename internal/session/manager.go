// Package session maps browser client ids to their application state.
package session

import (
	"context"
	"sync"
	"time"

	"cadence/internal/app"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Factory creates the state for a new client id.
type Factory func(clientID string) *app.App

// Session represents a client session
type Session struct {
	ID           string    `json:"id"`
	UserAgent    string    `json:"userAgent"`
	IPAddress    string    `json:"ipAddress"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`

	App *app.App `json:"-"`
}

// Manager manages client sessions and expires idle ones. Expiring a session
// only drops in-memory state; persisted data stays under the client id.
type Manager struct {
	sessions        map[string]*Session
	mutex           sync.RWMutex
	activityTimeout time.Duration
	factory         Factory
	logger          *logrus.Logger
}

// NewManager creates a session manager. An activityTimeout <= 0 disables
// expiry.
func NewManager(factory Factory, activityTimeout time.Duration, logger *logrus.Logger) *Manager {
	return &Manager{
		sessions:        make(map[string]*Session),
		activityTimeout: activityTimeout,
		factory:         factory,
		logger:          logger,
	}
}

// GenerateID creates a new unique client id
func GenerateID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a well-formed client id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Acquire returns the session for clientID, creating it when missing. A
// malformed or empty id is replaced by a fresh one; created reports whether
// a new session was made so the caller can set the cookie.
func (m *Manager) Acquire(clientID, userAgent, ipAddress string) (sess *Session, created bool) {
	if !ValidID(clientID) {
		clientID = GenerateID()
	}

	m.mutex.RLock()
	sess, ok := m.sessions[clientID]
	m.mutex.RUnlock()
	if ok {
		m.touch(sess)
		return sess, false
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Another request may have created it meanwhile.
	if sess, ok := m.sessions[clientID]; ok {
		sess.LastActivity = time.Now()
		return sess, false
	}

	now := time.Now()
	sess = &Session{
		ID:           clientID,
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
		CreatedAt:    now,
		LastActivity: now,
		App:          m.factory(clientID),
	}
	m.sessions[clientID] = sess

	m.logger.WithFields(logrus.Fields{
		"client_id": clientID,
		"ip":        ipAddress,
	}).Info("Client session created")
	return sess, true
}

func (m *Manager) touch(sess *Session) {
	m.mutex.Lock()
	sess.LastActivity = time.Now()
	m.mutex.Unlock()
}

// Get retrieves a session by id
func (m *Manager) Get(clientID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sess, ok := m.sessions[clientID]
	return sess, ok
}

// Remove removes a session
func (m *Manager) Remove(clientID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.sessions, clientID)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.sessions)
}

// StartCleanup expires idle sessions every interval until ctx is done.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	if m.activityTimeout <= 0 || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.CleanupExpired(); n > 0 {
					m.logger.WithField("expired", n).Debug("Expired idle client sessions")
				}
			}
		}
	}()
}

// CleanupExpired removes sessions idle longer than the activity timeout and
// returns how many were removed.
func (m *Manager) CleanupExpired() int {
	if m.activityTimeout <= 0 {
		return 0
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	removed := 0
	now := time.Now()
	for id, sess := range m.sessions {
		if now.Sub(sess.LastActivity) > m.activityTimeout {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
