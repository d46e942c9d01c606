package service

import (
	"errors"
	"fmt"
	"sync"

	"trading-statistics/config"
	"trading-statistics/internal/repository"
	"trading-statistics/pkg/cache"
	"trading-statistics/pkg/common"
	"trading-statistics/pkg/logger"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionManager keeps one Session per dashboard visitor. Sessions expire
// after cache.default_expiration of inactivity.
type SessionManager struct {
	cfg      *config.Config
	log      *logger.Logger
	repo     repository.StatisticsRepository
	reporter ErrorReporter
	store    cache.Cache

	mu sync.Mutex
}

func NewSessionManager(cfg *config.Config, log *logger.Logger, repo repository.StatisticsRepository, reporter ErrorReporter, store cache.Cache) *SessionManager {
	return &SessionManager{
		cfg:      cfg,
		log:      log,
		repo:     repo,
		reporter: reporter,
		store:    store,
	}
}

// New creates a session that is not registered in the store.
func (m *SessionManager) New() *Session {
	return NewSession(m.repo, m.reporter, m.log, m.cfg.Statistics.Timeout, m.defaultTimeRange())
}

// Get returns the session stored under id and extends its lifetime.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(id)
}

func (m *SessionManager) getLocked(id string) (*Session, error) {
	session, ok := cache.GetTyped[*Session](m.store, sessionKey(id))
	if !ok {
		return nil, ErrSessionNotFound
	}
	m.store.Set(sessionKey(id), session, cache.DefaultExpiration)
	return session, nil
}

// GetOrCreate returns the session for id, creating and registering a new one
// under a fresh id when id is unknown. The returned id is the one to hand
// back to the client.
func (m *SessionManager) GetOrCreate(id string) (string, *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if session, err := m.getLocked(id); err == nil {
			return id, session
		}
	}

	newID := uuid.NewString()
	session := m.New()
	m.store.Set(sessionKey(newID), session, cache.DefaultExpiration)
	m.log.Debug("Created dashboard session", logger.StringField("session_id", newID))
	return newID, session
}

func (m *SessionManager) Delete(id string) {
	m.store.Delete(sessionKey(id))
}

func (m *SessionManager) defaultTimeRange() int {
	if m.cfg.Statistics.DefaultTimeRange > 0 {
		return m.cfg.Statistics.DefaultTimeRange
	}
	return 30
}

func sessionKey(id string) string {
	return fmt.Sprintf(common.KEY_DASHBOARD_SESSION, id)
}
