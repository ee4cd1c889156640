// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package trip

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripai/backend/shared/logger"
	"tripai/backend/shared/types"
)

// DefaultSessionTTL is how long an idle session survives before the
// sweeper drops it.
const DefaultSessionTTL = 2 * time.Hour

// Manager owns the live sessions, keyed by UUID. Safe for concurrent use.
type Manager struct {
	gateway Gateway
	log     *logger.Logger
	ttl     time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. ttl <= 0 selects the default.
func NewManager(gateway Gateway, ttl time.Duration, log *logger.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if log == nil {
		log = logger.New("session-manager")
	}
	return &Manager{
		gateway:  gateway,
		log:      log,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create makes a new session and registers it.
func (m *Manager) Create(lang types.Language) *Session {
	id := uuid.New().String()
	s := NewSession(id, m.gateway, lang, m.log)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.log.Info(id, "", "session created", map[string]interface{}{
		"language": string(lang),
	})
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete removes a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartSweeper expires idle sessions in the background until ctx ends.
func (m *Manager) StartSweeper(ctx context.Context) {
	interval := m.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := m.sweep(now); removed > 0 {
					m.log.Info("", "", "expired idle sessions", map[string]interface{}{
						"removed":   removed,
						"remaining": m.Len(),
					})
				}
			}
		}
	}()
}

// sweep removes sessions idle longer than the TTL as of now.
func (m *Manager) sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastActive()) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
