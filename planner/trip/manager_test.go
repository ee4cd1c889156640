// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0

package trip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripai/backend/shared/types"
)

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(&stubGateway{}, time.Hour, nil)

	s := m.Create(types.LangEnglish)
	require.NotEmpty(t, s.ID())
	assert.Equal(t, 1, m.Len())

	got, ok := m.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestManagerDistinctIDs(t *testing.T) {
	m := NewManager(&stubGateway{}, time.Hour, nil)
	a := m.Create(types.LangEnglish)
	b := m.Create(types.LangVietnamese)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, m.Len())
}

func TestManagerDelete(t *testing.T) {
	m := NewManager(&stubGateway{}, time.Hour, nil)
	s := m.Create(types.LangEnglish)
	m.Delete(s.ID())
	assert.Equal(t, 0, m.Len())
}

func TestManagerSweepExpiresIdleSessions(t *testing.T) {
	m := NewManager(&stubGateway{}, time.Hour, nil)
	idle := m.Create(types.LangEnglish)
	active := m.Create(types.LangEnglish)

	// Only sessions idle past the TTL are swept.
	idle.mu.Lock()
	idle.lastActive = time.Now().Add(-2 * time.Hour)
	idle.mu.Unlock()

	removed := m.sweep(time.Now())
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.Len())

	_, ok := m.Get(active.ID())
	assert.True(t, ok)
	_, ok = m.Get(idle.ID())
	assert.False(t, ok)
}

func TestManagerDefaultTTL(t *testing.T) {
	m := NewManager(&stubGateway{}, 0, nil)
	assert.Equal(t, DefaultSessionTTL, m.ttl)
}

func TestNewSessionDefaultsLanguage(t *testing.T) {
	s := NewSession("x", &stubGateway{}, "klingon", nil)
	assert.Equal(t, types.LangVietnamese, s.Snapshot().Language)
}
