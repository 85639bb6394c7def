package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esgboard/internal/config"
)

func newManager() *Manager {
	return NewManager(config.AuthConfig{
		AccessSecret:  "a",
		RefreshSecret: "r",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
}

func TestAccessRoundTrip(t *testing.T) {
	m := newManager()
	issued, err := m.IssueAccess(42, "ops@acme.test")
	require.NoError(t, err)

	claims, err := m.ParseAccess(issued.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "ops@acme.test", claims.Username)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	m := newManager()
	refresh, err := m.IssueRefresh(1)
	require.NoError(t, err)
	access, err := m.IssueAccess(1, "x")
	require.NoError(t, err)

	_, err = m.ParseAccess(refresh.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.ParseRefresh(access.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseRefresh(refresh.Token)
	assert.NoError(t, err)
}

func TestExpiredToken(t *testing.T) {
	m := newManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issued, err := m.IssueAccess(1, "x")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAccess(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestForeignSecretRejected(t *testing.T) {
	other := NewManager(config.AuthConfig{AccessSecret: "other", RefreshSecret: "other", AccessTTL: time.Hour, RefreshTTL: time.Hour})
	issued, err := other.IssueAccess(1, "x")
	require.NoError(t, err)

	_, err = newManager().ParseAccess(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
