package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIDManager_Lifecycle(t *testing.T) {
	m := NewSessionIDManager(nil, nil)
	defer m.Stop()

	id := m.Generate()
	require.NotEmpty(t, id)
	assert.NotEqual(t, id, m.Generate(), "IDs must be unique")
	assert.Equal(t, 2, m.ActiveSessions())

	terminated, err := m.Validate(id)
	require.NoError(t, err)
	assert.False(t, terminated)

	notAllowed, err := m.Terminate(id)
	require.NoError(t, err)
	assert.False(t, notAllowed)
	assert.Equal(t, 1, m.ActiveSessions())

	terminated, err = m.Validate(id)
	require.NoError(t, err)
	assert.True(t, terminated)
}

func TestSessionIDManager_UnknownSession(t *testing.T) {
	m := NewSessionIDManager(nil, nil)
	defer m.Stop()

	_, err := m.Validate("not-a-session")
	assert.ErrorIs(t, err, ErrUnknownSession)

	_, err = m.Terminate("not-a-session")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestSessionIDManager_Expire(t *testing.T) {
	m := NewSessionIDManagerWithTimeout(time.Hour, nil, nil)
	defer m.Stop()

	id := m.Generate()

	assert.Equal(t, 0, m.expire(time.Now().Add(-time.Hour)))
	assert.Equal(t, 1, m.expire(time.Now().Add(time.Minute)))

	_, err := m.Validate(id)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.Equal(t, 0, m.ActiveSessions())
}

func TestSessionIDManager_StopIsIdempotent(t *testing.T) {
	m := NewSessionIDManager(nil, nil)
	m.Stop()
	m.Stop()
}
