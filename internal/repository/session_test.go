package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playloop/tictactoe-server/internal/entity"
	"github.com/playloop/tictactoe-server/testing/suite"
)

func TestSessionRepository_Save(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// Given: a session for an authenticated user
	session := &entity.Session{
		Token:    "token-123",
		UserID:   "42",
		Username: "Alice",
	}

	// When: Save is called
	err := sessionRepo.Save(ctx, session, time.Minute)

	// Then: no error should be returned, and the session is stored
	require.NoError(t, err)
}

func TestSessionRepository_GetByToken(t *testing.T) {
	t.Run("GetByToken_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// Given: a stored session
		session := &entity.Session{
			Token:    "token-123",
			UserID:   "42",
			Username: "Alice",
		}

		err := sessionRepo.Save(ctx, session, time.Minute)
		require.NoError(t, err)

		// When: GetByToken is called with the existing token
		retrievedSession, err := sessionRepo.GetByToken(ctx, session.Token)

		// Then: the retrieved session should match the saved session
		require.NoError(t, err)
		require.Equal(t, session.UserID, retrievedSession.UserID)
		require.Equal(t, session.Username, retrievedSession.Username)
	})

	t.Run("GetByToken_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// When: GetByToken is called with a non-existent token
		retrievedSession, err := sessionRepo.GetByToken(ctx, "no-such-token")

		// Then: an ErrSessionNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, ErrSessionNotFound, err)
		assert.Nil(t, retrievedSession)
	})
}

func TestSessionRepository_DeleteByToken(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// Given: a stored session
	session := &entity.Session{
		Token:    "token-123",
		UserID:   "42",
		Username: "Alice",
	}

	err := sessionRepo.Save(ctx, session, time.Minute)
	require.NoError(t, err)

	// When: DeleteByToken is called
	err = sessionRepo.DeleteByToken(ctx, session.Token)
	require.NoError(t, err)

	// Then: the session is gone
	_, err = sessionRepo.GetByToken(ctx, session.Token)
	assert.Equal(t, ErrSessionNotFound, err)
}
