package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	theaterID := uuid.New()

	t.Run("creates pending user with hashed password", func(t *testing.T) {
		user, err := NewUser(theaterID, "Cashier01", "secret123")
		require.NoError(t, err)

		assert.Equal(t, "cashier01", user.Username)
		assert.Equal(t, theaterID, user.TheaterID)
		assert.Equal(t, UserStatusPending, user.Status)
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("secret123"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("active user can login immediately", func(t *testing.T) {
		user, err := NewActiveUser(theaterID, "manager", "secret123")
		require.NoError(t, err)
		assert.True(t, user.CanLogin())
	})

	t.Run("rejects short username", func(t *testing.T) {
		_, err := NewUser(theaterID, "ab", "secret123")
		require.Error(t, err)
	})

	t.Run("rejects password without a number", func(t *testing.T) {
		_, err := NewUser(theaterID, "cashier", "onlyletters")
		require.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser(theaterID, "cashier", "a1")
		require.Error(t, err)
	})
}

func TestUserPassword(t *testing.T) {
	user, err := NewActiveUser(uuid.New(), "cashier", "secret123")
	require.NoError(t, err)

	t.Run("change with correct old password", func(t *testing.T) {
		require.NoError(t, user.ChangePassword("secret123", "newpass456"))
		assert.True(t, user.VerifyPassword("newpass456"))
	})

	t.Run("change with wrong old password fails", func(t *testing.T) {
		require.Error(t, user.ChangePassword("wrong", "another123"))
	})

	t.Run("admin reset clears forced change flag", func(t *testing.T) {
		user.ForcePasswordChange()
		require.True(t, user.MustChangePassword)
		require.NoError(t, user.SetPassword("reset789a"))
		assert.False(t, user.MustChangePassword)
	})
}

func TestUserRoles(t *testing.T) {
	user, err := NewActiveUser(uuid.New(), "cashier", "secret123")
	require.NoError(t, err)
	roleID := uuid.New()

	t.Run("assign and check", func(t *testing.T) {
		require.NoError(t, user.AssignRole(roleID))
		assert.True(t, user.HasRole(roleID))
	})

	t.Run("duplicate assignment fails", func(t *testing.T) {
		require.Error(t, user.AssignRole(roleID))
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, user.RemoveRole(roleID))
		assert.False(t, user.HasRole(roleID))
		require.Error(t, user.RemoveRole(roleID))
	})

	t.Run("set roles deduplicates", func(t *testing.T) {
		a, b := uuid.New(), uuid.New()
		require.NoError(t, user.SetRoles([]uuid.UUID{a, b, a}))
		assert.Len(t, user.RoleIDs, 2)
	})
}

func TestUserLockout(t *testing.T) {
	t.Run("locks after max failed attempts", func(t *testing.T) {
		user, err := NewActiveUser(uuid.New(), "cashier", "secret123")
		require.NoError(t, err)

		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.True(t, user.RecordLoginFailure(3, time.Hour))

		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock no longer blocks login", func(t *testing.T) {
		user, err := NewActiveUser(uuid.New(), "cashier", "secret123")
		require.NoError(t, err)
		require.NoError(t, user.Lock(-time.Minute))

		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("successful login resets counters", func(t *testing.T) {
		user, err := NewActiveUser(uuid.New(), "cashier", "secret123")
		require.NoError(t, err)
		user.RecordLoginFailure(5, time.Hour)

		user.RecordLoginSuccess("10.0.0.1")
		assert.Zero(t, user.FailedAttempts)
		assert.Equal(t, "10.0.0.1", user.LastLoginIP)
		require.NotNil(t, user.LastLoginAt)
	})

	t.Run("deactivated user cannot be locked", func(t *testing.T) {
		user, err := NewActiveUser(uuid.New(), "cashier", "secret123")
		require.NoError(t, err)
		require.NoError(t, user.Deactivate())
		require.Error(t, user.Lock(time.Hour))
		assert.False(t, user.CanLogin())
	})
}
