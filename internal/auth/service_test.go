package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/booksread/internal/config"
	"github.com/mrlokans/booksread/internal/database"
	"github.com/mrlokans/booksread/internal/entities"
)

// setupTestService creates a fresh test database and auth service
func setupTestService(t *testing.T) (*Service, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	service := NewService(db.DB, config.Auth{
		Mode:       config.AuthModeLocal,
		BcryptCost: bcrypt.MinCost, // keep tests fast
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return service, cleanup
}

func TestCreateUser(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	t.Run("creates a valid user", func(t *testing.T) {
		user, err := service.CreateUser("alice", "alice@example.com", "a-long-enough-password", entities.UserRoleAdmin)
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, entities.UserRoleAdmin, user.Role)
		assert.NotEqual(t, "a-long-enough-password", user.PasswordHash)
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		_, err := service.CreateUser("alice", "other@example.com", "a-long-enough-password", entities.UserRoleMember)
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("validates input", func(t *testing.T) {
		cases := []struct {
			name     string
			username string
			email    string
			password string
			wantErr  error
		}{
			{"empty username", "", "a@example.com", "a-long-enough-password", ErrUsernameRequired},
			{"empty password", "bob", "a@example.com", "", ErrPasswordRequired},
			{"username with spaces", "bob smith", "a@example.com", "a-long-enough-password", ErrUsernameInvalid},
			{"username too short", "ab", "a@example.com", "a-long-enough-password", ErrUsernameInvalid},
			{"malformed email", "bob", "not-an-email", "a-long-enough-password", ErrEmailInvalid},
			{"short password", "bob", "a@example.com", "short", ErrPasswordTooShort},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := service.CreateUser(tc.username, tc.email, tc.password, entities.UserRoleMember)
				assert.ErrorIs(t, err, tc.wantErr)
			})
		}
	})
}

func TestAuthenticate(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.CreateUser("carol", "carol@example.com", "a-long-enough-password", entities.UserRoleMember)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := service.Authenticate("carol", "a-long-enough-password")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate("carol", "not-the-password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown user gets the same error as a wrong password", func(t *testing.T) {
		_, err := service.Authenticate("nobody", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})
}

func TestHasUsers(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	hasUsers, err := service.HasUsers()
	require.NoError(t, err)
	assert.False(t, hasUsers)

	_, err = service.CreateUser("dave", "dave@example.com", "a-long-enough-password", entities.UserRoleAdmin)
	require.NoError(t, err)

	hasUsers, err = service.HasUsers()
	require.NoError(t, err)
	assert.True(t, hasUsers)
}

func TestGetUserByID(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.CreateUser("erin", "erin@example.com", "a-long-enough-password", entities.UserRoleMember)
	require.NoError(t, err)

	user, err := service.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "erin", user.Username)

	_, err = service.GetUserByID(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
