package pgauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/neduet/campus-api/internal/data"
	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/domain/model"
	"github.com/neduet/campus-api/internal/ports"
	"github.com/neduet/campus-api/internal/testutil"
)

func seedUser(t *testing.T, repo *data.UserRepo, role domainauth.Role, email, password string) *model.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	sem := 3
	req := &model.CreateUserRequest{
		Email:    email,
		Name:     "Test User",
		Role:     role,
		Password: password,
	}
	if role.IsStudent() {
		req.Semester = &sem
	}
	user, err := repo.Create(context.Background(), req, hash)
	require.NoError(t, err)
	return user
}

func TestAuthenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := data.NewUserRepo(db)
	provider := NewProvider(repo)
	ctx := context.Background()

	user := seedUser(t, repo, domainauth.RoleUndergrad, "ug@campus.edu", "correct horse")

	t.Run("valid credentials", func(t *testing.T) {
		id, err := provider.Authenticate(ctx, ports.Credentials{
			Email:    "ug@campus.edu",
			Password: "correct horse",
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID, id.UserID)
		assert.Equal(t, domainauth.RoleUndergrad, id.Role)
		assert.False(t, id.ExpiresAt.IsZero())
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, ports.Credentials{
			Email:    "ug@campus.edu",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, ports.Credentials{
			Email:    "nobody@campus.edu",
			Password: "correct horse",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("role pinning rejects other login surface", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, ports.Credentials{
			Email:      "ug@campus.edu",
			Password:   "correct horse",
			ExpectRole: domainauth.RolePostgrad,
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("staff surface rejects student accounts", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, ports.Credentials{
			Email:          "ug@campus.edu",
			Password:       "correct horse",
			RejectStudents: true,
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("staff surface accepts non-student roles", func(t *testing.T) {
		seedUser(t, repo, domainauth.RoleTeacher, "prof@campus.edu", "chalk dust")
		id, err := provider.Authenticate(ctx, ports.Credentials{
			Email:          "prof@campus.edu",
			Password:       "chalk dust",
			RejectStudents: true,
		})
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleTeacher, id.Role)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := provider.Authenticate(ctx, ports.Credentials{})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("a strong one")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("a strong one")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("another")))
}
