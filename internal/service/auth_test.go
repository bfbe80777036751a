package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/domain"
)

func TestRegister_ReturnsPublicIdentity(t *testing.T) {
	f := newFixture(t)

	u, err := f.auth.Register(context.Background(), RegisterInput{
		Username: " alice ",
		Email:    " Alice@Example.COM ",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")

	var stored domain.User
	require.NoError(t, f.db.First(&stored, u.ID).Error)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]RegisterInput{
		"malformed email":   {Username: "bob", Email: "not-an-email", Password: "pw"},
		"missing username":  {Username: "  ", Email: "bob@example.com", Password: "pw"},
		"long username":     {Username: strings.Repeat("b", 21), Email: "bob@example.com", Password: "pw"},
		"long multibyte":    {Username: strings.Repeat("ö", 21), Email: "bob@example.com", Password: "pw"},
		"missing password":  {Username: "bob", Email: "bob@example.com"},
		"oversize password": {Username: "bob", Email: "bob@example.com", Password: strings.Repeat("p", 73)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.auth.Register(context.Background(), in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestRegister_UsernameLimitCountsCharacters(t *testing.T) {
	f := newFixture(t)
	name := strings.Repeat("ö", 20) // 40 bytes, 20 characters
	user, err := f.auth.Register(context.Background(), RegisterInput{
		Username: name,
		Email:    "oskar@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, name, user.Username)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	_, err := f.auth.Register(context.Background(), RegisterInput{
		Username: "alice2",
		Email:    "ALICE@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	var count int64
	require.NoError(t, f.db.Model(&domain.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	_, err := f.auth.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")
	ctx := context.Background()

	res, err := f.auth.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u, res.User)
	assert.NotEmpty(t, res.Token)

	claims, err := f.auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, res.SessionID, claims.SessionID)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	_, err := f.auth.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Login(context.Background(), "ghost@example.com", "password123")
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	ctx := context.Background()

	res, err := f.auth.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, res.SessionID))

	_, err = f.auth.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestAuthenticate_RejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")

	got, err := f.auth.CurrentUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = f.auth.CurrentUser(context.Background(), u.ID+100)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestDeleteUser_RemovesTransactionsAndSessions(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")
	ctx := context.Background()
	f.record(t, u.ID, domain.KindIncome, "100", "salary", "2024-01-05")

	res, err := f.auth.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, f.auth.DeleteUser(ctx, u.ID))

	_, err = f.auth.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, apperr.ErrAuth)

	txs, err := f.ledger.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)

	assert.ErrorIs(t, f.auth.DeleteUser(ctx, u.ID), apperr.ErrNotFound)
}

func TestFindByEmail(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")

	got, err := f.auth.FindByEmail(context.Background(), "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.auth.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
