package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"finance_tracker/internal/db/dbtest"
	"finance_tracker/internal/domain"
	"finance_tracker/internal/session"
)

const testSecret = "test-secret"

// fixture wires every service to one in-memory store.
type fixture struct {
	db        *gorm.DB
	redis     *miniredis.Miniredis
	auth      *AuthService
	ledger    *Ledger
	analytics *Analytics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := dbtest.Open(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &fixture{
		db:        store,
		redis:     mr,
		auth:      NewAuthService(store, session.NewRedisStore(rdb), testSecret, time.Hour),
		ledger:    NewLedger(store),
		analytics: NewAnalytics(store),
	}
}

func (f *fixture) register(t *testing.T, username string) domain.PublicUser {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) record(t *testing.T, userID uint, kind domain.Kind, amount, category, date string) *domain.Transaction {
	t.Helper()
	d, err := ParseDate(date)
	require.NoError(t, err)
	tx, err := f.ledger.Create(context.Background(), userID, CreateTransactionInput{
		Type:     kind,
		Amount:   dec(amount),
		Category: category,
		Date:     d,
	})
	require.NoError(t, err)
	return tx
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
