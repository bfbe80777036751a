package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"finance_tracker/internal/db/dbtest"
	"finance_tracker/internal/service"
	"finance_tracker/internal/session"
)

const cookieName = "session"

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := dbtest.Open(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:          store,
		Auth:        service.NewAuthService(store, session.NewRedisStore(rdb), "test-secret", time.Hour),
		Ledger:      service.NewLedger(store),
		Analytics:   service.NewAnalytics(store),
		Cookie:      CookieConfig{Name: cookieName, TTL: time.Hour},
		CORSOrigins: []string{"http://localhost:3000"},
	})
	return r
}

// do sends a JSON request, attaching the session cookie when one is given.
func do(t *testing.T, r *gin.Engine, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", cookieName)
	return nil
}

// signup registers and logs in a user, returning the session cookie.
func signup(t *testing.T, r *gin.Engine, username string) *http.Cookie {
	t.Helper()
	email := username + "@example.com"
	w := do(t, r, http.MethodPost, "/api/register", gin.H{"username": username, "email": email, "password": "password123"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(t, r, http.MethodPost, "/api/login", gin.H{"email": email, "password": "password123"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

func addTransaction(t *testing.T, r *gin.Engine, cookie *http.Cookie, body gin.H) {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/transactions", body, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
