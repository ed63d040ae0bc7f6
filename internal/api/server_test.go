package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tradesphere/internal/middleware"
	"tradesphere/internal/models"
)

const (
	testSecret   = "test-secret"
	testPassword = "password123"
)

func newTestServer(t *testing.T) (*Server, *fakeStore) {
	t.Helper()
	fs := newFakeStore()
	return NewServer(fs, zap.NewNop(), []byte(testSecret)), fs
}

func seedUser(t *testing.T, fs *fakeStore, username, role string, verified bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		ID:         fs.id(),
		Username:   username,
		Password:   string(hash),
		Balance:    models.Amount{Decimal: decimal.RequireFromString("10000.00")},
		IsVerified: verified,
		Role:       role,
	}
	fs.users[u.ID] = u
	return u
}

func authToken(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, err := middleware.GenerateToken([]byte(testSecret), userID, role)
	require.NoError(t, err)
	return token
}

// doJSON performs a request against the full router. body may be a
// struct to marshal or a raw JSON string.
func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}
