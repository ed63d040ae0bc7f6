package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesphere/internal/models"
)

func futureDate() string {
	return time.Now().AddDate(0, 1, 0).UTC().Format(time.RFC3339)
}

func TestCreateInvestment(t *testing.T) {
	srv, fs := newTestServer(t)
	alice := seedUser(t, fs, "alice", models.RoleUser, true)

	payload := fmt.Sprintf(`{"planName":"Gold Plan","amount":"2500.00","endDate":%q}`, futureDate())
	w := doJSON(t, srv, http.MethodPost, "/api/investments", authToken(t, alice.ID, alice.Role), payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var inv models.Investment
	decodeBody(t, w, &inv)
	assert.Equal(t, "Gold Plan", inv.PlanName)
	assert.Equal(t, "2500.00", inv.Amount.StringFixed(2))
	assert.True(t, inv.EndDate.After(inv.StartDate))
	assert.Equal(t, "7500.00", fs.users[alice.ID].Balance.StringFixed(2))
}

func TestCreateInvestmentValidation(t *testing.T) {
	srv, fs := newTestServer(t)
	alice := seedUser(t, fs, "alice", models.RoleUser, true)
	token := authToken(t, alice.ID, alice.Role)

	past := time.Now().AddDate(0, -1, 0).UTC().Format(time.RFC3339)
	tests := []struct {
		name    string
		payload string
	}{
		{"past end date", fmt.Sprintf(`{"planName":"Gold Plan","amount":"100.00","endDate":%q}`, past)},
		{"zero amount", fmt.Sprintf(`{"planName":"Gold Plan","amount":"0","endDate":%q}`, futureDate())},
		{"missing plan name", fmt.Sprintf(`{"amount":"100.00","endDate":%q}`, futureDate())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodPost, "/api/investments", token, tt.payload)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, fs.invs)
}

func TestCreateInvestmentInsufficientFunds(t *testing.T) {
	srv, fs := newTestServer(t)
	alice := seedUser(t, fs, "alice", models.RoleUser, true)

	payload := fmt.Sprintf(`{"planName":"Gold Plan","amount":"20000.00","endDate":%q}`, futureDate())
	w := doJSON(t, srv, http.MethodPost, "/api/investments", authToken(t, alice.ID, alice.Role), payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "10000.00", fs.users[alice.ID].Balance.StringFixed(2))
}

func TestListInvestments(t *testing.T) {
	srv, fs := newTestServer(t)
	alice := seedUser(t, fs, "alice", models.RoleUser, true)
	token := authToken(t, alice.ID, alice.Role)

	payload := fmt.Sprintf(`{"planName":"Silver Plan","amount":"500.00","endDate":%q}`, futureDate())
	doJSON(t, srv, http.MethodPost, "/api/investments", token, payload)

	w := doJSON(t, srv, http.MethodGet, "/api/investments", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var invs []models.Investment
	decodeBody(t, w, &invs)
	require.Len(t, invs, 1)
	assert.Equal(t, "Silver Plan", invs[0].PlanName)
}
