package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"tradesphere/internal/ledger"
	"tradesphere/internal/models"
	"tradesphere/internal/store"
)

// fakeStore is an in-memory Storage implementation backing the handler
// tests. Balance arithmetic goes through the same ledger package as
// the Postgres store.
type fakeStore struct {
	users      map[int64]*models.User
	txs        map[int64]*models.Transaction
	trades     []models.Trade
	invs       []models.Investment
	copyTrades map[int64]*models.CopyTrade
	logs       []models.AdminLog
	policy     ledger.TradePolicy
	nextID     int64
}

var _ store.Storage = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[int64]*models.User),
		txs:        make(map[int64]*models.Transaction),
		copyTrades: make(map[int64]*models.CopyTrade),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreateUser(_ context.Context, username, passwordHash string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return nil, store.ErrDuplicateUsername
		}
	}
	u := &models.User{
		ID:       f.id(),
		Username: username,
		Password: passwordHash,
		Balance:  models.Amount{Decimal: decimal.RequireFromString("10000.00")},
		Role:     models.RoleUser,
	}
	f.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (f *fakeStore) ListUsers(_ context.Context) ([]models.User, error) {
	var users []models.User
	for id := int64(1); id <= f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (f *fakeStore) VerifyUser(_ context.Context, id int64) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.IsVerified = true
	return nil
}

func (f *fakeStore) CreateTransaction(_ context.Context, userID int64, txType string, amount decimal.Decimal) (*models.Transaction, error) {
	t := &models.Transaction{
		ID:        f.id(),
		UserID:    userID,
		Type:      txType,
		Amount:    models.NewAmount(amount),
		Status:    models.StatusPending,
		Timestamp: time.Now().UTC(),
	}
	f.txs[t.ID] = t
	copied := *t
	return &copied, nil
}

func (f *fakeStore) ListUserTransactions(_ context.Context, userID int64) ([]models.Transaction, error) {
	var txs []models.Transaction
	for id := int64(1); id <= f.nextID; id++ {
		if t, ok := f.txs[id]; ok && t.UserID == userID {
			txs = append(txs, *t)
		}
	}
	return txs, nil
}

func (f *fakeStore) ListPendingTransactions(_ context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	for id := int64(1); id <= f.nextID; id++ {
		if t, ok := f.txs[id]; ok && t.Status == models.StatusPending {
			txs = append(txs, *t)
		}
	}
	return txs, nil
}

func (f *fakeStore) ApproveTransaction(_ context.Context, id, adminID int64) (*models.Transaction, error) {
	t, ok := f.txs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if t.Status != models.StatusPending {
		return nil, store.ErrNotPending
	}
	u, ok := f.users[t.UserID]
	if !ok {
		return nil, store.ErrNotFound
	}

	newBalance, err := ledger.ApplyTransaction(u.Balance.Decimal, t.Type, t.Amount.Decimal)
	if err != nil {
		return nil, err
	}
	u.Balance = models.NewAmount(newBalance)

	now := time.Now().UTC()
	t.Status = models.StatusCompleted
	t.ApprovedBy = &adminID
	t.ApprovedAt = &now

	details, _ := json.Marshal(map[string]any{"transactionId": t.ID})
	f.logs = append(f.logs, models.AdminLog{
		ID: f.id(), AdminID: adminID, Action: "approve_transaction",
		Details: string(details), Timestamp: now,
	})

	copied := *t
	return &copied, nil
}

func (f *fakeStore) ExecuteTrade(_ context.Context, userID int64, symbol, side string, amount, price decimal.Decimal) (*models.Trade, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}

	cost := ledger.TradeCost(amount, price)
	newBalance, err := ledger.ApplyTrade(u.Balance.Decimal, side, cost, f.policy)
	if err != nil {
		return nil, err
	}
	u.Balance = models.NewAmount(newBalance)

	trade := models.Trade{
		ID:        f.id(),
		UserID:    userID,
		Symbol:    symbol,
		Type:      side,
		Amount:    models.NewAmount(amount),
		Price:     models.NewPrice(price),
		Timestamp: time.Now().UTC(),
	}
	f.trades = append(f.trades, trade)
	return &trade, nil
}

func (f *fakeStore) ListUserTrades(_ context.Context, userID int64) ([]models.Trade, error) {
	var trades []models.Trade
	for _, t := range f.trades {
		if t.UserID == userID {
			trades = append(trades, t)
		}
	}
	return trades, nil
}

func (f *fakeStore) CreateInvestment(_ context.Context, userID int64, planName string, amount decimal.Decimal, endDate time.Time) (*models.Investment, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}

	newBalance, err := ledger.ApplyInvestment(u.Balance.Decimal, amount)
	if err != nil {
		return nil, err
	}
	u.Balance = models.NewAmount(newBalance)

	inv := models.Investment{
		ID:        f.id(),
		UserID:    userID,
		PlanName:  planName,
		Amount:    models.NewAmount(amount),
		StartDate: time.Now().UTC(),
		EndDate:   endDate,
	}
	f.invs = append(f.invs, inv)
	return &inv, nil
}

func (f *fakeStore) ListUserInvestments(_ context.Context, userID int64) ([]models.Investment, error) {
	var invs []models.Investment
	for _, inv := range f.invs {
		if inv.UserID == userID {
			invs = append(invs, inv)
		}
	}
	return invs, nil
}

func (f *fakeStore) CreateCopyTrade(_ context.Context, followerID, traderID int64) (*models.CopyTrade, error) {
	for _, ct := range f.copyTrades {
		if ct.FollowerID == followerID && ct.TraderID == traderID && ct.Active {
			return nil, store.ErrDuplicateCopyTrade
		}
	}
	ct := &models.CopyTrade{ID: f.id(), FollowerID: followerID, TraderID: traderID, Active: true}
	f.copyTrades[ct.ID] = ct
	copied := *ct
	return &copied, nil
}

func (f *fakeStore) ListActiveCopyTrades(_ context.Context, followerID int64) ([]models.CopyTrade, error) {
	var cts []models.CopyTrade
	for id := int64(1); id <= f.nextID; id++ {
		if ct, ok := f.copyTrades[id]; ok && ct.FollowerID == followerID && ct.Active {
			cts = append(cts, *ct)
		}
	}
	return cts, nil
}

func (f *fakeStore) DeactivateCopyTrade(_ context.Context, id, followerID int64) error {
	ct, ok := f.copyTrades[id]
	if !ok || ct.FollowerID != followerID || !ct.Active {
		return store.ErrNotFound
	}
	ct.Active = false
	return nil
}

func (f *fakeStore) CreateAdminLog(_ context.Context, adminID int64, action, details string) error {
	f.logs = append(f.logs, models.AdminLog{
		ID: f.id(), AdminID: adminID, Action: action,
		Details: details, Timestamp: time.Now().UTC(),
	})
	return nil
}

func (f *fakeStore) ListAdminLogs(_ context.Context) ([]models.AdminLog, error) {
	logs := make([]models.AdminLog, len(f.logs))
	copy(logs, f.logs)
	return logs, nil
}

func (f *fakeStore) Stats(_ context.Context) (*models.PlatformStats, error) {
	st := models.PlatformStats{TotalTrades: int64(len(f.trades))}
	totalBalance := decimal.Zero
	for _, u := range f.users {
		st.TotalUsers++
		if u.IsVerified {
			st.VerifiedUsers++
		}
		totalBalance = totalBalance.Add(u.Balance.Decimal)
	}
	for _, t := range f.txs {
		if t.Status == models.StatusPending {
			st.PendingTransactions++
		}
	}
	totalInvested := decimal.Zero
	for _, inv := range f.invs {
		totalInvested = totalInvested.Add(inv.Amount.Decimal)
	}
	st.TotalInvested = models.NewAmount(totalInvested)
	st.TotalBalance = models.NewAmount(totalBalance)
	return &st, nil
}
