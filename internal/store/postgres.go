package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"tradesphere/internal/ledger"
	"tradesphere/internal/models"
)

const uniqueViolation = "23505"

// Store is the Postgres-backed Storage implementation. Every mutation
// that touches both a record table and a user balance runs in a single
// SQL transaction with the user row locked FOR UPDATE, so concurrent
// approvals and trades for the same user serialize.
type Store struct {
	db     *sql.DB
	policy ledger.TradePolicy
}

func New(db *sql.DB, policy ledger.TradePolicy) *Store {
	return &Store{db: db, policy: policy}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

const userColumns = "id, username, password, balance, is_verified, role"

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Balance, &u.IsVerified, &u.Role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1", username)
	return scanUser(row)
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING `+userColumns, username, passwordHash)
	u, err := scanUser(row)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.Balance, &u.IsVerified, &u.Role); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) VerifyUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET is_verified = TRUE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("verifying user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const transactionColumns = "id, user_id, type, amount, status, timestamp, approved_by, approved_at"

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status,
			&t.Timestamp, &t.ApprovedBy, &t.ApprovedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *Store) CreateTransaction(ctx context.Context, userID int64, txType string, amount decimal.Decimal) (*models.Transaction, error) {
	t := models.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: models.NewAmount(amount),
		Status: models.StatusPending,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, type, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp`,
		userID, txType, amount, models.StatusPending).Scan(&t.ID, &t.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	return &t, nil
}

func (s *Store) ListUserTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = $1 ORDER BY id", userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *Store) ListPendingTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE status = $1 ORDER BY id",
		models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("listing pending transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ApproveTransaction completes a pending deposit or withdrawal and
// applies its ledger effect to the owner's balance. The status flip,
// the balance write and the audit log entry commit or roll back
// together. Approving a transaction that is no longer pending fails
// with ErrNotPending.
func (s *Store) ApproveTransaction(ctx context.Context, id, adminID int64) (*models.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning approval: %w", err)
	}
	defer tx.Rollback()

	var t models.Transaction
	err = tx.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1 FOR UPDATE", id).
		Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &t.Timestamp, &t.ApprovedBy, &t.ApprovedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading transaction: %w", err)
	}
	if t.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx,
		"SELECT balance FROM users WHERE id = $1 FOR UPDATE", t.UserID).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading user balance: %w", err)
	}

	newBalance, err := ledger.ApplyTransaction(balance, t.Type, t.Amount.Decimal)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = $1, approved_by = $2, approved_at = $3
		WHERE id = $4`,
		models.StatusCompleted, adminID, now, id)
	if err != nil {
		return nil, fmt.Errorf("updating transaction status: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE users SET balance = $1 WHERE id = $2", newBalance, t.UserID)
	if err != nil {
		return nil, fmt.Errorf("updating balance: %w", err)
	}

	details, err := json.Marshal(map[string]any{
		"transactionId": t.ID,
		"userId":        t.UserID,
		"type":          t.Type,
		"amount":        t.Amount,
		"newBalance":    newBalance.StringFixed(2),
	})
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO admin_logs (admin_id, action, details) VALUES ($1, $2, $3)",
		adminID, "approve_transaction", string(details))
	if err != nil {
		return nil, fmt.Errorf("writing admin log: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing approval: %w", err)
	}

	t.Status = models.StatusCompleted
	t.ApprovedBy = &adminID
	t.ApprovedAt = &now
	return &t, nil
}

// ExecuteTrade records a trade and debits (or, under the
// direction-aware policy, credits) the user's cash balance in one
// transaction.
func (s *Store) ExecuteTrade(ctx context.Context, userID int64, symbol, side string, amount, price decimal.Decimal) (*models.Trade, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning trade: %w", err)
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx,
		"SELECT balance FROM users WHERE id = $1 FOR UPDATE", userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading user balance: %w", err)
	}

	cost := ledger.TradeCost(amount, price)
	newBalance, err := ledger.ApplyTrade(balance, side, cost, s.policy)
	if err != nil {
		return nil, err
	}

	trade := models.Trade{
		UserID: userID,
		Symbol: symbol,
		Type:   side,
		Amount: models.NewAmount(amount),
		Price:  models.NewPrice(price),
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO trades (user_id, symbol, type, amount, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, timestamp`,
		userID, symbol, side, amount, price).Scan(&trade.ID, &trade.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("creating trade: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE users SET balance = $1 WHERE id = $2", newBalance, userID)
	if err != nil {
		return nil, fmt.Errorf("updating balance: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing trade: %w", err)
	}
	return &trade, nil
}

func (s *Store) ListUserTrades(ctx context.Context, userID int64) ([]models.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, symbol, type, amount, price, timestamp
		FROM trades WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &t.Type, &t.Amount, &t.Price, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning trade: %w", err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// CreateInvestment places funds into a fixed-term plan, debiting the
// balance in the same transaction as the insert.
func (s *Store) CreateInvestment(ctx context.Context, userID int64, planName string, amount decimal.Decimal, endDate time.Time) (*models.Investment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning investment: %w", err)
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx,
		"SELECT balance FROM users WHERE id = $1 FOR UPDATE", userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading user balance: %w", err)
	}

	newBalance, err := ledger.ApplyInvestment(balance, amount)
	if err != nil {
		return nil, err
	}

	inv := models.Investment{
		UserID:   userID,
		PlanName: planName,
		Amount:   models.NewAmount(amount),
		EndDate:  endDate,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO investments (user_id, plan_name, amount, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, start_date`,
		userID, planName, amount, endDate).Scan(&inv.ID, &inv.StartDate)
	if err != nil {
		return nil, fmt.Errorf("creating investment: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE users SET balance = $1 WHERE id = $2", newBalance, userID)
	if err != nil {
		return nil, fmt.Errorf("updating balance: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing investment: %w", err)
	}
	return &inv, nil
}

func (s *Store) ListUserInvestments(ctx context.Context, userID int64) ([]models.Investment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, plan_name, amount, start_date, end_date
		FROM investments WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}
	defer rows.Close()

	var invs []models.Investment
	for rows.Next() {
		var inv models.Investment
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.PlanName, &inv.Amount, &inv.StartDate, &inv.EndDate); err != nil {
			return nil, fmt.Errorf("scanning investment: %w", err)
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func (s *Store) CreateCopyTrade(ctx context.Context, followerID, traderID int64) (*models.CopyTrade, error) {
	ct := models.CopyTrade{FollowerID: followerID, TraderID: traderID, Active: true}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO copy_trades (follower_id, trader_id)
		VALUES ($1, $2)
		RETURNING id`, followerID, traderID).Scan(&ct.ID)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateCopyTrade
	}
	if err != nil {
		return nil, fmt.Errorf("creating copy trade: %w", err)
	}
	return &ct, nil
}

func (s *Store) ListActiveCopyTrades(ctx context.Context, followerID int64) ([]models.CopyTrade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, follower_id, trader_id, active
		FROM copy_trades WHERE follower_id = $1 AND active ORDER BY id`, followerID)
	if err != nil {
		return nil, fmt.Errorf("listing copy trades: %w", err)
	}
	defer rows.Close()

	var cts []models.CopyTrade
	for rows.Next() {
		var ct models.CopyTrade
		if err := rows.Scan(&ct.ID, &ct.FollowerID, &ct.TraderID, &ct.Active); err != nil {
			return nil, fmt.Errorf("scanning copy trade: %w", err)
		}
		cts = append(cts, ct)
	}
	return cts, rows.Err()
}

// DeactivateCopyTrade flips the active flag. The follower id in the
// predicate is the ownership guard: callers can only deactivate their
// own links.
func (s *Store) DeactivateCopyTrade(ctx context.Context, id, followerID int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE copy_trades SET active = FALSE
		WHERE id = $1 AND follower_id = $2 AND active`, id, followerID)
	if err != nil {
		return fmt.Errorf("deactivating copy trade: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateAdminLog(ctx context.Context, adminID int64, action, details string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO admin_logs (admin_id, action, details) VALUES ($1, $2, $3)",
		adminID, action, details)
	if err != nil {
		return fmt.Errorf("writing admin log: %w", err)
	}
	return nil
}

func (s *Store) ListAdminLogs(ctx context.Context) ([]models.AdminLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, admin_id, action, details, timestamp
		FROM admin_logs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing admin logs: %w", err)
	}
	defer rows.Close()

	var logs []models.AdminLog
	for rows.Next() {
		var l models.AdminLog
		if err := rows.Scan(&l.ID, &l.AdminID, &l.Action, &l.Details, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning admin log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) Stats(ctx context.Context) (*models.PlatformStats, error) {
	var (
		st            models.PlatformStats
		totalInvested decimal.Decimal
		totalBalance  decimal.Decimal
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_verified),
			(SELECT COUNT(*) FROM transactions WHERE status = 'pending'),
			(SELECT COUNT(*) FROM trades),
			(SELECT COALESCE(SUM(amount), 0) FROM investments),
			(SELECT COALESCE(SUM(balance), 0) FROM users)`).
		Scan(&st.TotalUsers, &st.VerifiedUsers, &st.PendingTransactions,
			&st.TotalTrades, &totalInvested, &totalBalance)
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	st.TotalInvested = models.NewAmount(totalInvested)
	st.TotalBalance = models.NewAmount(totalBalance)
	return &st, nil
}
