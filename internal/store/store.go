// Package store owns all persistence for the brokerage: users,
// transactions, trades, investments, copy-trades and the admin audit
// log. The Storage interface is what handlers program against; the
// Postgres implementation lives in this package and tests substitute
// an in-memory fake.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tradesphere/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateCopyTrade = errors.New("already copying this trader")
	ErrNotPending         = errors.New("transaction is not pending")
)

type Storage interface {
	// Users
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	VerifyUser(ctx context.Context, id int64) error

	// Transaction workflow
	CreateTransaction(ctx context.Context, userID int64, txType string, amount decimal.Decimal) (*models.Transaction, error)
	ListUserTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)
	ListPendingTransactions(ctx context.Context) ([]models.Transaction, error)
	ApproveTransaction(ctx context.Context, id, adminID int64) (*models.Transaction, error)

	// Trades
	ExecuteTrade(ctx context.Context, userID int64, symbol, side string, amount, price decimal.Decimal) (*models.Trade, error)
	ListUserTrades(ctx context.Context, userID int64) ([]models.Trade, error)

	// Investments
	CreateInvestment(ctx context.Context, userID int64, planName string, amount decimal.Decimal, endDate time.Time) (*models.Investment, error)
	ListUserInvestments(ctx context.Context, userID int64) ([]models.Investment, error)

	// Copy trading
	CreateCopyTrade(ctx context.Context, followerID, traderID int64) (*models.CopyTrade, error)
	ListActiveCopyTrades(ctx context.Context, followerID int64) ([]models.CopyTrade, error)
	DeactivateCopyTrade(ctx context.Context, id, followerID int64) error

	// Admin
	CreateAdminLog(ctx context.Context, adminID int64, action, details string) error
	ListAdminLogs(ctx context.Context) ([]models.AdminLog, error)
	Stats(ctx context.Context) (*models.PlatformStats, error)
}
