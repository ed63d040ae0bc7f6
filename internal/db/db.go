package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"tradesphere/internal/config"
)

func InitDB(cfg config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	// Create tables if they don't exist
	if err = createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %v", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			balance DECIMAL(10,2) NOT NULL DEFAULT 10000.00,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			role TEXT NOT NULL DEFAULT 'user',
			CONSTRAINT valid_role CHECK (role IN ('user', 'admin'))
		);

		CREATE TABLE IF NOT EXISTS transactions (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			type VARCHAR(20) NOT NULL,
			amount DECIMAL(10,2) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			approved_by INTEGER REFERENCES users(id),
			approved_at TIMESTAMP,
			CONSTRAINT valid_transaction_type CHECK (type IN ('deposit', 'withdrawal')),
			CONSTRAINT valid_status CHECK (status IN ('pending', 'completed', 'failed')),
			CONSTRAINT positive_amount CHECK (amount > 0)
		);

		CREATE TABLE IF NOT EXISTS trades (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			symbol TEXT NOT NULL,
			type VARCHAR(10) NOT NULL,
			amount DECIMAL(10,2) NOT NULL,
			price DECIMAL(10,4) NOT NULL,
			timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT valid_trade_type CHECK (type IN ('buy', 'sell'))
		);

		CREATE TABLE IF NOT EXISTS investments (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			plan_name TEXT NOT NULL,
			amount DECIMAL(10,2) NOT NULL,
			start_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			end_date TIMESTAMP NOT NULL
		);

		CREATE TABLE IF NOT EXISTS copy_trades (
			id SERIAL PRIMARY KEY,
			follower_id INTEGER NOT NULL REFERENCES users(id),
			trader_id INTEGER NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS admin_logs (
			id SERIAL PRIMARY KEY,
			admin_id INTEGER NOT NULL REFERENCES users(id),
			action TEXT NOT NULL,
			details TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);
		CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status);
		CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id);
		CREATE INDEX IF NOT EXISTS idx_investments_user ON investments(user_id);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_copy_trades_active
			ON copy_trades(follower_id, trader_id) WHERE active;
	`

	_, err := db.Exec(query)
	return err
}
