package models

import "time"

const (
	TransactionDeposit    = "deposit"
	TransactionWithdrawal = "withdrawal"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Transaction struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	Type       string     `json:"type"`
	Amount     Amount     `json:"amount"`
	Status     string     `json:"status"`
	Timestamp  time.Time  `json:"timestamp"`
	ApprovedBy *int64     `json:"approvedBy"`
	ApprovedAt *time.Time `json:"approvedAt"`
}

type CreateTransactionRequest struct {
	Type   string `json:"type" validate:"required,oneof=deposit withdrawal"`
	Amount Amount `json:"amount" validate:"-"`
}
