package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Password   string `json:"-"`
	Balance    Amount `json:"balance"`
	IsVerified bool   `json:"isVerified"`
	Role       string `json:"role"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

type PlatformStats struct {
	TotalUsers          int64  `json:"totalUsers"`
	VerifiedUsers       int64  `json:"verifiedUsers"`
	PendingTransactions int64  `json:"pendingTransactions"`
	TotalTrades         int64  `json:"totalTrades"`
	TotalInvested       Amount `json:"totalInvested"`
	TotalBalance        Amount `json:"totalBalance"`
}
