package models

type CopyTrade struct {
	ID         int64 `json:"id"`
	FollowerID int64 `json:"followerId"`
	TraderID   int64 `json:"traderId"`
	Active     bool  `json:"active"`
}

type CreateCopyTradeRequest struct {
	TraderID int64 `json:"traderId" validate:"required,gt=0"`
}
