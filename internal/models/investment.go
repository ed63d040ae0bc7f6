package models

import "time"

type Investment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	PlanName  string    `json:"planName"`
	Amount    Amount    `json:"amount"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type CreateInvestmentRequest struct {
	PlanName string    `json:"planName" validate:"required,min=1,max=100"`
	Amount   Amount    `json:"amount" validate:"-"`
	EndDate  time.Time `json:"endDate" validate:"required"`
}
