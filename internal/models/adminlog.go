package models

import "time"

// AdminLog is an append-only audit record of administrator actions.
// Details holds a JSON payload describing the affected entity.
type AdminLog struct {
	ID        int64     `json:"id"`
	AdminID   int64     `json:"adminId"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}
