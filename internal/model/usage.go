package model

import (
	"time"
)

// UsageRecord is an immutable audit entry for one lookup attempt.
// Exactly one record is appended per attempt, success or failure,
// and records are never updated after creation.
type UsageRecord struct {
	ID               int64     `db:"id" json:"id"`
	AccountID        int64     `db:"account_id" json:"accountId"`
	ServiceID        int64     `db:"service_id" json:"serviceId"`
	DeviceIdentifier string    `db:"device_identifier" json:"deviceIdentifier"`
	Success          bool      `db:"success" json:"success"`
	Cost             float64   `db:"cost" json:"cost"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

type CreateUsageRecordParams struct {
	AccountID        int64
	ServiceID        int64
	DeviceIdentifier string
	Success          bool
	Cost             float64
}
