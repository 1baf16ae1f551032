package model

import (
	"time"
)

// DeviceRecord is one observed (account, device identifier) pair.
// The pair is the dedup key; serial and note are enrichment fields set
// through administrative edits, never by the lookup path.
type DeviceRecord struct {
	ID               int64     `db:"id" json:"id"`
	AccountID        int64     `db:"account_id" json:"accountId"`
	DeviceIdentifier string    `db:"device_identifier" json:"deviceIdentifier"`
	Serial           *string   `db:"serial" json:"serial,omitempty"`
	Note             *string   `db:"note" json:"note,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

type UpdateDeviceRecordParams struct {
	Serial *string `json:"serial,omitempty"`
	Note   *string `json:"note,omitempty"`
}
