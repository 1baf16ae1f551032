package model

import (
	"time"
)

// Payment is a record-keeping entry for money received outside the
// gateway. The account reference is optional so payments survive
// account deletion.
type Payment struct {
	ID        int64     `db:"id" json:"id"`
	AccountID *int64    `db:"account_id" json:"accountId,omitempty"`
	Amount    float64   `db:"amount" json:"amount"`
	Method    string    `db:"method" json:"method"`
	Note      *string   `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreatePaymentParams struct {
	AccountID *int64  `json:"accountId,omitempty"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Note      *string `json:"note,omitempty"`
}
