package model

import (
	"time"
)

// Account is the internal representation of an external caller identity.
// Accounts are created lazily on first contact and carry the credit
// balances that gate lookups.
type Account struct {
	ID          int64     `db:"id" json:"id"`
	ExternalID  int64     `db:"external_id" json:"externalId"`
	Username    *string   `db:"username" json:"username,omitempty"`
	Registered  bool      `db:"registered" json:"registered"`
	FreeCredits int       `db:"free_credits" json:"freeCredits"`
	PaidCredits int       `db:"paid_credits" json:"paidCredits"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type CreateAccountParams struct {
	ExternalID  int64
	Username    *string
	Registered  bool
	FreeCredits int
}

type UpdateAccountParams struct {
	Username    *string `json:"username,omitempty"`
	Registered  *bool   `json:"registered,omitempty"`
	FreeCredits *int    `json:"freeCredits,omitempty"`
	PaidCredits *int    `json:"paidCredits,omitempty"`
}
