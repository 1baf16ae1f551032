package model

import (
	"time"
)

// AdminSession is a server-side admin console session. Only the HMAC of
// the session token is stored.
type AdminSession struct {
	ID        int64     `db:"id" json:"id"`
	TokenHash string    `db:"token_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
}

type CreateAdminSessionParams struct {
	TokenHash string
	ExpiresAt time.Time
}
