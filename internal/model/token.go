package model

import "time"

// Token is an opaque bearer session bound to a user.
type Token struct {
	Token    string `db:"token"`
	UserID   int64  `db:"user_id"`
	IssuedAt int64  `db:"issued_at"` // unix millis
}

// IsExpired reports whether the token is older than expiry at now.
func (t *Token) IsExpired(now time.Time, expiry time.Duration) bool {
	return now.Sub(time.UnixMilli(t.IssuedAt)) > expiry
}
