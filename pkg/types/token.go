package types

import "time"

// Token is an issued access token. ExpiresAt is absolute, in epoch milliseconds,
// so a Token value always carries its expiry alongside the token.
type Token struct {
	AccessToken string
	TokenType   string
	Scope       string
	ExpiresAt   int64
}

// ExpiredAt reports whether the token is expired at nowMillis. Expiry is
// inclusive: a token expiring at T is expired at T.
func (t *Token) ExpiredAt(nowMillis int64) bool {
	return t == nil || nowMillis >= t.ExpiresAt
}

// Expiry returns ExpiresAt as a time.Time.
func (t *Token) Expiry() time.Time {
	if t == nil {
		return time.Time{}
	}
	return time.UnixMilli(t.ExpiresAt)
}
