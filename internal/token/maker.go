package token

import (
	"time"
)

// Maker manages access tokens. The notification service only verifies tokens; it
// creates them for local tooling and tests.
type Maker interface {
	CreateToken(userID string, duration time.Duration) (token string, payload *Payload, err error)
	VerifyToken(tokenString string) (payload *Payload, err error)
}
