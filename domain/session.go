package domain

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/x-xyz/marketapi/base/ctx"
)

// Session is the capability granted to a connected wallet. It is passed
// explicitly to everything that queries the marketplace on its behalf.
type Session struct {
	Id        string    `json:"id"`
	Address   Address   `json:"address"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

type JwtCustomClaims struct {
	Address string `json:"data"`
	jwt.StandardClaims
}

type SessionUsecase interface {
	// SigningMessage returns the message the wallet has to sign, bound to a fresh nonce
	SigningMessage(c ctx.Ctx, address Address) (string, error)
	// SignIn validates the signature and issues a session token
	SignIn(c ctx.Ctx, address Address, signature string) (string, *Session, error)
	SignToken(c ctx.Ctx, address Address) (string, *Session, error)
	ParseToken(c ctx.Ctx, token string) (*Session, error)
}
