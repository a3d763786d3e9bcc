package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/delivery"
	"github.com/x-xyz/marketapi/domain"
)

const sessionKey = "session"

type SessionMiddleware struct {
	session domain.SessionUsecase
}

func New(session domain.SessionUsecase) *SessionMiddleware {
	return &SessionMiddleware{
		session: session,
	}
}

// RequireAuth rejects requests without a valid bearer token
func (m *SessionMiddleware) RequireAuth() echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator:    m.validateAuthToken,
		ErrorHandler: m.unauthorized,
	})
}

// OptionalAuth attaches a session when a bearer token is present
func (m *SessionMiddleware) OptionalAuth() echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Skipper: func(c echo.Context) bool {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			return len(auth) == 0
		},
		Validator:    m.validateAuthToken,
		ErrorHandler: m.unauthorized,
	})
}

func (m *SessionMiddleware) unauthorized(err error, c echo.Context) error {
	if _, ok := err.(*echo.HTTPError); ok {
		err = domain.ErrNoSession
	}
	return delivery.MakeJsonResp(c, http.StatusUnauthorized, err)
}

func (m *SessionMiddleware) validateAuthToken(key string, c echo.Context) (bool, error) {
	cont := c.Get("ctx").(ctx.Ctx)
	if session, err := m.session.ParseToken(cont, key); err != nil {
		cont.WithField("err", err).Warn("session.ParseToken failed")
		return false, err
	} else {
		c.Set(sessionKey, session)
		c.Set("ctx", ctx.WithValue(cont, "address", session.Address))
		return true, nil
	}
}

// SessionFrom returns the session attached by the auth middlewares, nil when not connected
func SessionFrom(c echo.Context) *domain.Session {
	if session, ok := c.Get(sessionKey).(*domain.Session); ok {
		return session
	}
	return nil
}
