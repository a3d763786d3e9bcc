package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/x-xyz/marketapi/base/ctx"
)

func TestAddContext(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")

	var got ctx.Ctx
	h := InitMiddleware().AddContext()(func(c echo.Context) error {
		got = c.Get("ctx").(ctx.Ctx)
		return nil
	})
	req.NoError(h(c))
	req.Equal("req-1", got.Value("requestID"))
	req.NoError(got.Err())
}

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		address string
		code    int
	}{
		{"0x939ae6a4c8dfdbb1f7085189574f0a938013952b", http.StatusNoContent},
		{"0x000", http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := require.New(t)
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.SetParamNames("address")
		c.SetParamValues(tt.address)

		h := IsValidAddress("address")(func(c echo.Context) error {
			return c.NoContent(http.StatusNoContent)
		})
		req.NoError(h(c))
		req.Equal(tt.code, rec.Code, tt.address)
	}
}

func TestResponseLoggerHandlesError(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/missing", nil), rec)

	h := InitMiddleware().ResponseLogger()(func(c echo.Context) error {
		return echo.ErrNotFound
	})
	req.NoError(h(c))
	req.Equal(http.StatusNotFound, rec.Code)
}
