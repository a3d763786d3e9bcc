package delivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/x-xyz/marketapi/domain"
	"golang.org/x/xerrors"
)

func TestMakeJsonResp(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       interface{}
		wantStatus int
		wantBody   JsonResponse
	}{
		{
			name:       "success",
			status:     http.StatusOK,
			data:       "hello",
			wantStatus: http.StatusOK,
			wantBody:   JsonResponse{"hello", JsonResponseStatusSuccess},
		},
		{
			name:       "wrapped not found",
			status:     http.StatusInternalServerError,
			data:       xerrors.Errorf("lookup: %w", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   JsonResponse{"lookup: Your requested Item is not found", JsonResponseStatusFail},
		},
		{
			name:       "no session",
			status:     http.StatusInternalServerError,
			data:       domain.ErrNoSession,
			wantStatus: http.StatusUnauthorized,
			wantBody:   JsonResponse{domain.ErrNoSession.Error(), JsonResponseStatusFail},
		},
		{
			name:       "bad param",
			status:     http.StatusInternalServerError,
			data:       domain.ErrBadParamInput,
			wantStatus: http.StatusBadRequest,
			wantBody:   JsonResponse{domain.ErrBadParamInput.Error(), JsonResponseStatusFail},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			req.NoError(MakeJsonResp(c, tt.status, tt.data))
			req.Equal(tt.wantStatus, rec.Code)
			body := JsonResponse{}
			req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
			req.Equal(tt.wantBody, body)
		})
	}
}
