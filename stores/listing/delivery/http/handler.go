package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/delivery"
	"github.com/x-xyz/marketapi/domain/listing"
	pmw "github.com/x-xyz/marketapi/middleware"
	"github.com/x-xyz/marketapi/service/cache"
	"github.com/x-xyz/marketapi/stores/session/delivery/http/middleware"
)

type listingHandler struct {
	view listing.ViewUseCase
}

// result is the rendering shape of a listing.Result
type result struct {
	Status    listing.Status    `json:"status"`
	Message   string            `json:"message,omitempty"`
	Listings  []listing.Listing `json:"listings"`
	Failures  []listing.Failure `json:"failures,omitempty"`
	CycleId   string            `json:"cycleId,omitempty"`
	FetchedAt *time.Time        `json:"fetchedAt,omitempty"`
}

func toResult(res listing.Result) result {
	r := result{
		Status:   res.Status,
		Message:  res.Status.Message(),
		Listings: res.Listings,
		Failures: res.Failures,
		CycleId:  res.CycleId,
	}
	if r.Listings == nil {
		r.Listings = []listing.Listing{}
	}
	if !res.FetchedAt.IsZero() {
		fetchedAt := res.FetchedAt
		r.FetchedAt = &fetchedAt
	}
	return r
}

func New(e *echo.Echo, view listing.ViewUseCase, auth *middleware.SessionMiddleware, mw *pmw.GoMiddleware, summaryCache cache.Service) {
	handler := &listingHandler{
		view: view,
	}
	g := e.Group("/listings")
	g.GET("", handler.getListings, auth.OptionalAuth())
	g.POST("/refresh", handler.refresh, auth.RequireAuth())
	g.GET("/summary", handler.getSummary, mw.CacheHttp(summaryCache))
}

func (h *listingHandler) getListings(c echo.Context) error {
	cont := c.Get("ctx").(ctx.Ctx)
	res := h.view.Load(cont, middleware.SessionFrom(c))
	return delivery.MakeJsonResp(c, http.StatusOK, toResult(res))
}

func (h *listingHandler) refresh(c echo.Context) error {
	cont := c.Get("ctx").(ctx.Ctx)
	res := h.view.Refresh(cont, middleware.SessionFrom(c))
	return delivery.MakeJsonResp(c, http.StatusOK, toResult(res))
}

func (h *listingHandler) getSummary(c echo.Context) error {
	cont := c.Get("ctx").(ctx.Ctx)
	summary, err := h.view.Summary(cont)
	if err != nil {
		cont.WithField("err", err).Error("view.Summary failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, summary)
}
