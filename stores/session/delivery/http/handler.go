package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/marketapi/base/ctx"
	"github.com/x-xyz/marketapi/base/delivery"
	"github.com/x-xyz/marketapi/base/goroutine"
	"github.com/x-xyz/marketapi/base/log"
	"github.com/x-xyz/marketapi/domain"
	"github.com/x-xyz/marketapi/domain/listing"
	pmw "github.com/x-xyz/marketapi/middleware"
	"github.com/x-xyz/marketapi/stores/session/delivery/http/middleware"
)

type sessionHandler struct {
	session domain.SessionUsecase
	view    listing.ViewUseCase
}

func New(e *echo.Echo, session domain.SessionUsecase, view listing.ViewUseCase, auth *middleware.SessionMiddleware) {
	handler := &sessionHandler{
		session: session,
		view:    view,
	}
	g := e.Group("/session")
	g.GET("/nonce/:address", handler.getSigningMessage, pmw.IsValidAddress("address"))
	g.POST("", handler.signIn)
	g.DELETE("", handler.signOut, auth.RequireAuth())
}

func (h *sessionHandler) getSigningMessage(c echo.Context) error {
	cont := c.Get("ctx").(ctx.Ctx)
	address := domain.Address(c.Param("address"))

	msg, err := h.session.SigningMessage(cont, address)
	if err != nil {
		cont.WithField("err", err).Error("session.SigningMessage failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	res := struct {
		Message string `json:"message"`
	}{
		Message: msg,
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *sessionHandler) signIn(c echo.Context) error {
	cont := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address   domain.Address `json:"address" validate:"required,eth_addr"`
		Signature string         `json:"signature" validate:"required"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		cont.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		cont.WithField("err", err).Warn("validate failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	token, session, err := h.session.SignIn(cont, p.Address, p.Signature)
	if err != nil {
		cont.WithField("err", err).Warn("session.SignIn failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	// connecting is a trigger for a new fetch cycle
	bg := ctx.WithFields(ctx.Background(), log.Fields{"address": session.Address, "sessionId": session.Id})
	goroutine.RecoverableGo(func() {
		res := h.view.Refresh(bg, session)
		bg.WithFields(log.Fields{"status": res.Status, "cycleId": res.CycleId}).Info("refreshed on sign-in")
	})

	res := struct {
		Token   string          `json:"token"`
		Session *domain.Session `json:"session"`
	}{
		Token:   token,
		Session: session,
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *sessionHandler) signOut(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		return delivery.MakeJsonResp(c, http.StatusUnauthorized, domain.ErrNoSession)
	}
	h.view.Forget(session.Address)
	return c.NoContent(http.StatusNoContent)
}
