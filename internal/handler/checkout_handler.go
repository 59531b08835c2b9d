package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Handlerは interface を依存注入
type CheckoutFlows interface {
	InitiatePayPal(ctx context.Context, userID int64) (usecase.InitiateOutput, error)
	FinalizePayPal(ctx context.Context, token string) (usecase.FinalizeOutput, error)
	CancelPayPal(ctx context.Context, token string) error
	InitiateStripe(ctx context.Context, userID int64) (usecase.InitiateOutput, error)
	FinalizeStripe(ctx context.Context, token string, sessionID string) (usecase.FinalizeOutput, error)
	CancelStripe(ctx context.Context, token string) error
	History(ctx context.Context, userID int64) ([]usecase.CheckoutEventOutput, error)
}

// /checkoutのHTTP。
// initiateはJSONでredirect_urlを返し、プロバイダからの戻り
// （execute/success/cancel）はフロントへ302で着地させる。
type CheckoutHandler struct {
	uc    CheckoutFlows
	feURL string
}

// DI
func NewCheckoutHandler(uc CheckoutFlows, feURL string) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, feURL: feURL}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/checkout")
	g.Use(middleware.AuthJWT(cfg))
	g.POST("/paypal", h.initiatePayPal)
	g.POST("/stripe", h.initiateStripe)
	g.GET("/history", h.history)

	//プロバイダからの戻りはbearerを持たない。
	//pending行のtoken（?ref=）で本人のチェックアウトを引く。
	e.GET("/checkout/paypal/execute", h.executePayPal)
	e.GET("/checkout/paypal/cancel", h.cancelPayPal)
	e.GET("/checkout/stripe/success", h.successStripe)
	e.GET("/checkout/stripe/cancel", h.cancelStripe)
}

func (h *CheckoutHandler) initiatePayPal(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.InitiatePayPal(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) initiateStripe(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.InitiateStripe(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) history(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	events, err := h.uc.History(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, events)
}

func (h *CheckoutHandler) executePayPal(c echo.Context) error {
	out, err := h.uc.FinalizePayPal(c.Request().Context(), c.QueryParam("ref"))
	if err != nil {
		return h.redirectCartWithError(c, err)
	}

	return h.redirectSuccess(c, out)
}

func (h *CheckoutHandler) cancelPayPal(c echo.Context) error {
	if err := h.uc.CancelPayPal(c.Request().Context(), c.QueryParam("ref")); err != nil {
		return h.redirectCartWithError(c, err)
	}
	return c.Redirect(http.StatusFound, h.feURL+"/cart")
}

func (h *CheckoutHandler) successStripe(c echo.Context) error {
	out, err := h.uc.FinalizeStripe(c.Request().Context(), c.QueryParam("ref"), c.QueryParam("session_id"))
	if err != nil {
		return h.redirectCartWithError(c, err)
	}

	return h.redirectSuccess(c, out)
}

func (h *CheckoutHandler) cancelStripe(c echo.Context) error {
	if err := h.uc.CancelStripe(c.Request().Context(), c.QueryParam("ref")); err != nil {
		return h.redirectCartWithError(c, err)
	}
	return c.Redirect(http.StatusFound, h.feURL+"/cart")
}

func (h *CheckoutHandler) redirectSuccess(c echo.Context, out usecase.FinalizeOutput) error {
	q := url.Values{}
	q.Set("order_id", strconv.FormatInt(out.OrderID, 10))
	return c.Redirect(http.StatusFound, h.feURL+"/checkout/success?"+q.Encode())
}

// 失敗はカート画面に戻す（処理は落とさない）。メッセージはそのまま見せる。
func (h *CheckoutHandler) redirectCartWithError(c echo.Context, err error) error {
	msg := "checkout failed"
	if he, ok := usecase.AsHTTPError(err); ok {
		msg = he.Message
	}

	q := url.Values{}
	q.Set("error", msg)
	return c.Redirect(http.StatusFound, h.feURL+"/cart?"+q.Encode())
}
