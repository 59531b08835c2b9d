package gateway

import (
	"context"
	"strings"

	gw "app/internal/gateway"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// Stripe Checkout（ホスト型セッション）のクライアント。
type StripeClient struct {
	secretKey string
	api       *client.API
	logger    *zap.Logger
}

// DI
// baseURLOverrideはテスト用（空なら本番エンドポイント）。
func NewStripeClient(secretKey string, baseURLOverride string, logger *zap.Logger) *StripeClient {
	api := &client.API{}
	if baseURLOverride != "" {
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL: stripe.String(baseURLOverride),
		})
		api.Init(secretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	} else {
		api.Init(secretKey, nil)
	}

	return &StripeClient{
		secretKey: secretKey,
		api:       api,
		logger:    logger,
	}
}

// mode=paymentでセッション作成。カート1行につきline itemを1つ作る。
func (c *StripeClient) CreateSession(ctx context.Context, lines []gw.CheckoutLine, currency string, successURL string, cancelURL string) (string, string, error) {
	if c.secretKey == "" {
		return "", "", gw.ErrCredentialsMissing
	}

	items := buildLineItems(lines, currency)

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  items,
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		c.logger.Warn("stripe create session failed", zap.Error(err))
		return "", "", providerErrFromStripe(gw.OpCreateSession, err)
	}

	return s.ID, s.URL, nil
}

// payment_statusがpaidかどうか。
func (c *StripeClient) ConfirmSession(ctx context.Context, sessionID string) (bool, error) {
	if c.secretKey == "" {
		return false, gw.ErrCredentialsMissing
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return false, providerErrFromStripe(gw.OpConfirmSession, err)
	}

	return s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}

// 通貨はStripe側では小文字。説明と画像は空なら送らない。
func buildLineItems(lines []gw.CheckoutLine, currency string) []*stripe.CheckoutSessionLineItemParams {
	cur := strings.ToLower(currency)

	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, l := range lines {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(l.Name),
		}
		if l.Description != "" {
			product.Description = stripe.String(l.Description)
		}
		if l.ImageURL != "" {
			product.Images = stripe.StringSlice([]string{l.ImageURL})
		}

		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(cur),
				UnitAmount:  stripe.Int64(l.UnitPrice),
				ProductData: product,
			},
			Quantity: stripe.Int64(l.Quantity),
		})
	}
	return items
}

// stripe-goのエラーを共通のProviderErrorへ。生メッセージは落とさない。
func providerErrFromStripe(op gw.ProviderOp, err error) error {
	if stripeErr, ok := err.(*stripe.Error); ok {
		return &gw.ProviderError{Op: op, Status: stripeErr.HTTPStatusCode, Body: stripeErr.Msg}
	}
	return &gw.ProviderError{Op: op, Status: 0, Body: err.Error()}
}
