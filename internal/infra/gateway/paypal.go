package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gw "app/internal/gateway"

	"go.uber.org/zap"
)

const (
	paypalSandboxBase = "https://api-m.sandbox.paypal.com"
	paypalLiveBase    = "https://api-m.paypal.com"

	//外部呼び出しはrequest内の同期呼び出しなので必ず期限を切る
	paypalTimeout = 15 * time.Second
)

// PayPal REST（v1 oauth2 + v2 checkout/orders）のクライアント。
type PayPalClient struct {
	clientID string
	secret   string
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
}

// DI
// modeはsandbox/live。baseURLOverrideはテスト用（空なら使わない）。
func NewPayPalClient(clientID string, secret string, mode string, baseURLOverride string, logger *zap.Logger) *PayPalClient {
	base := paypalSandboxBase
	if mode == "live" {
		base = paypalLiveBase
	}
	if baseURLOverride != "" {
		base = baseURLOverride
	}

	return &PayPalClient{
		clientID: clientID,
		secret:   secret,
		baseURL:  base,
		http:     &http.Client{Timeout: paypalTimeout},
		logger:   logger,
	}
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type paypalLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type paypalOrderResponse struct {
	ID    string       `json:"id"`
	Links []paypalLink `json:"links"`
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalPurchaseUnit struct {
	Amount paypalAmount `json:"amount"`
}

type paypalAppContext struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

type paypalCreateOrderRequest struct {
	Intent             string               `json:"intent"`
	PurchaseUnits      []paypalPurchaseUnit `json:"purchase_units"`
	ApplicationContext paypalAppContext     `json:"application_context"`
}

// client_credentialsでアクセストークンを取る。
// 資格情報が空ならネットワークに出る前に失敗させる。
func (c *PayPalClient) accessToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.secret == "" {
		return "", gw.ErrCredentialsMissing
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &gw.ProviderError{Op: gw.OpAuth, Status: resp.StatusCode, Body: string(body)}
	}

	var tok paypalTokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", &gw.ProviderError{Op: gw.OpAuth, Status: resp.StatusCode, Body: string(body)}
	}
	return tok.AccessToken, nil
}

// 注文作成（intent=CAPTURE）。approveリンクはrelで探す（位置に依存しない）。
func (c *PayPalClient) CreateOrder(ctx context.Context, totalMinor int64, currency string, returnURL string, cancelURL string) (string, string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", "", err
	}

	payload := paypalCreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{
			{Amount: paypalAmount{CurrencyCode: currency, Value: FormatAmount(totalMinor)}},
		},
		ApplicationContext: paypalAppContext{
			ReturnURL: returnURL,
			CancelURL: cancelURL,
		},
	}

	status, body, err := c.postJSON(ctx, "/v2/checkout/orders", token, payload)
	if err != nil {
		return "", "", err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		c.logger.Warn("paypal create order failed",
			zap.Int("status", status),
			zap.String("body", string(body)))
		return "", "", &gw.ProviderError{Op: gw.OpCreateOrder, Status: status, Body: string(body)}
	}

	var order paypalOrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return "", "", err
	}

	approve := ""
	for _, l := range order.Links {
		if l.Rel == "approve" {
			approve = l.Href
			break
		}
	}
	if approve == "" {
		return "", "", gw.ErrApprovalLinkMissing
	}

	return order.ID, approve, nil
}

// 確定。200/201以外は生レスポンス付きで失敗。
func (c *PayPalClient) CaptureOrder(ctx context.Context, orderID string) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", orderID)
	status, body, err := c.postJSON(ctx, path, token, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		c.logger.Warn("paypal capture failed",
			zap.String("order_id", orderID),
			zap.Int("status", status),
			zap.String("body", string(body)))
		return &gw.ProviderError{Op: gw.OpCapture, Status: status, Body: string(body)}
	}
	return nil
}

func (c *PayPalClient) postJSON(ctx context.Context, path string, bearer string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
