package gateway

import "context"

// チェックアウト時点のカート1行。価格は最小通貨単位。
type CheckoutLine struct {
	ProductID   int64
	Name        string
	Description string
	ImageURL    string
	UnitPrice   int64
	Quantity    int64
}

// PayPal（リダイレクト＋サーバ側capture）の3段プロトコル。
type PayPalGateway interface {
	//注文作成。approveリンクのURLを返す。
	CreateOrder(ctx context.Context, totalMinor int64, currency string, returnURL string, cancelURL string) (orderID string, approveURL string, err error)
	//確定。200/201以外はCaptureErrorで生レスポンスを返す。
	CaptureOrder(ctx context.Context, orderID string) error
}

// Stripe（ホスト型チェックアウトセッション）。
type StripeGateway interface {
	//mode=paymentでセッションを作り、リダイレクト先URLを返す。
	CreateSession(ctx context.Context, lines []CheckoutLine, currency string, successURL string, cancelURL string) (sessionID string, redirectURL string, err error)
	//payment_statusがpaidかどうか。
	ConfirmSession(ctx context.Context, sessionID string) (bool, error)
}
