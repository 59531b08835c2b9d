package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/gateway"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutUsecase はチェックアウトの中核。
// どのゲートウェイを呼ぶか決め、カート非空を検証し、
// initiate → 外部リダイレクト → finalize のライフサイクルを管理する。
// カートを空にするのは決済確定が確認できたときだけ。
type CheckoutUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	pendingRepo  repo.PendingPaymentRepository
	auditRepo    repo.AuditLogRepository
	tx           repo.TransactionManager

	paypal gateway.PayPalGateway
	stripe gateway.StripeGateway

	apiBaseURL string
	currency   string

	guard  *checkoutGuard
	logger *zap.Logger
}

func NewCheckoutUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	pendingRepo repo.PendingPaymentRepository,
	auditRepo repo.AuditLogRepository,
	tx repo.TransactionManager,
	paypal gateway.PayPalGateway,
	stripe gateway.StripeGateway,
	apiBaseURL string,
	currency string,
	logger *zap.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		pendingRepo:  pendingRepo,
		auditRepo:    auditRepo,
		tx:           tx,
		paypal:       paypal,
		stripe:       stripe,
		apiBaseURL:   apiBaseURL,
		currency:     currency,
		guard:        newCheckoutGuard(),
		logger:       logger,
	}
}

type InitiateOutput struct {
	RedirectURL string `json:"redirect_url"`
}

type FinalizeOutput struct {
	OrderID int64 `json:"order_id"`
}

// InitiatePayPal は注文を作ってapproveリンクを返す。
// 成功したらpending行（AWAITING_APPROVAL）を保存する。カートは触らない。
func (u *CheckoutUsecase) InitiatePayPal(ctx context.Context, userID int64) (InitiateOutput, error) {
	if userID <= 0 {
		return InitiateOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//二重送信ガード
	if !u.guard.TryAcquire(userID) {
		return InitiateOutput{}, NewHTTPError(http.StatusConflict, "checkout already in progress")
	}
	defer u.guard.Release(userID)

	lines, err := snapshotCart(ctx, u.cartItemRepo, u.productRepo, userID)
	if err != nil {
		return InitiateOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//空カート（総額0も拒否。0円注文は作らない）
	total := CartTotal(lines)
	if len(lines) == 0 || total <= 0 {
		return InitiateOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	//tokenはreturn/cancel URLに載せる。PayPal側が付けるtokenパラメータと
	//被らないよう名前はrefにする。
	token := uuid.NewString()
	returnURL := u.apiBaseURL + "/checkout/paypal/execute?ref=" + token
	cancelURL := u.apiBaseURL + "/checkout/paypal/cancel?ref=" + token

	orderID, approveURL, err := u.paypal.CreateOrder(ctx, total, u.currency, returnURL, cancelURL)
	if err != nil {
		return InitiateOutput{}, u.gatewayHTTPError(ctx, userID, model.ProviderPayPal, err)
	}

	pending := &model.PendingPayment{
		UserID:      userID,
		Provider:    model.ProviderPayPal,
		ProviderRef: orderID,
		Token:       token,
		Amount:      total,
		Status:      model.PendingStatusAwaitingApproval,
	}
	if err := u.pendingRepo.Create(ctx, pending); err != nil {
		return InitiateOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, userID, model.AuditActionCheckoutInitiated, model.ProviderPayPal, orderID)

	return InitiateOutput{RedirectURL: approveURL}, nil
}

// FinalizePayPal はapproveから戻ったユーザーのcaptureを打つ。
// captureに失敗したらpendingはAWAITING_APPROVALのまま残す。
func (u *CheckoutUsecase) FinalizePayPal(ctx context.Context, token string) (FinalizeOutput, error) {
	pending, err := u.findAwaiting(ctx, token, model.ProviderPayPal)
	if err != nil {
		return FinalizeOutput{}, err
	}

	if err := u.paypal.CaptureOrder(ctx, pending.ProviderRef); err != nil {
		return FinalizeOutput{}, u.gatewayHTTPError(ctx, pending.UserID, model.ProviderPayPal, err)
	}

	return u.complete(ctx, pending)
}

// CancelPayPal はキャンセルで戻ってきたとき。巻き戻す状態は無い。
func (u *CheckoutUsecase) CancelPayPal(ctx context.Context, token string) error {
	pending, err := u.findAwaiting(ctx, token, model.ProviderPayPal)
	if err != nil {
		return err
	}

	if err := u.pendingRepo.UpdateStatus(ctx, pending.ID, model.PendingStatusCanceled); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, pending.UserID, model.AuditActionCheckoutCanceled, model.ProviderPayPal, pending.ProviderRef)
	return nil
}

// InitiateStripe はホスト型セッションを作ってリダイレクト先を返す。
// ここではカートを空にしない。確定はsuccessリダイレクトでpaid確認後。
func (u *CheckoutUsecase) InitiateStripe(ctx context.Context, userID int64) (InitiateOutput, error) {
	if userID <= 0 {
		return InitiateOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if !u.guard.TryAcquire(userID) {
		return InitiateOutput{}, NewHTTPError(http.StatusConflict, "checkout already in progress")
	}
	defer u.guard.Release(userID)

	lines, err := snapshotCart(ctx, u.cartItemRepo, u.productRepo, userID)
	if err != nil {
		return InitiateOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	total := CartTotal(lines)
	if len(lines) == 0 || total <= 0 {
		return InitiateOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	token := uuid.NewString()
	//session_idはStripeがプレースホルダを展開する
	successURL := u.apiBaseURL + "/checkout/stripe/success?ref=" + token + "&session_id={CHECKOUT_SESSION_ID}"
	cancelURL := u.apiBaseURL + "/checkout/stripe/cancel?ref=" + token

	gwLines := make([]gateway.CheckoutLine, 0, len(lines))
	for _, l := range lines {
		gwLines = append(gwLines, gateway.CheckoutLine{
			ProductID:   l.ProductID,
			Name:        l.Name,
			Description: l.Description,
			ImageURL:    l.ImageURL,
			UnitPrice:   l.Price,
			Quantity:    l.Quantity,
		})
	}

	sessionID, redirectURL, err := u.stripe.CreateSession(ctx, gwLines, u.currency, successURL, cancelURL)
	if err != nil {
		return InitiateOutput{}, u.gatewayHTTPError(ctx, userID, model.ProviderStripe, err)
	}

	pending := &model.PendingPayment{
		UserID:      userID,
		Provider:    model.ProviderStripe,
		ProviderRef: sessionID,
		Token:       token,
		Amount:      total,
		Status:      model.PendingStatusAwaitingApproval,
	}
	if err := u.pendingRepo.Create(ctx, pending); err != nil {
		return InitiateOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, userID, model.AuditActionCheckoutInitiated, model.ProviderStripe, sessionID)

	return InitiateOutput{RedirectURL: redirectURL}, nil
}

// FinalizeStripe はsuccessリダイレクトの着地。
// セッションがpaidになっているのを確認してからカートを空にする。
func (u *CheckoutUsecase) FinalizeStripe(ctx context.Context, token string, sessionID string) (FinalizeOutput, error) {
	pending, err := u.findAwaiting(ctx, token, model.ProviderStripe)
	if err != nil {
		return FinalizeOutput{}, err
	}
	//URL改ざん対策：pendingに記録したsessionと一致すること
	if sessionID != "" && sessionID != pending.ProviderRef {
		return FinalizeOutput{}, NewHTTPError(http.StatusNotFound, "no pending order")
	}

	paid, err := u.stripe.ConfirmSession(ctx, pending.ProviderRef)
	if err != nil {
		return FinalizeOutput{}, u.gatewayHTTPError(ctx, pending.UserID, model.ProviderStripe, err)
	}
	if !paid {
		//未払いのままならカートは触らない
		return FinalizeOutput{}, NewHTTPError(http.StatusBadRequest, "payment not completed")
	}

	return u.complete(ctx, pending)
}

// CancelStripe はキャンセルで戻ってきたとき。
func (u *CheckoutUsecase) CancelStripe(ctx context.Context, token string) error {
	pending, err := u.findAwaiting(ctx, token, model.ProviderStripe)
	if err != nil {
		return err
	}

	if err := u.pendingRepo.UpdateStatus(ctx, pending.ID, model.PendingStatusCanceled); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, pending.UserID, model.AuditActionCheckoutCanceled, model.ProviderStripe, pending.ProviderRef)
	return nil
}

type CheckoutEventOutput struct {
	Action    string    `json:"action"`
	Provider  string    `json:"provider"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// History は自分のチェックアウトイベントを新しい順で返す。
func (u *CheckoutUsecase) History(ctx context.Context, userID int64) ([]CheckoutEventOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	logs, err := u.auditRepo.ListByUserID(ctx, userID, 50)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]CheckoutEventOutput, 0, len(logs))
	for _, l := range logs {
		outs = append(outs, CheckoutEventOutput{
			Action:    string(l.Action),
			Provider:  string(l.Provider),
			Detail:    l.Detail,
			CreatedAt: l.CreatedAt,
		})
	}
	return outs, nil
}

// tokenからAWAITING_APPROVALのpendingを引く。
// 無い・消費済み・プロバイダ違いは全部「no pending order」。
func (u *CheckoutUsecase) findAwaiting(ctx context.Context, token string, provider model.PaymentProvider) (model.PendingPayment, error) {
	if token == "" {
		return model.PendingPayment{}, NewHTTPError(http.StatusNotFound, "no pending order")
	}

	pending, err := u.pendingRepo.FindByToken(ctx, token)
	if err == repo.ErrNotFound {
		return model.PendingPayment{}, NewHTTPError(http.StatusNotFound, "no pending order")
	}
	if err != nil {
		return model.PendingPayment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if pending.Provider != provider || pending.Status != model.PendingStatusAwaitingApproval {
		return model.PendingPayment{}, NewHTTPError(http.StatusNotFound, "no pending order")
	}
	return pending, nil
}

// 決済確定後の後始末を1トランザクションで行う：
// 注文＋明細の作成、カート全削除、pendingをCAPTUREDに。
// 合計は実際に請求したpending.Amount。明細は確定時点のカートから残す。
func (u *CheckoutUsecase) complete(ctx context.Context, pending model.PendingPayment) (FinalizeOutput, error) {
	var orderID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := snapshotCart(ctx, r.CartItems(), r.Products(), pending.UserID)
		if err != nil {
			return err
		}

		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           l.ProductID,
				ProductNameSnapshot: l.Name,
				UnitPriceSnapshot:   l.Price,
				Quantity:            l.Quantity,
				CreatedAt:           now,
			})
		}

		id, err := r.Orders().Create(ctx, model.Order{
			UserID:      pending.UserID,
			Provider:    pending.Provider,
			ProviderRef: pending.ProviderRef,
			Status:      model.OrderStatusPaid,
			TotalPrice:  pending.Amount,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}
		orderID = id

		if err := r.OrderItems().CreateBulk(ctx, id, orderItems); err != nil {
			return err
		}

		//支払い確認が取れた後にだけカートを空にする
		if err := r.CartItems().ClearByUserID(ctx, pending.UserID); err != nil {
			return err
		}

		return r.PendingPayments().UpdateStatus(ctx, pending.ID, model.PendingStatusCaptured)
	})
	if err != nil {
		u.logger.Error("checkout completion failed",
			zap.Int64("user_id", pending.UserID),
			zap.String("provider_ref", pending.ProviderRef),
			zap.Error(err))
		return FinalizeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, pending.UserID, model.AuditActionCheckoutCaptured, pending.Provider, pending.ProviderRef)

	return FinalizeOutput{OrderID: orderID}, nil
}

// ゲートウェイのエラーをHTTPErrorに写す。
// 非2xxの生ボディはそのまま見せる。
func (u *CheckoutUsecase) gatewayHTTPError(ctx context.Context, userID int64, provider model.PaymentProvider, err error) error {
	if errors.Is(err, gateway.ErrCredentialsMissing) {
		return NewHTTPError(http.StatusInternalServerError, "payment credentials missing")
	}
	if errors.Is(err, gateway.ErrApprovalLinkMissing) {
		u.audit(ctx, userID, model.AuditActionCheckoutFailed, provider, "approval link missing")
		return NewHTTPError(http.StatusBadGateway, "approval link missing")
	}
	if pe, ok := gateway.AsProviderError(err); ok {
		u.audit(ctx, userID, model.AuditActionCheckoutFailed, provider, pe.Body)
		return NewHTTPError(http.StatusBadGateway, pe.Body)
	}

	u.logger.Error("gateway call failed",
		zap.Int64("user_id", userID),
		zap.String("provider", string(provider)),
		zap.Error(err))
	return NewHTTPError(http.StatusBadGateway, "payment provider unreachable")
}

// 監査ログは本流を止めない（失敗はログだけ）。
func (u *CheckoutUsecase) audit(ctx context.Context, userID int64, action model.AuditAction, provider model.PaymentProvider, detail string) {
	err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID: userID,
		Action:      action,
		Provider:    provider,
		Detail:      detail,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		u.logger.Warn("audit log write failed", zap.Error(err))
	}
}
