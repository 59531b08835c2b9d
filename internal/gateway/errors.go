package gateway

import (
	"errors"
	"fmt"
)

var (
	// 資格情報が未設定。ネットワークに出る前に返す。
	ErrCredentialsMissing = errors.New("payment credentials missing")

	// 注文作成レスポンスにrel=approveのリンクが無い。
	ErrApprovalLinkMissing = errors.New("approval link missing")
)

// プロバイダ操作の段階。
type ProviderOp string

const (
	OpAuth           ProviderOp = "auth"
	OpCreateOrder    ProviderOp = "create_order"
	OpCapture        ProviderOp = "capture"
	OpCreateSession  ProviderOp = "create_session"
	OpConfirmSession ProviderOp = "confirm_session"
)

// 非2xxレスポンス。Bodyは生のまま持ち回る（運用デバッグ用に握りつぶさない）。
type ProviderError struct {
	Op     ProviderOp
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: status=%d body=%s", e.Op, e.Status, e.Body)
}

func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
