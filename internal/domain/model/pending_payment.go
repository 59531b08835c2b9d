package model

import "time"

type PaymentProvider string

const (
	ProviderPayPal PaymentProvider = "PAYPAL"
	ProviderStripe PaymentProvider = "STRIPE"
)

type PendingPaymentStatus string

const (
	PendingStatusAwaitingApproval PendingPaymentStatus = "AWAITING_APPROVAL"
	PendingStatusCaptured         PendingPaymentStatus = "CAPTURED"
	PendingStatusCanceled         PendingPaymentStatus = "CANCELED"
)

// 決済途中の状態をDBに置く（セッション頼みにしない）。
// Tokenはreturn_url/cancel_urlに載せる推測不能なID。
// Amountはプロバイダに渡した請求額。注文の合計はリダイレクト中に
// カートが変わっても必ずこの額にする。
// ユーザーがリダイレクトから戻らなければAWAITING_APPROVALのまま残る。
// created_atで後から掃除できるようにしておく。
type PendingPayment struct {
	ID          int64                `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64                `gorm:"not null;index" json:"user_id"`
	Provider    PaymentProvider      `gorm:"type:varchar(20);not null" json:"provider"`
	ProviderRef string               `gorm:"type:varchar(255);not null" json:"provider_ref"`
	Token       string               `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Amount      int64                `gorm:"not null" json:"amount"`
	Status      PendingPaymentStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	CreatedAt   time.Time            `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time            `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
