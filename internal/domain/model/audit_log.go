package model

import "time"

// チェックアウトの進行イベント。
type AuditAction string

const (
	//外部決済へのリダイレクトを開始した。
	AuditActionCheckoutInitiated AuditAction = "CHECKOUT_INITIATED"
	//決済が確定した。
	AuditActionCheckoutCaptured AuditAction = "CHECKOUT_CAPTURED"
	//プロバイダ側で失敗した。
	AuditActionCheckoutFailed AuditAction = "CHECKOUT_FAILED"
	//ユーザーがキャンセルして戻ってきた。
	AuditActionCheckoutCanceled AuditAction = "CHECKOUT_CANCELED"
)

// 監査ログ。
// 「誰が」「どの決済で」「何が起きたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//決済プロバイダ（PAYPAL / STRIPE）。
	Provider PaymentProvider `gorm:"type:varchar(20);not null" json:"provider"`

	//外部決済のID。失敗時はプロバイダの生レスポンスも入る。
	Detail string `gorm:"type:text" json:"detail"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
