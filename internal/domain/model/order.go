package model

import "time"

type OrderStatus string

const (
	OrderStatusPaid OrderStatus = "PAID"
)

// 決済確定時に作る注文履歴。
// ProviderRefは外部決済のID（PayPalのorder id / Stripeのsession id）。
type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64           `gorm:"not null;index" json:"user_id"`
	Provider    PaymentProvider `gorm:"type:varchar(20);not null" json:"provider"`
	ProviderRef string          `gorm:"type:varchar(255);not null;index" json:"provider_ref"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice  int64           `gorm:"not null" json:"total_price"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
