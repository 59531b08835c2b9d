package model

import "time"

// カートの明細
// (user_id, product_id) で1行。価格は持たず、決済時に商品から読み直す。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:uq_cart_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:uq_cart_user_product" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
