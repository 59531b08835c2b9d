package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の永続化（保存・取得）だけを約束。
// カタログはストアから見ると読み取り専用。
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	//起動時のseed用
	Count(ctx context.Context) (int64, error)
	CreateBulk(ctx context.Context, products []model.Product) error
}
