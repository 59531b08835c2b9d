package usecase

import (
	"context"
	"net/http"

	repo "app/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// カート1行のスナップショット。価格はカタログから読み直した現在値。
type CartLine struct {
	ItemID      int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity"`
}

type CartResponse struct {
	Items []CartLine `json:"items"`
	Total int64      `json:"total"`
}

type AddCartInput struct {
	ProductID int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// 合計。Σ(quantity × price)。空なら0。
// 純関数。キャッシュせず毎回ここで計算する。
func CartTotal(lines []CartLine) int64 {
	var total int64 = 0
	for _, l := range lines {
		total += l.Price * l.Quantity
	}
	return total
}

// GetCart はカート取得。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	lines, err := snapshotCart(ctx, u.cartItemRepo, u.productRepo, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CartResponse{Items: lines, Total: CartTotal(lines)}, nil
}

// AddToCart はカートに追加（同一商品は+1）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	// 商品チェック
	if _, err := u.productRepo.FindByID(ctx, in.ProductID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Upsert（同一商品は加算）。重複行は作らない。
	if err := u.cartItemRepo.UpsertByUserAndProduct(ctx, userID, in.ProductID, 1); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

// 数量変更（所有チェック必須）。0以下は削除。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		//他人の明細は「存在しない扱い」
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if in.Quantity <= 0 {
		//0以下は行の削除
		if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil && err != repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.GetCart(ctx, userID)
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

// 明細削除
func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, cartItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

// 全削除（冪等）。
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := u.cartItemRepo.ClearByUserID(ctx, userID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CartResponse{Items: []CartLine{}, Total: 0}, nil
}

// ユーザーの明細に商品データを解決して重ねる。
// 商品が消えた行はスキップ（チェックアウト側も同じ見え方になる）。
func snapshotCart(ctx context.Context, cartItems repo.CartItemRepository, products repo.ProductRepository, userID int64) ([]CartLine, error) {
	items, err := cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		p, err := products.FindByID(ctx, it.ProductID)
		if err == repo.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}

		lines = append(lines, CartLine{
			ItemID:      it.ID,
			ProductID:   it.ProductID,
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			Price:       p.Price,
			Quantity:    it.Quantity,
		})
	}
	return lines, nil
}
