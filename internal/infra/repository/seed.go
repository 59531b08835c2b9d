package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 起動時の初期カタログ。件数が0のときだけ入れる（冪等）。
func SeedProducts(ctx context.Context, products repo.ProductRepository) (bool, error) {
	count, err := products.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	seed := []model.Product{
		{
			Name:        "Camiseta Básica",
			Description: "Algodão macio.",
			Price:       4990,
			ImageURL:    "https://i.imgur.com/nKLSkh4.jpg",
		},
		{
			Name:        "Vestido Midi",
			Description: "Leve e elegante.",
			Price:       12990,
			ImageURL:    "https://i.imgur.com/jXwD9V7.png",
		},
		{
			Name:        "Jaqueta Jeans",
			Description: "Clássica, unissex.",
			Price:       19990,
			ImageURL:    "https://i.imgur.com/Hjv1fF2.png",
		},
		{
			Name:        "Tênis Casual",
			Description: "Conforto diário.",
			Price:       15990,
			ImageURL:    "https://i.imgur.com/G9LAeIF.png",
		},
	}

	if err := products.CreateBulk(ctx, seed); err != nil {
		return false, err
	}
	return true, nil
}
