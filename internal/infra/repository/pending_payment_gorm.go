package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type PendingPaymentGormRepository struct {
	db *gorm.DB
}

// DI
func NewPendingPaymentGormRepository(db *gorm.DB) *PendingPaymentGormRepository {
	return &PendingPaymentGormRepository{db: db}
}

func (r *PendingPaymentGormRepository) Create(ctx context.Context, p *model.PendingPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PendingPaymentGormRepository) FindByToken(ctx context.Context, token string) (model.PendingPayment, error) {
	var p model.PendingPayment

	err := r.db.WithContext(ctx).Where("token = ?", token).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PendingPayment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PendingPayment{}, err
	}
	return p, nil
}

func (r *PendingPaymentGormRepository) UpdateStatus(ctx context.Context, id int64, status model.PendingPaymentStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.PendingPayment{}).
		Where("id = ?", id).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
