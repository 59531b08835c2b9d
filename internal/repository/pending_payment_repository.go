package repository

import (
	"context"

	"app/internal/domain/model"
)

type PendingPaymentRepository interface {
	Create(ctx context.Context, p *model.PendingPayment) error
	//return_url/cancel_urlに載せたtokenで引く
	FindByToken(ctx context.Context, token string) (model.PendingPayment, error)
	UpdateStatus(ctx context.Context, id int64, status model.PendingPaymentStatus) error
}
