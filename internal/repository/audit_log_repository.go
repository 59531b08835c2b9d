package repository

import (
	"context"

	"app/internal/domain/model"
)

// 監査ログの保存・一覧取得の約束。
type AuditLogRepository interface {
	//監査ログを1件保存
	Create(ctx context.Context, log model.AuditLog) error

	//ユーザーのログを新しい順で取得。
	ListByUserID(ctx context.Context, userID int64, limit int) ([]model.AuditLog, error)
}
