package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// username/emailのunique違反を統一
var ErrDuplicate = errors.New("duplicate")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（username/emailのunique違反はErrDuplicateで返す）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。無ければnil。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//usernameまたはemailが既に使われているか。
	ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error)
	// ユーザー情報の更新=>最後のログイン更新など
	Update(ctx context.Context, user *model.User) error
}
