// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"contacts_backend/internal/feature/auth/domain/entity"
	"contacts_backend/internal/feature/auth/usecase"
)

// userRepository はUserRepositoryインターフェースのGORM実装です。
// 本番ではPostgreSQL、テストではSQLiteで動作します。
type userRepository struct {
	db *gorm.DB
}

// userRepositoryがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userRepository)(nil)

// NewUserRepository は指定されたgorm.DB接続でuserRepositoryの新しいインスタンスを生成します。
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

// Create はユーザーをデータベースに追加します。
// 同じメールアドレスのユーザーが既に存在する場合、usecase.ErrEmailAlreadyExistsを返します。
func (r *userRepository) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// MarkConfirmed はユーザーを確認済みにします。既に確認済みでもエラーにはなりません。
func (r *userRepository) MarkConfirmed(ctx context.Context, email string) error {
	return r.updateColumn(ctx, email, "confirmed", true)
}

// UpdatePassword はパスワードハッシュを置き換えます。
func (r *userRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	return r.updateColumn(ctx, email, "password", passwordHash)
}

// UpdateAvatar はアバターURLを置き換え、更新後のユーザーを返します。
func (r *userRepository) UpdateAvatar(ctx context.Context, email, avatarURL string) (*entity.User, error) {
	if err := r.updateColumn(ctx, email, "avatar_url", avatarURL); err != nil {
		return nil, err
	}
	return r.FindByEmail(ctx, email)
}

// updateColumn は1カラムを更新します。対象行がなければusecase.ErrUserNotFoundを返します。
func (r *userRepository) updateColumn(ctx context.Context, email, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("email = ?", email).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// isUniqueViolation はユニーク制約違反かどうかを判定します。
// TranslateErrorが有効ならgorm.ErrDuplicatedKey、無効ならPostgreSQLの23505を見ます。
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
