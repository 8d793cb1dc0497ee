package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/usecase"
)

// resetTokenMySQL はResetTokenRepositoryインターフェースのMySQL実装です。
type resetTokenMySQL struct {
	db *gorm.DB
}

// resetTokenMySQLがResetTokenRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ResetTokenRepository = (*resetTokenMySQL)(nil)

// NewResetTokenMySQL は指定されたgorm.DB接続でresetTokenMySQLの新しいインスタンスを生成します。
func NewResetTokenMySQL(db *gorm.DB) *resetTokenMySQL {
	return &resetTokenMySQL{db: db}
}

// Create は新しいリセットトークンをデータベースに追加します。
func (r *resetTokenMySQL) Create(ctx context.Context, t *entity.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// FindByToken はトークン文字列で一致するレコードを取得します。
// 見つからない場合、usecase.ErrResetTokenInvalidを返します（存在有無を漏らさない汎用エラー）。
func (r *resetTokenMySQL) FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	var t entity.PasswordResetToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrResetTokenInvalid
		}
		return nil, err
	}
	return &t, nil
}

// CountRecentByUser は指定時刻以降（境界を含む）にユーザーへ発行された
// トークン数を返します。
func (r *resetTokenMySQL) CountRecentByUser(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.PasswordResetToken{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

// MarkUsed はトークンを使用済みに更新します。
func (r *resetTokenMySQL) MarkUsed(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&entity.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrResetTokenInvalid
	}
	return nil
}
