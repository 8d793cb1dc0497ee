// Package adapters はcommentsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"recipe_backend/internal/feature/comments/domain/entity"
	"recipe_backend/internal/feature/comments/usecase"
)

// commentMySQL はCommentRepositoryインターフェースのMySQL実装です。
type commentMySQL struct {
	db *gorm.DB
}

// commentMySQLがCommentRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.CommentRepository = (*commentMySQL)(nil)

// NewCommentMySQL は指定されたgorm.DB接続でcommentMySQLの新しいインスタンスを生成します。
func NewCommentMySQL(db *gorm.DB) *commentMySQL {
	return &commentMySQL{db: db}
}

// Create はコメントをデータベースに追加します。
func (r *commentMySQL) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListByRecipe はレシピのコメントを投稿者付きで新着順に返します。
func (r *commentMySQL) ListByRecipe(ctx context.Context, recipeID uint) ([]entity.Comment, error) {
	var comments []entity.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// FindByID はIDでコメントを投稿者付きで取得します。
func (r *commentMySQL) FindByID(ctx context.Context, id uint) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// Delete はコメントを物理削除します。
func (r *commentMySQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrCommentNotFound
	}
	return nil
}
