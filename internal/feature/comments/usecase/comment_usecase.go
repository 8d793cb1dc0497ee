// Package usecase はcommentsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"strings"

	authentity "recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/comments/domain/entity"
	"recipe_backend/internal/shared/validation"
)

// maxCommentLength はコメント本文の最大文字数です。
const maxCommentLength = 1000

var (
	// ErrCommentNotFound は指定されたコメントが存在しない場合のエラーです。
	ErrCommentNotFound = errors.New("comment not found")
	// ErrRecipeNotFound はコメント対象のレシピが存在しない場合のエラーです。
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrForbidden は操作する権限がない場合のエラーです。
	ErrForbidden = errors.New("forbidden")
)

// CommentRepository はコメントの永続化層を抽象化します。
type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	// ListByRecipe はレシピのコメントを新着順に返します。
	ListByRecipe(ctx context.Context, recipeID uint) ([]entity.Comment, error)
	FindByID(ctx context.Context, id uint) (*entity.Comment, error)
	Delete(ctx context.Context, id uint) error
}

// RecipeChecker はコメント対象レシピの存在確認を抽象化します。
// recipes側のRecipeRepositoryがこれを満たします。
type RecipeChecker interface {
	ExistsVisible(ctx context.Context, recipeID uint) (bool, error)
}

// UserGetter は権限判定に必要なユーザー取得を抽象化します。
type UserGetter interface {
	FindByID(ctx context.Context, id uint) (*authentity.User, error)
}

// commentUsecase はコメント操作のビジネスロジックを実装します。
type commentUsecase struct {
	comments CommentRepository
	recipes  RecipeChecker
	users    UserGetter
}

// NewCommentUsecase はcommentUsecaseの新しいインスタンスを生成します。
func NewCommentUsecase(comments CommentRepository, recipes RecipeChecker, users UserGetter) *commentUsecase {
	return &commentUsecase{comments: comments, recipes: recipes, users: users}
}

// ListByRecipe はレシピのコメントを新着順に返します。
// レシピが存在しない（または論理削除済みの）場合はErrRecipeNotFoundになります。
func (u *commentUsecase) ListByRecipe(ctx context.Context, recipeID uint) ([]entity.Comment, error) {
	visible, err := u.recipes.ExistsVisible(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrRecipeNotFound
	}
	return u.comments.ListByRecipe(ctx, recipeID)
}

// Create は認証済みユーザーとしてレシピにコメントを投稿します。
func (u *commentUsecase) Create(ctx context.Context, userID, recipeID uint, text string) (*entity.Comment, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrForbidden
	}
	if user.Deleted || !user.IsActive {
		return nil, ErrForbidden
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validation.NewFieldError("comment_text", "This field is required.")
	}
	if len([]rune(text)) > maxCommentLength {
		return nil, validation.NewFieldError("comment_text", "This section is capped at 1000 characters.")
	}

	visible, err := u.recipes.ExistsVisible(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrRecipeNotFound
	}

	comment := &entity.Comment{
		RecipeID:    recipeID,
		UserID:      &user.ID,
		CommentText: text,
	}
	if err := u.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return u.comments.FindByID(ctx, comment.ID)
}

// Delete はコメントを物理削除します。管理者のみ実行できます。
func (u *commentUsecase) Delete(ctx context.Context, userID, commentID uint) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return ErrForbidden
	}
	if user.Deleted || !user.IsActive || !user.IsAdmin {
		return ErrForbidden
	}
	if _, err := u.comments.FindByID(ctx, commentID); err != nil {
		return err
	}
	return u.comments.Delete(ctx, commentID)
}
