// Package usecase はrecipesフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"strings"

	authentity "recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/recipes/domain/entity"
)

// RecipeRepository はレシピツリーの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type RecipeRepository interface {
	// Create はレシピ本体とネストされたセクション・アイテムを
	// 1つのトランザクションで永続化します。
	Create(ctx context.Context, recipe *entity.Recipe) error

	// Update はスカラーフィールドを上書きし、replaceIngredients /
	// replaceInstructionsが真のセクション種別について既存セクションを全削除して
	// ペイロードの内容で再作成します。全体が1つのトランザクションになります。
	Update(ctx context.Context, recipe *entity.Recipe, replaceIngredients, replaceInstructions bool) error

	// FindByID は削除されていないレシピをツリーと作成者付きで取得します。
	// 論理削除済み・存在しないIDはどちらもErrRecipeNotFoundになります。
	FindByID(ctx context.Context, id uint) (*entity.Recipe, error)

	// List は絞り込み条件に一致するレシピのページと総件数を返します。
	List(ctx context.Context, filter ListFilter) ([]entity.Recipe, int64, error)

	// ExistsByName は大文字小文字を区別せず同名レシピの有無を返します。
	// excludeIDが0以外の場合、そのレシピ自身は除外されます。
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)

	// SoftDelete はレシピを論理削除します。行は残ります。
	SoftDelete(ctx context.Context, id uint) error
}

// UserGetter は権限判定に必要なユーザー取得を抽象化します。
// auth側のUserRepositoryがこれを満たします。
type UserGetter interface {
	FindByID(ctx context.Context, id uint) (*authentity.User, error)
}

// UpdateRecipeInput はレシピ更新の入力です。nilのスカラーは変更されません。
// セクション配列はnilなら既存ツリーを維持し、非nilなら全置換します。
type UpdateRecipeInput struct {
	RecipeName        *string
	RecipeDescription *string
	RecipeImage       *string
	CourseType        *string
	RecipeType        *string
	PrimaryProtein    *string
	EthnicStyle       *string
	PrepTime          *int
	CookTime          *int
	NumberServings    *int

	IngredientSections  []entity.IngredientSection
	InstructionSections []entity.InstructionSection
}

// recipeUsecase はレシピ操作のビジネスロジックを実装します。
type recipeUsecase struct {
	recipes RecipeRepository
	users   UserGetter
}

// NewRecipeUsecase はrecipeUsecaseの新しいインスタンスを生成します。
func NewRecipeUsecase(recipes RecipeRepository, users UserGetter) *recipeUsecase {
	return &recipeUsecase{recipes: recipes, users: users}
}

// requireActiveUser は操作主体のユーザーを取得します。
// 削除済み・無効化済みアカウントは書き込み操作を行えません。
func (u *recipeUsecase) requireActiveUser(ctx context.Context, userID uint) (*authentity.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrForbidden
	}
	if user.Deleted || !user.IsActive {
		return nil, ErrForbidden
	}
	return user, nil
}

// canModify はユーザーがレシピを変更できるか判定します。
// 所有者本人または管理者のみ変更できます。
func canModify(user *authentity.User, recipe *entity.Recipe) bool {
	if user.IsAdmin {
		return true
	}
	return recipe.UserID != nil && *recipe.UserID == user.ID
}

// Create は新しいレシピをネストされたツリーごと作成します。
// バリデーションはすべて永続化の前に行われ、途中で失敗した場合は何も保存されません。
func (u *recipeUsecase) Create(ctx context.Context, userID uint, recipe *entity.Recipe) (*entity.Recipe, error) {
	user, err := u.requireActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := validateScalars(recipe); err != nil {
		return nil, err
	}
	if err := validateIngredientSections(recipe.IngredientSections); err != nil {
		return nil, err
	}
	if err := validateInstructionSections(recipe.InstructionSections); err != nil {
		return nil, err
	}

	// 大文字小文字を区別しない事前チェック。同時作成のレースは
	// ストア側のユニーク制約が拾い、adapterが同じエラーに変換する
	exists, err := u.recipes.ExistsByName(ctx, recipe.RecipeName, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	ownerID := user.ID
	recipe.UserID = &ownerID

	if err := u.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return u.recipes.FindByID(ctx, recipe.ID)
}

// Get は削除されていないレシピをツリー付きで取得します。
func (u *recipeUsecase) Get(ctx context.Context, id uint) (*entity.Recipe, error) {
	return u.recipes.FindByID(ctx, id)
}

// List は絞り込み条件を正規化して一覧ページと総件数を返します。
func (u *recipeUsecase) List(ctx context.Context, filter ListFilter) ([]entity.Recipe, int64, error) {
	return u.recipes.List(ctx, filter.Normalize())
}

// Update はレシピを更新します。所有者または管理者のみ実行できます。
//
// セクション配列が指定された種別は既存セクションを全削除して再作成します
// （差分マージは行いません）。指定されなかった種別は既存ツリーを維持します。
func (u *recipeUsecase) Update(ctx context.Context, userID, recipeID uint, in UpdateRecipeInput) (*entity.Recipe, error) {
	user, err := u.requireActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	recipe, err := u.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !canModify(user, recipe) {
		return nil, ErrForbidden
	}

	if in.RecipeName != nil {
		recipe.RecipeName = *in.RecipeName
	}
	if in.RecipeDescription != nil {
		recipe.RecipeDescription = *in.RecipeDescription
	}
	if in.RecipeImage != nil {
		recipe.RecipeImage = strings.TrimSpace(*in.RecipeImage)
	}
	if in.CourseType != nil {
		recipe.CourseType = *in.CourseType
	}
	if in.RecipeType != nil {
		recipe.RecipeType = *in.RecipeType
	}
	if in.PrimaryProtein != nil {
		recipe.PrimaryProtein = *in.PrimaryProtein
	}
	if in.EthnicStyle != nil {
		recipe.EthnicStyle = *in.EthnicStyle
	}
	if in.PrepTime != nil {
		recipe.PrepTime = *in.PrepTime
	}
	if in.CookTime != nil {
		recipe.CookTime = *in.CookTime
	}
	if in.NumberServings != nil {
		recipe.NumberServings = *in.NumberServings
	}

	replaceIngredients := in.IngredientSections != nil
	replaceInstructions := in.InstructionSections != nil
	if replaceIngredients {
		recipe.IngredientSections = in.IngredientSections
	}
	if replaceInstructions {
		recipe.InstructionSections = in.InstructionSections
	}

	if err := validateScalars(recipe); err != nil {
		return nil, err
	}
	// 置換されないセクションは既存の不変条件（各種別1つ以上）を満たしている
	if replaceIngredients {
		if err := validateIngredientSections(recipe.IngredientSections); err != nil {
			return nil, err
		}
	}
	if replaceInstructions {
		if err := validateInstructionSections(recipe.InstructionSections); err != nil {
			return nil, err
		}
	}

	// 自分自身は除外して同名チェック（大文字小文字違いの自名維持は許可）
	exists, err := u.recipes.ExistsByName(ctx, recipe.RecipeName, recipe.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	if err := u.recipes.Update(ctx, recipe, replaceIngredients, replaceInstructions); err != nil {
		return nil, err
	}
	return u.recipes.FindByID(ctx, recipe.ID)
}

// SoftDelete はレシピを論理削除します。所有者または管理者のみ実行できます。
func (u *recipeUsecase) SoftDelete(ctx context.Context, userID, recipeID uint) error {
	user, err := u.requireActiveUser(ctx, userID)
	if err != nil {
		return err
	}

	recipe, err := u.recipes.FindByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if !canModify(user, recipe) {
		return ErrForbidden
	}
	return u.recipes.SoftDelete(ctx, recipeID)
}
