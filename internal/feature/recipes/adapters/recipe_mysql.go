// Package adapters はrecipesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"recipe_backend/internal/feature/recipes/domain/entity"
	"recipe_backend/internal/feature/recipes/usecase"
)

// recipeMySQL はRecipeRepositoryインターフェースのMySQL実装です。
// ネストされたセクションツリーの書き込みはすべて単一トランザクションで行います。
type recipeMySQL struct {
	db *gorm.DB
}

// recipeMySQLがRecipeRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.RecipeRepository = (*recipeMySQL)(nil)

// NewRecipeMySQL は指定されたgorm.DB接続でrecipeMySQLの新しいインスタンスを生成します。
func NewRecipeMySQL(db *gorm.DB) *recipeMySQL {
	return &recipeMySQL{db: db}
}

// Create はレシピ本体とセクションツリーを1つのトランザクションで保存します。
// GORMのアソシエーション書き込みが子行のrecipe_id / section_idを設定します。
func (r *recipeMySQL) Create(ctx context.Context, recipe *entity.Recipe) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(recipe).Error
	})
	if err != nil {
		// MySQLエラー1062: ユニークキーの重複エントリ（同時作成時のレース）
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return usecase.ErrDuplicateName
		}
		return err
	}
	return nil
}

// Update はスカラーを上書きし、指定された種別のセクションツリーを
// 全削除してから再作成します。部分的なマージは行いません。
func (r *recipeMySQL) Update(ctx context.Context, recipe *entity.Recipe, replaceIngredients, replaceInstructions bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replaceIngredients {
			// sqliteでは外部キーのカスケードが保証されないため、
			// 子→親の順で明示的に削除する
			if err := tx.Where(
				"section_id IN (?)",
				tx.Model(&entity.IngredientSection{}).Select("id").Where("recipe_id = ?", recipe.ID),
			).Delete(&entity.Ingredient{}).Error; err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entity.IngredientSection{}).Error; err != nil {
				return err
			}
		}
		if replaceInstructions {
			if err := tx.Where(
				"section_id IN (?)",
				tx.Model(&entity.InstructionSection{}).Select("id").Where("recipe_id = ?", recipe.ID),
			).Delete(&entity.Instruction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entity.InstructionSection{}).Error; err != nil {
				return err
			}
		}

		// スカラーは常に保存し、ツリーの書き込みは下の明示的なCreateに任せる
		if err := tx.Omit("IngredientSections", "InstructionSections", "User").Save(recipe).Error; err != nil {
			return err
		}

		if replaceIngredients {
			for i := range recipe.IngredientSections {
				recipe.IngredientSections[i].ID = 0
				recipe.IngredientSections[i].RecipeID = recipe.ID
				for j := range recipe.IngredientSections[i].Ingredients {
					recipe.IngredientSections[i].Ingredients[j].ID = 0
					recipe.IngredientSections[i].Ingredients[j].SectionID = 0
				}
				if err := tx.Create(&recipe.IngredientSections[i]).Error; err != nil {
					return err
				}
			}
		}
		if replaceInstructions {
			for i := range recipe.InstructionSections {
				recipe.InstructionSections[i].ID = 0
				recipe.InstructionSections[i].RecipeID = recipe.ID
				for j := range recipe.InstructionSections[i].Instructions {
					recipe.InstructionSections[i].Instructions[j].ID = 0
					recipe.InstructionSections[i].Instructions[j].SectionID = 0
				}
				if err := tx.Create(&recipe.InstructionSections[i]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return usecase.ErrDuplicateName
		}
		return err
	}
	return nil
}

// FindByID は削除されていないレシピをセクションツリーと作成者付きで取得します。
// セクションとアイテムはペイロードで指定された順序どおりに並べて返します。
func (r *recipeMySQL) FindByID(ctx context.Context, id uint) (*entity.Recipe, error) {
	var recipe entity.Recipe
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("IngredientSections", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredient_sections.section_order ASC")
		}).
		Preload("IngredientSections.Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredients.ingredient_order ASC")
		}).
		Preload("InstructionSections", func(db *gorm.DB) *gorm.DB {
			return db.Order("instruction_sections.section_order ASC")
		}).
		Preload("InstructionSections.Instructions", func(db *gorm.DB) *gorm.DB {
			return db.Order("instructions.step_order ASC")
		}).
		Where("id = ? AND deleted = ?", id, false).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List は絞り込み条件に一致するレシピのページと総件数を返します。
// 検索語あり時は名前一致をレシピ名一致→材料のみ一致の順で並べ、
// それ以外は新着順です。
func (r *recipeMySQL) List(ctx context.Context, filter usecase.ListFilter) ([]entity.Recipe, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Recipe{}).Where("recipes.deleted = ?", false)

	searching := filter.Search != ""
	pattern := ""
	if searching {
		pattern = "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(recipes.recipe_name) LIKE ? OR EXISTS ("+
				"SELECT 1 FROM ingredients "+
				"JOIN ingredient_sections ON ingredients.section_id = ingredient_sections.id "+
				"WHERE ingredient_sections.recipe_id = recipes.id "+
				"AND LOWER(ingredients.ingredient_name) LIKE ?)",
			pattern, pattern,
		)
	}

	if filter.CourseType != "" {
		q = q.Where("recipes.course_type = ?", filter.CourseType)
	}
	if filter.RecipeType != "" {
		q = q.Where("recipes.recipe_type = ?", filter.RecipeType)
	}
	if filter.PrimaryProtein != "" {
		q = q.Where("recipes.primary_protein = ?", filter.PrimaryProtein)
	}
	if filter.EthnicStyle != "" {
		q = q.Where("recipes.ethnic_style = ?", filter.EthnicStyle)
	}
	if filter.UploadedBy != 0 {
		q = q.Where("recipes.user_id = ?", filter.UploadedBy)
	}
	if filter.MinServings != 0 {
		// 10は歴史的に「10人以上」の専用バケットだったが、しきい値としては他の値と同じ
		if filter.MinServings == 10 {
			q = q.Where("recipes.number_servings >= ?", 10)
		} else {
			q = q.Where("recipes.number_servings >= ?", filter.MinServings)
		}
	}
	switch filter.TimeNeeded {
	case usecase.TimeLessThan30:
		q = q.Where("recipes.prep_time + recipes.cook_time <= ?", 30)
	case usecase.Time30To60:
		q = q.Where("recipes.prep_time + recipes.cook_time BETWEEN ? AND ?", 31, 60)
	case usecase.Time60To120:
		q = q.Where("recipes.prep_time + recipes.cook_time BETWEEN ? AND ?", 61, 120)
	case usecase.TimeMoreThan120:
		q = q.Where("recipes.prep_time + recipes.cook_time > ?", 120)
	}

	// ソート・ページングを適用する前に総件数を数える
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if searching {
		q = q.Select(
			"recipes.*, CASE WHEN LOWER(recipes.recipe_name) LIKE ? THEN 0 ELSE 1 END AS name_match",
			pattern,
		).Order("name_match ASC, recipes.created_at DESC")
	} else {
		q = q.Order("recipes.created_at DESC")
	}

	offset := (filter.Page - 1) * usecase.PageSize
	var recipes []entity.Recipe
	if err := q.Preload("User").
		Offset(offset).
		Limit(usecase.PageSize).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ExistsByName は大文字小文字を区別しない同名レシピの有無を返します。
// 論理削除済みの行も対象です。行が残る以上、名前は再利用できません。
func (r *recipeMySQL) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&entity.Recipe{}).
		Where("LOWER(recipe_name) = ?", strings.ToLower(name))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsVisible は削除されていないレシピが存在するか返します。
// コメント投稿時の存在確認など、ツリーを読まない軽量チェック用です。
func (r *recipeMySQL) ExistsVisible(ctx context.Context, recipeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Recipe{}).
		Where("id = ? AND deleted = ?", recipeID, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SoftDelete はレシピを論理削除します。行と子ツリーは残ります。
func (r *recipeMySQL) SoftDelete(ctx context.Context, id uint) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&entity.Recipe{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]any{"deleted": true, "deleted_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrRecipeNotFound
	}
	return nil
}
