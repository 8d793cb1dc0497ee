// Package handler はrecipesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/api"
	"recipe_backend/internal/feature/recipes/domain/entity"
	"recipe_backend/internal/feature/recipes/transport/http/dto"
	"recipe_backend/internal/feature/recipes/usecase"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/shared/validation"
)

// RecipeUsecase はレシピ操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type RecipeUsecase interface {
	Create(ctx context.Context, userID uint, recipe *entity.Recipe) (*entity.Recipe, error)
	Get(ctx context.Context, id uint) (*entity.Recipe, error)
	List(ctx context.Context, filter usecase.ListFilter) ([]entity.Recipe, int64, error)
	Update(ctx context.Context, userID, recipeID uint, in usecase.UpdateRecipeInput) (*entity.Recipe, error)
	SoftDelete(ctx context.Context, userID, recipeID uint) error
}

// RecipeHandler はレシピ操作のHTTPリクエストを処理します。
type RecipeHandler struct {
	recipes RecipeUsecase
}

// NewRecipeHandler はRecipeHandlerの新しいインスタンスを生成します。
func NewRecipeHandler(recipes RecipeUsecase) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// currentUserID はJWTミドルウェアが設定した認証済みユーザーIDを取得します。
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(jwtmw.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// recipeIDParam はパスパラメータのレシピIDをパースします。
func recipeIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// filterFromQuery はクエリパラメータから絞り込み条件を構築します。
// 不正な数値はゼロ値（絞り込みなし・1ページ目）として扱います。
func filterFromQuery(c *gin.Context) usecase.ListFilter {
	f := usecase.ListFilter{
		Search:         c.Query("search"),
		CourseType:     c.Query("course_type"),
		RecipeType:     c.Query("recipe_type"),
		PrimaryProtein: c.Query("primary_protein"),
		EthnicStyle:    c.Query("ethnic_style"),
		TimeNeeded:     c.Query("time_needed"),
	}
	if v, err := strconv.ParseUint(c.Query("uploaded_by"), 10, 64); err == nil {
		f.UploadedBy = uint(v)
	}
	if v, err := strconv.Atoi(c.Query("min_servings")); err == nil {
		f.MinServings = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		f.Page = v
	}
	return f
}

// List はレシピ一覧APIエンドポイントを処理します。認証不要です。
// 検索・カテゴリ絞り込み・ページング付きのページを返します。
func (h *RecipeHandler) List(c *gin.Context) {
	filter := filterFromQuery(c)
	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("recipe list failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	items := make([]dto.RecipeListItem, 0, len(recipes))
	for i := range recipes {
		items = append(items, dto.RecipeListItemFromEntity(&recipes[i]))
	}
	page := filter.Normalize().Page
	c.JSON(http.StatusOK, api.PagedResponse{
		Count:    total,
		Page:     page,
		PageSize: usecase.PageSize,
		Results:  items,
	})
}

// Get はレシピ詳細APIエンドポイントを処理します。認証不要です。
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "recipe not found"})
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "recipe not found"})
			return
		}
		slog.Error("recipe get failed", "error", err, "recipe_id", id)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.RecipeDetailFromEntity(recipe))
}

// Create はレシピ作成APIエンドポイントを処理します。
// - バリデーションエラー時はフィールド単位のエラー付き400を返却
// - 同名レシピが存在する場合は400を返却
// - 成功時は作成されたレシピの詳細付きで201を返却
func (h *RecipeHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}
	var req dto.CreateRecipeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	recipe, err := h.recipes.Create(c.Request.Context(), userID, req.ToEntity())
	if err != nil {
		h.writeMutationError(c, err, "recipe create failed")
		return
	}
	slog.Info("recipe created", "recipe_id", recipe.ID, "user_id", userID)
	c.JSON(http.StatusCreated, dto.RecipeDetailFromEntity(recipe))
}

// Update はレシピのPUT（全量）更新を処理します。
// 作成と同じボディを受け取り、両方のセクションツリーを全置換します。
func (h *RecipeHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}
	id, ok := recipeIDParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "recipe not found"})
		return
	}
	var req dto.CreateRecipeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	in := usecase.UpdateRecipeInput{
		RecipeName:        &req.RecipeName,
		RecipeDescription: &req.RecipeDescription,
		RecipeImage:       &req.RecipeImage,
		CourseType:        &req.CourseType,
		RecipeType:        &req.RecipeType,
		PrimaryProtein:    &req.PrimaryProtein,
		EthnicStyle:       &req.EthnicStyle,
		PrepTime:          &req.PrepTime,
		CookTime:          &req.CookTime,
		NumberServings:    &req.NumberServings,
		// PUTではセクション未指定でも空スライスとして全置換し、
		// 必須チェック（各種別1つ以上）に掛ける
		IngredientSections:  ingredientSectionsForPut(req.IngredientSections),
		InstructionSections: instructionSectionsForPut(req.InstructionSections),
	}
	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		h.writeMutationError(c, err, "recipe update failed")
		return
	}
	c.JSON(http.StatusOK, dto.RecipeDetailFromEntity(recipe))
}

// Patch はレシピの部分更新を処理します。指定されたフィールドだけを
// 変更し、セクション配列は指定された種別のみ全置換します。
func (h *RecipeHandler) Patch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}
	id, ok := recipeIDParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "recipe not found"})
		return
	}
	var req dto.PatchRecipeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	in := usecase.UpdateRecipeInput{
		RecipeName:          req.RecipeName,
		RecipeDescription:   req.RecipeDescription,
		RecipeImage:         req.RecipeImage,
		CourseType:          req.CourseType,
		RecipeType:          req.RecipeType,
		PrimaryProtein:      req.PrimaryProtein,
		EthnicStyle:         req.EthnicStyle,
		PrepTime:            req.PrepTime,
		CookTime:            req.CookTime,
		NumberServings:      req.NumberServings,
		IngredientSections:  dto.IngredientSectionsToEntity(req.IngredientSections),
		InstructionSections: dto.InstructionSectionsToEntity(req.InstructionSections),
	}
	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		h.writeMutationError(c, err, "recipe patch failed")
		return
	}
	c.JSON(http.StatusOK, dto.RecipeDetailFromEntity(recipe))
}

// Delete はレシピの論理削除を処理します。所有者または管理者のみ実行できます。
func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}
	id, ok := recipeIDParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "recipe not found"})
		return
	}
	if err := h.recipes.SoftDelete(c.Request.Context(), userID, id); err != nil {
		h.writeMutationError(c, err, "recipe delete failed")
		return
	}
	slog.Info("recipe deleted", "recipe_id", id, "user_id", userID)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Recipe deleted successfully."})
}

// writeMutationError は書き込み系ユースケースのエラーをHTTPレスポンスに変換します。
func (h *RecipeHandler) writeMutationError(c *gin.Context, err error, logMsg string) {
	if fe, ok := validation.AsFieldError(err); ok {
		c.JSON(http.StatusBadRequest, api.FieldErrorResponse{Errors: map[string]string{fe.Field: fe.Message}})
		return
	}
	switch {
	case errors.Is(err, usecase.ErrDuplicateName):
		c.JSON(http.StatusBadRequest, api.FieldErrorResponse{Errors: map[string]string{
			"recipe_name": "This recipe name already exists. Try adding a unique descriptor.",
		}})
	case errors.Is(err, usecase.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "recipe not found"})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "you do not have permission to modify this recipe"})
	default:
		slog.Error(logMsg, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

// ingredientSectionsForPut はPUT用にnilを空スライスへ正規化して変換します。
func ingredientSectionsForPut(in []dto.IngredientSectionReq) []entity.IngredientSection {
	sections := dto.IngredientSectionsToEntity(in)
	if sections == nil {
		sections = []entity.IngredientSection{}
	}
	return sections
}

// instructionSectionsForPut はPUT用にnilを空スライスへ正規化して変換します。
func instructionSectionsForPut(in []dto.InstructionSectionReq) []entity.InstructionSection {
	sections := dto.InstructionSectionsToEntity(in)
	if sections == nil {
		sections = []entity.InstructionSection{}
	}
	return sections
}
