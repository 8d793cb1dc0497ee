package dto

import (
	"strings"
	"time"

	"recipe_backend/internal/feature/recipes/domain/entity"
)

// DefaultRecipeImageURL は画像未設定のレシピ一覧サムネイルに使う画像です。
const DefaultRecipeImageURL = "https://as1.ftcdn.net/v2/jpg/00/81/88/98/1000_F_81889870_D1KroNymRQ1EfNZu8GDR0ZOxQSgocxUf.jpg"

// thumbnailTransform はCloudinaryのURLに挿入する変換パラメータです。
const thumbnailTransform = "/upload/w_80,h_80,c_fill,q_auto,f_auto/"

// ThumbnailURL は一覧用のサムネイルURLを導出します。CloudinaryのURLには
// 変換パラメータを挿入し、それ以外のURLはそのまま返します。
// 画像未設定ならデフォルト画像になります。
func ThumbnailURL(imageURL string) string {
	if imageURL == "" {
		return DefaultRecipeImageURL
	}
	if !strings.Contains(imageURL, "cloudinary.com") {
		return imageURL
	}
	return strings.Replace(imageURL, "/upload/", thumbnailTransform, 1)
}

// RecipeListItem は一覧ページ1件分のレスポンスです。
type RecipeListItem struct {
	ID             uint      `json:"id"`
	RecipeName     string    `json:"recipe_name"`
	RecipeImage    string    `json:"recipe_image"`
	ThumbnailURL   string    `json:"thumbnail_url"`
	CourseType     string    `json:"course_type"`
	RecipeType     string    `json:"recipe_type"`
	PrimaryProtein string    `json:"primary_protein"`
	EthnicStyle    string    `json:"ethnic_style"`
	TotalTime      int       `json:"total_time"`
	NumberServings int       `json:"number_servings"`
	CreatedAt      time.Time `json:"created_at"`
	CreatorName    string    `json:"creator_name"`
}

// RecipeListItemFromEntity はRecipeエンティティから一覧アイテムを構築します。
func RecipeListItemFromEntity(r *entity.Recipe) RecipeListItem {
	return RecipeListItem{
		ID:             r.ID,
		RecipeName:     r.RecipeName,
		RecipeImage:    r.RecipeImage,
		ThumbnailURL:   ThumbnailURL(r.RecipeImage),
		CourseType:     r.CourseType,
		RecipeType:     r.RecipeType,
		PrimaryProtein: r.PrimaryProtein,
		EthnicStyle:    r.EthnicStyle,
		TotalTime:      r.TotalTime(),
		NumberServings: r.NumberServings,
		CreatedAt:      r.CreatedAt,
		CreatorName:    r.CreatorName(),
	}
}

// IngredientRes は材料1行のレスポンスです。
type IngredientRes struct {
	ID                 uint   `json:"id"`
	IngredientQuantity string `json:"ingredient_quantity"`
	IngredientUOM      string `json:"ingredient_uom"`
	IngredientName     string `json:"ingredient_name"`
	IngredientOrder    int    `json:"ingredient_order"`
}

// IngredientSectionRes は材料セクション1つのレスポンスです。
type IngredientSectionRes struct {
	ID           uint            `json:"id"`
	SectionTitle string          `json:"section_title"`
	SectionOrder int             `json:"section_order"`
	Ingredients  []IngredientRes `json:"ingredients"`
}

// InstructionRes は手順1ステップのレスポンスです。
type InstructionRes struct {
	ID              uint   `json:"id"`
	InstructionStep string `json:"instruction_step"`
	StepOrder       int    `json:"step_order"`
}

// InstructionSectionRes は手順セクション1つのレスポンスです。
type InstructionSectionRes struct {
	ID           uint             `json:"id"`
	SectionTitle string           `json:"section_title"`
	SectionOrder int              `json:"section_order"`
	Instructions []InstructionRes `json:"instructions"`
}

// RecipeDetailRes はレシピ詳細のレスポンスです。
type RecipeDetailRes struct {
	ID                uint      `json:"id"`
	RecipeName        string    `json:"recipe_name"`
	RecipeDescription string    `json:"recipe_description"`
	RecipeImage       string    `json:"recipe_image"`
	CourseType        string    `json:"course_type"`
	RecipeType        string    `json:"recipe_type"`
	PrimaryProtein    string    `json:"primary_protein"`
	EthnicStyle       string    `json:"ethnic_style"`
	PrepTime          int       `json:"prep_time"`
	CookTime          int       `json:"cook_time"`
	TotalTime         int       `json:"total_time"`
	NumberServings    int       `json:"number_servings"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	CreatorName       string    `json:"creator_name"`
	CreatorID         *uint     `json:"creator_id"`

	IngredientSections  []IngredientSectionRes  `json:"ingredient_sections"`
	InstructionSections []InstructionSectionRes `json:"instruction_sections"`
}

// RecipeDetailFromEntity はRecipeエンティティから詳細レスポンスを構築します。
func RecipeDetailFromEntity(r *entity.Recipe) RecipeDetailRes {
	ingSections := make([]IngredientSectionRes, 0, len(r.IngredientSections))
	for _, s := range r.IngredientSections {
		items := make([]IngredientRes, 0, len(s.Ingredients))
		for _, ing := range s.Ingredients {
			items = append(items, IngredientRes{
				ID:                 ing.ID,
				IngredientQuantity: ing.IngredientQuantity,
				IngredientUOM:      ing.IngredientUOM,
				IngredientName:     ing.IngredientName,
				IngredientOrder:    ing.IngredientOrder,
			})
		}
		ingSections = append(ingSections, IngredientSectionRes{
			ID:           s.ID,
			SectionTitle: s.SectionTitle,
			SectionOrder: s.SectionOrder,
			Ingredients:  items,
		})
	}

	insSections := make([]InstructionSectionRes, 0, len(r.InstructionSections))
	for _, s := range r.InstructionSections {
		steps := make([]InstructionRes, 0, len(s.Instructions))
		for _, st := range s.Instructions {
			steps = append(steps, InstructionRes{
				ID:              st.ID,
				InstructionStep: st.InstructionStep,
				StepOrder:       st.StepOrder,
			})
		}
		insSections = append(insSections, InstructionSectionRes{
			ID:           s.ID,
			SectionTitle: s.SectionTitle,
			SectionOrder: s.SectionOrder,
			Instructions: steps,
		})
	}

	return RecipeDetailRes{
		ID:                  r.ID,
		RecipeName:          r.RecipeName,
		RecipeDescription:   r.RecipeDescription,
		RecipeImage:         r.RecipeImage,
		CourseType:          r.CourseType,
		RecipeType:          r.RecipeType,
		PrimaryProtein:      r.PrimaryProtein,
		EthnicStyle:         r.EthnicStyle,
		PrepTime:            r.PrepTime,
		CookTime:            r.CookTime,
		TotalTime:           r.TotalTime(),
		NumberServings:      r.NumberServings,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		CreatorName:         r.CreatorName(),
		CreatorID:           r.CreatorID(),
		IngredientSections:  ingSections,
		InstructionSections: insSections,
	}
}
