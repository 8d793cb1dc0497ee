package dto

import "recipe_backend/internal/feature/recipes/domain/entity"

// IngredientReq は材料1行の入力です。分量・単位は省略可能です。
type IngredientReq struct {
	IngredientQuantity string `json:"ingredient_quantity"`
	IngredientUOM      string `json:"ingredient_uom"`
	IngredientName     string `json:"ingredient_name"`
	IngredientOrder    int    `json:"ingredient_order"`
}

// IngredientSectionReq は材料セクション1つの入力です。
type IngredientSectionReq struct {
	SectionTitle string          `json:"section_title"`
	SectionOrder int             `json:"section_order"`
	Ingredients  []IngredientReq `json:"ingredients"`
}

// InstructionReq は手順1ステップの入力です。
type InstructionReq struct {
	InstructionStep string `json:"instruction_step"`
	StepOrder       int    `json:"step_order"`
}

// InstructionSectionReq は手順セクション1つの入力です。
type InstructionSectionReq struct {
	SectionTitle string           `json:"section_title"`
	SectionOrder int              `json:"section_order"`
	Instructions []InstructionReq `json:"instructions"`
}

// CreateRecipeReq はレシピ作成（およびPUTによる全量更新）のリクエストボディです。
// 必須チェックと文字数上限はusecase側で行い、フィールド単位のエラーを返します。
type CreateRecipeReq struct {
	RecipeName        string `json:"recipe_name"`
	RecipeDescription string `json:"recipe_description"`
	RecipeImage       string `json:"recipe_image"`
	CourseType        string `json:"course_type"`
	RecipeType        string `json:"recipe_type"`
	PrimaryProtein    string `json:"primary_protein"`
	EthnicStyle       string `json:"ethnic_style"`
	PrepTime          int    `json:"prep_time"`
	CookTime          int    `json:"cook_time"`
	NumberServings    int    `json:"number_servings"`

	IngredientSections  []IngredientSectionReq  `json:"ingredient_sections"`
	InstructionSections []InstructionSectionReq `json:"instruction_sections"`
}

// PatchRecipeReq はレシピの部分更新のリクエストボディです。
// nilのスカラーは変更されず、セクション配列は指定された種別のみ全置換されます。
type PatchRecipeReq struct {
	RecipeName        *string `json:"recipe_name"`
	RecipeDescription *string `json:"recipe_description"`
	RecipeImage       *string `json:"recipe_image"`
	CourseType        *string `json:"course_type"`
	RecipeType        *string `json:"recipe_type"`
	PrimaryProtein    *string `json:"primary_protein"`
	EthnicStyle       *string `json:"ethnic_style"`
	PrepTime          *int    `json:"prep_time"`
	CookTime          *int    `json:"cook_time"`
	NumberServings    *int    `json:"number_servings"`

	IngredientSections  []IngredientSectionReq  `json:"ingredient_sections"`
	InstructionSections []InstructionSectionReq `json:"instruction_sections"`
}

// IngredientSectionsToEntity はDTOの材料セクション配列をエンティティに変換します。
func IngredientSectionsToEntity(in []IngredientSectionReq) []entity.IngredientSection {
	if in == nil {
		return nil
	}
	sections := make([]entity.IngredientSection, 0, len(in))
	for _, s := range in {
		items := make([]entity.Ingredient, 0, len(s.Ingredients))
		for _, ing := range s.Ingredients {
			items = append(items, entity.Ingredient{
				IngredientQuantity: ing.IngredientQuantity,
				IngredientUOM:      ing.IngredientUOM,
				IngredientName:     ing.IngredientName,
				IngredientOrder:    ing.IngredientOrder,
			})
		}
		sections = append(sections, entity.IngredientSection{
			SectionTitle: s.SectionTitle,
			SectionOrder: s.SectionOrder,
			Ingredients:  items,
		})
	}
	return sections
}

// InstructionSectionsToEntity はDTOの手順セクション配列をエンティティに変換します。
func InstructionSectionsToEntity(in []InstructionSectionReq) []entity.InstructionSection {
	if in == nil {
		return nil
	}
	sections := make([]entity.InstructionSection, 0, len(in))
	for _, s := range in {
		steps := make([]entity.Instruction, 0, len(s.Instructions))
		for _, st := range s.Instructions {
			steps = append(steps, entity.Instruction{
				InstructionStep: st.InstructionStep,
				StepOrder:       st.StepOrder,
			})
		}
		sections = append(sections, entity.InstructionSection{
			SectionTitle: s.SectionTitle,
			SectionOrder: s.SectionOrder,
			Instructions: steps,
		})
	}
	return sections
}

// ToEntity はCreateRecipeReqをRecipeエンティティに変換します。
func (r CreateRecipeReq) ToEntity() *entity.Recipe {
	return &entity.Recipe{
		RecipeName:          r.RecipeName,
		RecipeDescription:   r.RecipeDescription,
		RecipeImage:         r.RecipeImage,
		CourseType:          r.CourseType,
		RecipeType:          r.RecipeType,
		PrimaryProtein:      r.PrimaryProtein,
		EthnicStyle:         r.EthnicStyle,
		PrepTime:            r.PrepTime,
		CookTime:            r.CookTime,
		NumberServings:      r.NumberServings,
		IngredientSections:  IngredientSectionsToEntity(r.IngredientSections),
		InstructionSections: InstructionSectionsToEntity(r.InstructionSections),
	}
}
