package usecase

import (
	"strings"

	"recipe_backend/internal/feature/recipes/domain/entity"
	"recipe_backend/internal/shared/validation"
)

// フィールドの文字数上限。original入力フォームの制限と一致させます。
const (
	maxNameLength        = 150
	maxDescriptionLength = 1000
	maxSectionTitleLen   = 150
	maxIngredientNameLen = 150
	maxIngredientQtyLen  = 20
	maxIngredientUOMLen  = 20
	maxInstructionLen    = 500
)

// cappedMessage は文字数上限超過のエラーメッセージを返します。
func cappedMessage(limit int) string {
	switch limit {
	case 20:
		return "This section is capped at 20 characters."
	case 150:
		return "This section is capped at 150 characters."
	case 500:
		return "This section is capped at 500 characters."
	case 1000:
		return "This section is capped at 1000 characters."
	}
	return "This section exceeds the allowed length."
}

// validateScalars はレシピのスカラーフィールドを検証し、値をトリムします。
// すべての検証は永続化の前に行われ、最初の違反でエラーを返します。
func validateScalars(r *entity.Recipe) error {
	r.RecipeName = strings.TrimSpace(r.RecipeName)
	if r.RecipeName == "" {
		return validation.NewFieldError("recipe_name", "Recipe name is required.")
	}
	if len(r.RecipeName) > maxNameLength {
		return validation.NewFieldError("recipe_name", cappedMessage(maxNameLength))
	}

	r.RecipeDescription = strings.TrimSpace(r.RecipeDescription)
	if r.RecipeDescription == "" {
		return validation.NewFieldError("recipe_description", "Recipe description is required.")
	}
	if len(r.RecipeDescription) > maxDescriptionLength {
		return validation.NewFieldError("recipe_description", cappedMessage(maxDescriptionLength))
	}

	if !entity.IsValidChoice(entity.CourseTypes, r.CourseType) {
		return validation.NewFieldError("course_type", "Invalid course type.")
	}
	if !entity.IsValidChoice(entity.RecipeTypes, r.RecipeType) {
		return validation.NewFieldError("recipe_type", "Invalid recipe type.")
	}
	if !entity.IsValidChoice(entity.PrimaryProteins, r.PrimaryProtein) {
		return validation.NewFieldError("primary_protein", "Invalid primary protein.")
	}
	if !entity.IsValidChoice(entity.EthnicStyles, r.EthnicStyle) {
		return validation.NewFieldError("ethnic_style", "Invalid ethnic style.")
	}

	if r.PrepTime < 0 {
		return validation.NewFieldError("prep_time", "Prep time must be 0 or greater.")
	}
	if r.CookTime < 0 {
		return validation.NewFieldError("cook_time", "Cook time must be 0 or greater.")
	}
	if r.NumberServings < 1 {
		return validation.NewFieldError("number_servings", "Number of servings must be 1 or greater.")
	}
	return nil
}

// validateIngredientSections は食材セクションツリーを検証します。
// レシピは必ず1つ以上のセクションを持ち、各セクションは1つ以上の食材を持ちます。
func validateIngredientSections(sections []entity.IngredientSection) error {
	if len(sections) == 0 {
		return validation.NewFieldError("ingredient_sections", "Recipe must have at least one ingredient section.")
	}
	for i := range sections {
		s := &sections[i]
		s.SectionTitle = strings.TrimSpace(s.SectionTitle)
		if len(s.SectionTitle) > maxSectionTitleLen {
			return validation.NewFieldError("ingredient_sections", cappedMessage(maxSectionTitleLen))
		}
		if len(s.Ingredients) == 0 {
			return validation.NewFieldError("ingredient_sections", "Each ingredient section must have at least one ingredient.")
		}
		for j := range s.Ingredients {
			ing := &s.Ingredients[j]
			ing.IngredientName = strings.TrimSpace(ing.IngredientName)
			if ing.IngredientName == "" {
				return validation.NewFieldError("ingredient_sections", "Ingredient name is required.")
			}
			if len(ing.IngredientName) > maxIngredientNameLen {
				return validation.NewFieldError("ingredient_sections", cappedMessage(maxIngredientNameLen))
			}
			if len(ing.IngredientQuantity) > maxIngredientQtyLen {
				return validation.NewFieldError("ingredient_sections", cappedMessage(maxIngredientQtyLen))
			}
			if len(ing.IngredientUOM) > maxIngredientUOMLen {
				return validation.NewFieldError("ingredient_sections", cappedMessage(maxIngredientUOMLen))
			}
		}
	}
	return nil
}

// validateInstructionSections は手順セクションツリーを検証します。
// レシピは必ず1つ以上のセクションを持ち、各セクションは1つ以上の手順を持ちます。
func validateInstructionSections(sections []entity.InstructionSection) error {
	if len(sections) == 0 {
		return validation.NewFieldError("instruction_sections", "Recipe must have at least one instruction section.")
	}
	for i := range sections {
		s := &sections[i]
		s.SectionTitle = strings.TrimSpace(s.SectionTitle)
		if len(s.SectionTitle) > maxSectionTitleLen {
			return validation.NewFieldError("instruction_sections", cappedMessage(maxSectionTitleLen))
		}
		if len(s.Instructions) == 0 {
			return validation.NewFieldError("instruction_sections", "Each instruction section must have at least one step.")
		}
		for j := range s.Instructions {
			step := &s.Instructions[j]
			step.InstructionStep = strings.TrimSpace(step.InstructionStep)
			if step.InstructionStep == "" {
				return validation.NewFieldError("instruction_sections", "Instruction step is required.")
			}
			if len(step.InstructionStep) > maxInstructionLen {
				return validation.NewFieldError("instruction_sections", cappedMessage(maxInstructionLen))
			}
		}
	}
	return nil
}
