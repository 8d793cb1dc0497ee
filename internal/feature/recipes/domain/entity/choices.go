package entity

// 分類フィールドの選択肢。ピックリストの値はフロントエンドの表示と一致させます。
var (
	// CourseTypes はコース種別の選択肢です。
	CourseTypes = []string{
		"Breakfast", "Lunch", "Snacks", "Appetizer", "Dinner", "Breads", "Dessert",
	}

	// RecipeTypes はレシピ種別の選択肢です。
	RecipeTypes = []string{
		"Entrée (Main)", "Soup", "Salad", "Pizza", "Pasta", "Starter", "Side Dish", "Sauce",
	}

	// PrimaryProteins は主タンパク源の選択肢です。
	PrimaryProteins = []string{
		"Beef", "Chicken", "Fish", "Pork", "Turkey", "Vegetarian", "None",
	}

	// EthnicStyles は料理スタイルの選択肢です。
	EthnicStyles = []string{
		"American", "Chinese", "Caribbean", "Indian", "Italian", "Korean",
		"Mediterranean / Greek", "Mexican / Tex-Mex", "Middle Eastern", "Thai",
	}
)

// IsValidChoice は値が選択肢に含まれるか返します。
func IsValidChoice(choices []string, value string) bool {
	for _, c := range choices {
		if c == value {
			return true
		}
	}
	return false
}
