package usecase

import "strings"

const (
	// PageSize is the fixed page size for recipe listings.
	PageSize = 20

	// MinSearchLength より短い検索文字列は無視され、絞り込みなしの結果を返します。
	MinSearchLength = 2
)

// time_needed クエリパラメータの固定バケット。
const (
	TimeLessThan30  = "less_than_30"  // total_time <= 30
	Time30To60      = "30_to_60"      // 30 < total_time <= 60
	Time60To120     = "60_to_120"     // 60 < total_time <= 120
	TimeMoreThan120 = "more_than_120" // total_time > 120
)

// ListFilter はレシピ一覧の絞り込み条件です。各フィールドは独立して任意です。
// ゼロ値のフィールドは適用されません。
type ListFilter struct {
	// Search はレシピ名または含まれる食材名に対する大文字小文字を区別しない
	// 部分一致検索です。2文字未満は無視されます。
	Search string

	CourseType     string
	RecipeType     string
	PrimaryProtein string
	EthnicStyle    string

	// UploadedBy は作成者のユーザーIDで絞り込みます。
	UploadedBy uint

	// MinServings は人数での絞り込みです。10は「10人以上」を意味し、
	// それ以外の値は完全一致です。
	MinServings int

	// TimeNeeded はTimeLessThan30などの固定バケット名です。
	TimeNeeded string

	// Page は1始まりのページ番号です。
	Page int
}

// Normalize は検索文字列のトリムと最低文字数の適用、ページ番号の補正を行います。
func (f ListFilter) Normalize() ListFilter {
	f.Search = strings.TrimSpace(f.Search)
	if len(f.Search) < MinSearchLength {
		f.Search = ""
	}
	if f.Page < 1 {
		f.Page = 1
	}
	return f
}
