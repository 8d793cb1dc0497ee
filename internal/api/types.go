// Package api はHTTPトランスポート層で共有するレスポンス型を定義します。
package api

// ErrorResponse は単一のエラーメッセージを返すレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// FieldErrorResponse はフィールドごとのバリデーションエラーを返すレスポンスです。
type FieldErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// MessageResponse は処理結果のメッセージを返すレスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse はアクセストークンのみを返すレスポンスです（/auth/refresh用）。
type TokenResponse struct {
	Access string `json:"access"`
}

// PagedResponse はページネーション付き一覧のレスポンスエンベロープです。
type PagedResponse struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  any   `json:"results"`
}
