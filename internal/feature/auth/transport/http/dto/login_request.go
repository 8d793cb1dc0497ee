// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// LoginReq は/auth/loginエンドポイントのリクエストボディを表します。
// 必須フィールドとメール形式のバリデーションを含みます。
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRes はログイン成功時のレスポンスです。
// アクセストークン・リフレッシュトークンに加えてユーザー情報を返します。
type LoginRes struct {
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
	User    UserRes `json:"user"`
}
