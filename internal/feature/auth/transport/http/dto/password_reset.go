package dto

// PasswordResetReq は/auth/password-resetのリクエストボディです。
// レスポンスはアカウントの存在有無に関わらず同一の成功メッセージになるため、
// メール形式のバリデーションは行いません。
type PasswordResetReq struct {
	Email string `json:"email"`
}

// PasswordResetConfirmReq は/auth/password-reset-confirmのリクエストボディです。
// 各フィールドの検証はusecase側で個別のメッセージ付きで行います。
type PasswordResetConfirmReq struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
