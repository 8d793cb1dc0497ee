// Package validation は入力値検証のフィールド単位エラー型を提供します。
package validation

import "errors"

// FieldError はリクエストの特定フィールドに対する検証エラーです。
// ハンドラー層で {"errors": {field: message}} 形式の400レスポンスに変換されます。
type FieldError struct {
	Field   string
	Message string
}

// Error はerrorインターフェースを実装します。
func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// NewFieldError は指定フィールドのFieldErrorを生成します。
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// AsFieldError はエラーチェーンからFieldErrorを取り出します。
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
