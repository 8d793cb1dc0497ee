package dto

import (
	"time"

	"recipe_backend/internal/feature/auth/domain/entity"
)

// UserRes is the full user representation returned by profile endpoints
// and embedded in the login response.
type UserRes struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListItem is the lightweight representation used by the uploader
// filter dropdown.
type UserListItem struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// UserResFromEntity converts a user entity to its full response form.
func UserResFromEntity(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserListItemFromEntity converts a user entity to its dropdown form.
func UserListItemFromEntity(u *entity.User) UserListItem {
	return UserListItem{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
	}
}

// UpdateProfileReq はプロフィール更新のリクエストボディです。
// nilのフィールドは変更されません。パスワード変更は任意です。
type UpdateProfileReq struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`

	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
