package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/api"
	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/transport/http/dto"
	"recipe_backend/internal/feature/auth/usecase"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/shared/validation"
)

// RegisterUsecase はユーザー登録のユースケースを定義します。
type RegisterUsecase interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*entity.User, error)
}

// UserUsecase はユーザープロフィール操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	GetUser(ctx context.Context, id uint) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uint, in usecase.UpdateProfileInput) (*entity.User, error)
	SoftDeleteUser(ctx context.Context, userID uint) error
	RestoreUser(ctx context.Context, adminID, targetID uint) error
	ListUsersWithRecipes(ctx context.Context) ([]entity.User, error)
}

// UserHandler はユーザー関連のHTTPリクエストを処理します。
type UserHandler struct {
	register RegisterUsecase
	users    UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(register RegisterUsecase, users UserUsecase) *UserHandler {
	return &UserHandler{register: register, users: users}
}

// currentUserID は認証ミドルウェアが設定したユーザーIDを取り出します。
func currentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(jwtmw.ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メールアドレス重複時はフィールドエラー付きの400を返却
// - 成功時は201でユーザー情報を返却
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	user, err := h.register.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if fe, ok := validation.AsFieldError(err); ok {
			c.JSON(http.StatusBadRequest, api.FieldErrorResponse{Errors: map[string]string{fe.Field: fe.Message}})
			return
		}
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			c.JSON(http.StatusBadRequest, api.FieldErrorResponse{
				Errors: map[string]string{"email": "A user with this email already exists."},
			})
			return
		}
		slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	slog.Info("user signup successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.UserResFromEntity(user))
}

// Me は認証済みユーザー自身の情報を返します。
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, dto.UserResFromEntity(user))
}

// UpdateProfile はプロフィールを更新します。任意でパスワードも変更できます。
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req dto.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), userID, usecase.UpdateProfileInput{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if fe, ok := validation.AsFieldError(err); ok {
			c.JSON(http.StatusBadRequest, api.FieldErrorResponse{Errors: map[string]string{fe.Field: fe.Message}})
			return
		}
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			return
		}
		slog.Error("profile update failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.UserResFromEntity(user))
}

// DeleteProfile は認証済みユーザー自身のアカウントを論理削除します。
// 204ではなく確認メッセージ付きの200を返します。
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	if err := h.users.SoftDeleteUser(c.Request.Context(), userID); err != nil {
		slog.Error("account deletion failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	slog.Info("user account soft-deleted", "user_id", userID)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Your account has been deleted successfully."})
}

// Restore は論理削除されたアカウントを復元します。管理者のみ実行できます。
func (h *UserHandler) Restore(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user id"})
		return
	}
	if err := h.users.RestoreUser(c.Request.Context(), adminID, uint(targetID)); err != nil {
		switch {
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "admin privilege required"})
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
		default:
			slog.Error("user restore failed", "error", err, "target_id", targetID)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Account restored successfully."})
}

// WithRecipes は削除されていないレシピを持つユーザーの一覧を返します。
// アップローダー絞り込み用ドロップダウンのデータソースで、認証不要です。
func (h *UserHandler) WithRecipes(c *gin.Context) {
	users, err := h.users.ListUsersWithRecipes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]dto.UserListItem, 0, len(users))
	for i := range users {
		out = append(out, dto.UserListItemFromEntity(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}
