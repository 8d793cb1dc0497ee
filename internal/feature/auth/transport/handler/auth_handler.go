// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/api"
	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/transport/http/dto"
	"recipe_backend/internal/feature/auth/usecase"
	"recipe_backend/internal/shared/validation"
)

// resetSuccessMessage はパスワードリセット要求への応答メッセージです。
// アカウントの存在有無やレート制限の状態に関わらず常にこれを返します。
const resetSuccessMessage = "If an account exists with that email, you'll receive a reset link shortly."

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Login はユーザーを認証し、アクセストークン・リフレッシュトークン・ユーザーを返します。
	Login(ctx context.Context, email, password, userAgent, ipAddress string) (string, string, *entity.User, error)
	// Refresh はリフレッシュトークンから新しいアクセストークンを発行します。
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout は指定されたリフレッシュトークンのセッションを失効させます。
	Logout(ctx context.Context, refreshToken string) error
}

// PasswordResetUsecase はパスワードリセットフローのユースケースを定義します。
type PasswordResetUsecase interface {
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmPassword string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth  AuthUsecase
	reset PasswordResetUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, reset PasswordResetUsecase) *AuthHandler {
	return &AuthHandler{auth: auth, reset: reset}
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却
// - 成功時はトークンペアとユーザー情報付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	access, refresh, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid email or password"})
		return
	}
	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginRes{
		Access:  access,
		Refresh: refresh,
		User:    dto.UserResFromEntity(user),
	})
}

// Refresh はリフレッシュトークンからアクセストークンを再発行します。
// 失効・期限切れ・未知のトークンはすべて401になります。
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "refresh token is required"})
		return
	}
	access, err := h.auth.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		slog.Warn("token refresh failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, api.TokenResponse{Access: access})
}

// Logout はリフレッシュトークンのセッションを失効させます。
// トークン未指定または無効なトークンは400になります。
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "refresh token is required"})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), req.Refresh); err != nil {
		slog.Warn("logout failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Logged out successfully"})
}

// PasswordReset はリセットトークンの発行を要求します。
// アカウントの存在有無を漏らさないため、結果に関わらず同じ成功メッセージを返します。
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req dto.PasswordResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	if err := h.reset.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		slog.Error("password reset request failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: resetSuccessMessage})
}

// PasswordResetConfirm はトークンと新パスワードでリセットを確定します。
// 使用済み・期限切れ・無効トークンはそれぞれ区別されたメッセージの400になります。
func (h *AuthHandler) PasswordResetConfirm(c *gin.Context) {
	var req dto.PasswordResetConfirmReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	err := h.reset.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		if fe, ok := validation.AsFieldError(err); ok {
			c.JSON(http.StatusBadRequest, api.FieldErrorResponse{Errors: map[string]string{fe.Field: fe.Message}})
			return
		}
		switch {
		case errors.Is(err, usecase.ErrResetTokenUsed):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "This reset link has already been used."})
		case errors.Is(err, usecase.ErrResetTokenExpired):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "This reset link has expired. Please request a new one."})
		case errors.Is(err, usecase.ErrResetTokenInvalid):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "This reset link is invalid. Please request a new one."})
		default:
			slog.Error("password reset confirm failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Password reset successfully"})
}
