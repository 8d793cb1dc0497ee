// Package handler はcommentsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recipe_backend/internal/api"
	"recipe_backend/internal/feature/comments/domain/entity"
	"recipe_backend/internal/feature/comments/transport/http/dto"
	"recipe_backend/internal/feature/comments/usecase"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/shared/validation"
)

// CommentUsecase はコメント操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type CommentUsecase interface {
	ListByRecipe(ctx context.Context, recipeID uint) ([]entity.Comment, error)
	Create(ctx context.Context, userID, recipeID uint, text string) (*entity.Comment, error)
	Delete(ctx context.Context, userID, commentID uint) error
}

// CommentHandler はコメント操作のHTTPリクエストを処理します。
type CommentHandler struct {
	comments CommentUsecase
}

// NewCommentHandler はCommentHandlerの新しいインスタンスを生成します。
func NewCommentHandler(comments CommentUsecase) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(jwtmw.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// List はレシピのコメント一覧を新着順に返します。認証不要です。
// 対象レシピは recipe クエリパラメータで指定します。
func (h *CommentHandler) List(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Query("recipe"), 10, 64)
	if err != nil || rawID == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "recipe query parameter is required"})
		return
	}
	recipeID := uint(rawID)
	comments, err := h.comments.ListByRecipe(c.Request.Context(), recipeID)
	if err != nil {
		if errors.Is(err, usecase.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "recipe not found"})
			return
		}
		slog.Error("comment list failed", "error", err, "recipe_id", recipeID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	items := make([]dto.CommentRes, 0, len(comments))
	for i := range comments {
		items = append(items, dto.CommentResFromEntity(&comments[i]))
	}
	c.JSON(http.StatusOK, items)
}

// Create はレシピへのコメント投稿を処理します。
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}
	var req dto.CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	recipeID := req.Recipe
	comment, err := h.comments.Create(c.Request.Context(), userID, recipeID, req.CommentText)
	if err != nil {
		if fe, ok := validation.AsFieldError(err); ok {
			c.JSON(http.StatusBadRequest, api.FieldErrorResponse{Errors: map[string]string{fe.Field: fe.Message}})
			return
		}
		switch {
		case errors.Is(err, usecase.ErrRecipeNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "recipe not found"})
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "you do not have permission to comment"})
		default:
			slog.Error("comment create failed", "error", err, "recipe_id", recipeID)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}
	slog.Info("comment created", "comment_id", comment.ID, "recipe_id", recipeID, "user_id", userID)
	c.JSON(http.StatusCreated, dto.CommentResFromEntity(comment))
}

// Delete はコメントの削除を処理します。管理者のみ実行できます。
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		return
	}
	commentID, ok := idParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "comment not found"})
		return
	}
	if err := h.comments.Delete(c.Request.Context(), userID, commentID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrCommentNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "comment not found"})
		case errors.Is(err, usecase.ErrForbidden):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "admin privilege required"})
		default:
			slog.Error("comment delete failed", "error", err, "comment_id", commentID)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Comment deleted successfully."})
}

// MethodNotAllowed はコメントの編集要求（PUT/PATCH）を拒否します。
// コメントは投稿と削除のみをサポートします。
func (h *CommentHandler) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, api.ErrorResponse{Error: "comments cannot be edited"})
}
