package dto

import (
	"time"

	"recipe_backend/internal/feature/comments/domain/entity"
)

// CreateCommentReq はコメント投稿のリクエストボディです。
// 本文の必須チェックと文字数上限はusecase側で行います。
type CreateCommentReq struct {
	Recipe      uint   `json:"recipe" binding:"required"`
	CommentText string `json:"comment_text"`
}

// CommentRes はコメント1件のレスポンスです。
type CommentRes struct {
	ID            uint      `json:"id"`
	RecipeID      uint      `json:"recipe_id"`
	CommentText   string    `json:"comment_text"`
	CommenterName string    `json:"commenter_name"`
	CommenterID   *uint     `json:"commenter_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// CommentResFromEntity はCommentエンティティからレスポンスを構築します。
func CommentResFromEntity(c *entity.Comment) CommentRes {
	var commenterID *uint
	if c.User != nil && !c.User.Deleted {
		id := c.User.ID
		commenterID = &id
	}
	return CommentRes{
		ID:            c.ID,
		RecipeID:      c.RecipeID,
		CommentText:   c.CommentText,
		CommenterName: c.CommenterName(),
		CommenterID:   commenterID,
		CreatedAt:     c.CreatedAt,
	}
}
