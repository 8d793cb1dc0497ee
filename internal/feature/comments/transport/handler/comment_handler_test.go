package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/comments/domain/entity"
	"recipe_backend/internal/feature/comments/usecase"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/shared/validation"
)

// mockCommentUsecase is a mock implementation of the CommentUsecase interface.
type mockCommentUsecase struct {
	ListByRecipeFunc func(ctx context.Context, recipeID uint) ([]entity.Comment, error)
	CreateFunc       func(ctx context.Context, userID, recipeID uint, text string) (*entity.Comment, error)
	DeleteFunc       func(ctx context.Context, userID, commentID uint) error
}

func (m *mockCommentUsecase) ListByRecipe(ctx context.Context, recipeID uint) ([]entity.Comment, error) {
	if m.ListByRecipeFunc != nil {
		return m.ListByRecipeFunc(ctx, recipeID)
	}
	return nil, nil
}

func (m *mockCommentUsecase) Create(ctx context.Context, userID, recipeID uint, text string) (*entity.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, recipeID, text)
	}
	return &entity.Comment{ID: 1, RecipeID: recipeID, UserID: &userID, CommentText: text}, nil
}

func (m *mockCommentUsecase) Delete(ctx context.Context, userID, commentID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, commentID)
	}
	return nil
}

// authAs injects the authenticated user ID the way the JWT middleware does.
func authAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, userID)
		c.Next()
	}
}

// newCommentRouter wires the handler like the real router. userID 0 leaves
// the mutation routes unauthenticated.
func newCommentRouter(uc CommentUsecase, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCommentHandler(uc)

	r := gin.New()
	r.GET("/comments", h.List)
	r.PUT("/comments/:id", h.MethodNotAllowed)
	r.PATCH("/comments/:id", h.MethodNotAllowed)

	group := r.Group("/")
	if userID != 0 {
		group.Use(authAs(userID))
	}
	group.POST("/comments", h.Create)
	group.DELETE("/comments/:id", h.Delete)
	return r
}

func serve(t *testing.T, r *gin.Engine, method, path string, body gin.H) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCommentHandler_List(t *testing.T) {
	t.Run("returns comments newest first", func(t *testing.T) {
		authorID := uint(3)
		uc := &mockCommentUsecase{
			ListByRecipeFunc: func(ctx context.Context, recipeID uint) ([]entity.Comment, error) {
				assert.Equal(t, uint(5), recipeID)
				return []entity.Comment{
					{
						ID:          2,
						RecipeID:    5,
						UserID:      &authorID,
						User:        &authentity.User{ID: authorID, FirstName: "Taro", LastName: "Yamada", IsActive: true},
						CommentText: "second",
						CreatedAt:   time.Now(),
					},
					{ID: 1, RecipeID: 5, CommentText: "orphaned"},
				}, nil
			},
		}
		r := newCommentRouter(uc, 0)

		w := serve(t, r, http.MethodGet, "/comments?recipe=5", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var res []gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res, 2)
		assert.Equal(t, "Taro Yamada", res[0]["commenter_name"])
		assert.Equal(t, entity.AnonymousCommenterName, res[1]["commenter_name"])
	})

	t.Run("hidden recipe is a 404", func(t *testing.T) {
		uc := &mockCommentUsecase{
			ListByRecipeFunc: func(ctx context.Context, recipeID uint) ([]entity.Comment, error) {
				return nil, usecase.ErrRecipeNotFound
			},
		}
		r := newCommentRouter(uc, 0)

		w := serve(t, r, http.MethodGet, "/comments?recipe=999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"recipe not found"}`, w.Body.String())
	})

	t.Run("no comments serializes as an empty array", func(t *testing.T) {
		r := newCommentRouter(&mockCommentUsecase{}, 0)

		w := serve(t, r, http.MethodGet, "/comments?recipe=5", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("missing recipe parameter is a 400", func(t *testing.T) {
		r := newCommentRouter(&mockCommentUsecase{}, 0)

		for _, path := range []string{"/comments", "/comments?recipe=abc", "/comments?recipe=0"} {
			w := serve(t, r, http.MethodGet, path, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code, path)
			assert.JSONEq(t, `{"error":"recipe query parameter is required"}`, w.Body.String())
		}
	})
}

func TestCommentHandler_Create(t *testing.T) {
	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		r := newCommentRouter(&mockCommentUsecase{}, 0)

		w := serve(t, r, http.MethodPost, "/comments", gin.H{"recipe": 5, "comment_text": "hi"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing recipe in the body is a 400", func(t *testing.T) {
		r := newCommentRouter(&mockCommentUsecase{}, 7)

		w := serve(t, r, http.MethodPost, "/comments", gin.H{"comment_text": "hi"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
	})

	t.Run("success returns 201", func(t *testing.T) {
		uc := &mockCommentUsecase{
			CreateFunc: func(ctx context.Context, userID, recipeID uint, text string) (*entity.Comment, error) {
				assert.Equal(t, uint(7), userID)
				assert.Equal(t, uint(5), recipeID)
				return &entity.Comment{
					ID:          9,
					RecipeID:    recipeID,
					UserID:      &userID,
					User:        &authentity.User{ID: userID, FirstName: "Taro", LastName: "Yamada", IsActive: true},
					CommentText: text,
				}, nil
			},
		}
		r := newCommentRouter(uc, 7)

		w := serve(t, r, http.MethodPost, "/comments", gin.H{"recipe": 5, "comment_text": "Looks delicious!"})

		assert.Equal(t, http.StatusCreated, w.Code)
		var res gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "Looks delicious!", res["comment_text"])
		assert.Equal(t, "Taro Yamada", res["commenter_name"])
	})

	t.Run("over-length comment returns the field error envelope", func(t *testing.T) {
		uc := &mockCommentUsecase{
			CreateFunc: func(ctx context.Context, userID, recipeID uint, text string) (*entity.Comment, error) {
				return nil, validation.NewFieldError("comment_text", "This section is capped at 1000 characters.")
			},
		}
		r := newCommentRouter(uc, 7)

		w := serve(t, r, http.MethodPost, "/comments", gin.H{"recipe": 5, "comment_text": "way too long"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"errors":{"comment_text":"This section is capped at 1000 characters."}}`, w.Body.String())
	})

	t.Run("deactivated user gets 403", func(t *testing.T) {
		uc := &mockCommentUsecase{
			CreateFunc: func(ctx context.Context, userID, recipeID uint, text string) (*entity.Comment, error) {
				return nil, usecase.ErrForbidden
			},
		}
		r := newCommentRouter(uc, 7)

		w := serve(t, r, http.MethodPost, "/comments", gin.H{"recipe": 5, "comment_text": "hi"})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"you do not have permission to comment"}`, w.Body.String())
	})
}

func TestCommentHandler_Edit_MethodNotAllowed(t *testing.T) {
	r := newCommentRouter(&mockCommentUsecase{}, 7)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		w := serve(t, r, method, "/comments/9", gin.H{"comment_text": "edited"})

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.JSONEq(t, `{"error":"comments cannot be edited"}`, w.Body.String())
	}

	// 未認証でも401ではなく405を返す
	anon := newCommentRouter(&mockCommentUsecase{}, 0)
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		w := serve(t, anon, method, "/comments/9", gin.H{"comment_text": "edited"})

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
	}
}

func TestCommentHandler_Delete(t *testing.T) {
	t.Run("admin deletes a comment", func(t *testing.T) {
		var deleted uint
		uc := &mockCommentUsecase{
			DeleteFunc: func(ctx context.Context, userID, commentID uint) error {
				deleted = commentID
				return nil
			},
		}
		r := newCommentRouter(uc, 1)

		w := serve(t, r, http.MethodDelete, "/comments/9", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(9), deleted)
		assert.JSONEq(t, `{"message":"Comment deleted successfully."}`, w.Body.String())
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		uc := &mockCommentUsecase{
			DeleteFunc: func(ctx context.Context, userID, commentID uint) error {
				return usecase.ErrForbidden
			},
		}
		r := newCommentRouter(uc, 2)

		w := serve(t, r, http.MethodDelete, "/comments/9", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"admin privilege required"}`, w.Body.String())
	})

	t.Run("unknown comment is a 404", func(t *testing.T) {
		uc := &mockCommentUsecase{
			DeleteFunc: func(ctx context.Context, userID, commentID uint) error {
				return usecase.ErrCommentNotFound
			},
		}
		r := newCommentRouter(uc, 1)

		w := serve(t, r, http.MethodDelete, "/comments/9", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
