package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe_backend/internal/feature/recipes/domain/entity"
	"recipe_backend/internal/feature/recipes/usecase"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/shared/validation"
)

// mockRecipeUsecase is a mock implementation of the RecipeUsecase interface.
type mockRecipeUsecase struct {
	CreateFunc     func(ctx context.Context, userID uint, recipe *entity.Recipe) (*entity.Recipe, error)
	GetFunc        func(ctx context.Context, id uint) (*entity.Recipe, error)
	ListFunc       func(ctx context.Context, filter usecase.ListFilter) ([]entity.Recipe, int64, error)
	UpdateFunc     func(ctx context.Context, userID, recipeID uint, in usecase.UpdateRecipeInput) (*entity.Recipe, error)
	SoftDeleteFunc func(ctx context.Context, userID, recipeID uint) error
}

func (m *mockRecipeUsecase) Create(ctx context.Context, userID uint, recipe *entity.Recipe) (*entity.Recipe, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, recipe)
	}
	recipe.ID = 1
	return recipe, nil
}

func (m *mockRecipeUsecase) Get(ctx context.Context, id uint) (*entity.Recipe, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, usecase.ErrRecipeNotFound
}

func (m *mockRecipeUsecase) List(ctx context.Context, filter usecase.ListFilter) ([]entity.Recipe, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockRecipeUsecase) Update(ctx context.Context, userID, recipeID uint, in usecase.UpdateRecipeInput) (*entity.Recipe, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, recipeID, in)
	}
	return &entity.Recipe{ID: recipeID}, nil
}

func (m *mockRecipeUsecase) SoftDelete(ctx context.Context, userID, recipeID uint) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, userID, recipeID)
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

// newRecipeRouter wires the handler like the real router. userID 0 leaves
// the mutation routes unauthenticated.
func newRecipeRouter(uc RecipeUsecase, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRecipeHandler(uc)

	r := gin.New()
	r.GET("/recipes", h.List)
	r.GET("/recipes/:id", h.Get)

	group := r.Group("/")
	if userID != 0 {
		group.Use(authAs(userID))
	}
	group.POST("/recipes", h.Create)
	group.PUT("/recipes/:id", h.Update)
	group.PATCH("/recipes/:id", h.Patch)
	group.DELETE("/recipes/:id", h.Delete)
	return r
}

func createRecipeBody() gin.H {
	return gin.H{
		"recipe_name":        "Butter Chicken",
		"recipe_description": "Rich and creamy curry",
		"course_type":        "Dinner",
		"recipe_type":        "Entrée (Main)",
		"primary_protein":    "Chicken",
		"ethnic_style":       "Indian",
		"prep_time":          20,
		"cook_time":          40,
		"number_servings":    4,
		"ingredient_sections": []gin.H{
			{
				"section_title": "Sauce",
				"section_order": 1,
				"ingredients": []gin.H{
					{"ingredient_name": "Butter", "ingredient_quantity": "100", "ingredient_uom": "g", "ingredient_order": 1},
				},
			},
		},
		"instruction_sections": []gin.H{
			{
				"section_title": "Cooking",
				"section_order": 1,
				"instructions": []gin.H{
					{"instruction_step": "Simmer everything", "step_order": 1},
				},
			},
		},
	}
}

func request(t *testing.T, r *gin.Engine, method, path string, body gin.H) *httptest.ResponseRecorder {
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

func TestRecipeHandler_List(t *testing.T) {
	t.Run("returns a paged envelope", func(t *testing.T) {
		userID := uint(3)
		uc := &mockRecipeUsecase{
			ListFunc: func(ctx context.Context, filter usecase.ListFilter) ([]entity.Recipe, int64, error) {
				assert.Equal(t, "chicken", filter.Search)
				assert.Equal(t, 2, filter.Page)
				return []entity.Recipe{
					{ID: 21, RecipeName: "Butter Chicken", UserID: &userID},
				}, 41, nil
			},
		}
		r := newRecipeRouter(uc, 0)

		w := request(t, r, http.MethodGet, "/recipes?search=chicken&page=2", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var res gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, float64(41), res["count"])
		assert.Equal(t, float64(2), res["page"])
		assert.Equal(t, float64(usecase.PageSize), res["page_size"])
		results, ok := res["results"].([]any)
		require.True(t, ok)
		require.Len(t, results, 1)
	})

	t.Run("empty page serializes as an empty array", func(t *testing.T) {
		r := newRecipeRouter(&mockRecipeUsecase{}, 0)

		w := request(t, r, http.MethodGet, "/recipes", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"results":[]`)
	})

	t.Run("garbage numeric params are ignored", func(t *testing.T) {
		uc := &mockRecipeUsecase{
			ListFunc: func(ctx context.Context, filter usecase.ListFilter) ([]entity.Recipe, int64, error) {
				assert.Zero(t, filter.UploadedBy)
				assert.Zero(t, filter.MinServings)
				return nil, 0, nil
			},
		}
		r := newRecipeRouter(uc, 0)

		w := request(t, r, http.MethodGet, "/recipes?uploaded_by=abc&min_servings=x", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRecipeHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		uc := &mockRecipeUsecase{
			GetFunc: func(ctx context.Context, id uint) (*entity.Recipe, error) {
				assert.Equal(t, uint(21), id)
				return &entity.Recipe{ID: 21, RecipeName: "Butter Chicken"}, nil
			},
		}
		r := newRecipeRouter(uc, 0)

		w := request(t, r, http.MethodGet, "/recipes/21", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var res gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "Butter Chicken", res["recipe_name"])
	})

	t.Run("not found", func(t *testing.T) {
		r := newRecipeRouter(&mockRecipeUsecase{}, 0)

		w := request(t, r, http.MethodGet, "/recipes/999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"recipe not found"}`, w.Body.String())
	})

	t.Run("non-numeric id is a 404", func(t *testing.T) {
		r := newRecipeRouter(&mockRecipeUsecase{}, 0)

		w := request(t, r, http.MethodGet, "/recipes/abc", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRecipeHandler_Create(t *testing.T) {
	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		r := newRecipeRouter(&mockRecipeUsecase{}, 0)

		w := request(t, r, http.MethodPost, "/recipes", createRecipeBody())

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success returns 201 with the detail", func(t *testing.T) {
		uc := &mockRecipeUsecase{
			CreateFunc: func(ctx context.Context, userID uint, recipe *entity.Recipe) (*entity.Recipe, error) {
				assert.Equal(t, uint(7), userID)
				assert.Equal(t, "Butter Chicken", recipe.RecipeName)
				require.Len(t, recipe.IngredientSections, 1)
				recipe.ID = 21
				return recipe, nil
			},
		}
		r := newRecipeRouter(uc, 7)

		w := request(t, r, http.MethodPost, "/recipes", createRecipeBody())

		assert.Equal(t, http.StatusCreated, w.Code)
		var res gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, float64(21), res["id"])
	})

	t.Run("duplicate name returns the field error envelope", func(t *testing.T) {
		uc := &mockRecipeUsecase{
			CreateFunc: func(ctx context.Context, userID uint, recipe *entity.Recipe) (*entity.Recipe, error) {
				return nil, usecase.ErrDuplicateName
			},
		}
		r := newRecipeRouter(uc, 7)

		w := request(t, r, http.MethodPost, "/recipes", createRecipeBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"errors":{"recipe_name":"This recipe name already exists. Try adding a unique descriptor."}}`, w.Body.String())
	})

	t.Run("validation failure maps to the offending field", func(t *testing.T) {
		uc := &mockRecipeUsecase{
			CreateFunc: func(ctx context.Context, userID uint, recipe *entity.Recipe) (*entity.Recipe, error) {
				return nil, validation.NewFieldError("course_type", "Select a valid choice.")
			},
		}
		r := newRecipeRouter(uc, 7)

		w := request(t, r, http.MethodPost, "/recipes", createRecipeBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"errors":{"course_type":"Select a valid choice."}}`, w.Body.String())
	})
}

func TestRecipeHandler_Update(t *testing.T) {
	t.Run("put replaces both section trees even when omitted", func(t *testing.T) {
		var got usecase.UpdateRecipeInput
		uc := &mockRecipeUsecase{
			UpdateFunc: func(ctx context.Context, userID, recipeID uint, in usecase.UpdateRecipeInput) (*entity.Recipe, error) {
				got = in
				return &entity.Recipe{ID: recipeID}, nil
			},
		}
		r := newRecipeRouter(uc, 7)

		body := createRecipeBody()
		delete(body, "ingredient_sections")
		delete(body, "instruction_sections")
		w := request(t, r, http.MethodPut, "/recipes/21", body)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, got.IngredientSections, "PUT must always replace the tree")
		assert.NotNil(t, got.InstructionSections, "PUT must always replace the tree")
		assert.Empty(t, got.IngredientSections)
		require.NotNil(t, got.RecipeName)
		assert.Equal(t, "Butter Chicken", *got.RecipeName)
	})

	t.Run("forbidden for non-owners", func(t *testing.T) {
		uc := &mockRecipeUsecase{
			UpdateFunc: func(ctx context.Context, userID, recipeID uint, in usecase.UpdateRecipeInput) (*entity.Recipe, error) {
				return nil, usecase.ErrForbidden
			},
		}
		r := newRecipeRouter(uc, 8)

		w := request(t, r, http.MethodPut, "/recipes/21", createRecipeBody())

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error":"you do not have permission to modify this recipe"}`, w.Body.String())
	})
}

func TestRecipeHandler_Patch(t *testing.T) {
	t.Run("only provided fields are forwarded", func(t *testing.T) {
		var got usecase.UpdateRecipeInput
		uc := &mockRecipeUsecase{
			UpdateFunc: func(ctx context.Context, userID, recipeID uint, in usecase.UpdateRecipeInput) (*entity.Recipe, error) {
				got = in
				return &entity.Recipe{ID: recipeID}, nil
			},
		}
		r := newRecipeRouter(uc, 7)

		w := request(t, r, http.MethodPatch, "/recipes/21", gin.H{"recipe_name": "New Name"})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got.RecipeName)
		assert.Equal(t, "New Name", *got.RecipeName)
		assert.Nil(t, got.CourseType)
		assert.Nil(t, got.IngredientSections, "omitted sections keep the stored tree")
	})

	t.Run("unknown recipe is a 404", func(t *testing.T) {
		uc := &mockRecipeUsecase{
			UpdateFunc: func(ctx context.Context, userID, recipeID uint, in usecase.UpdateRecipeInput) (*entity.Recipe, error) {
				return nil, usecase.ErrRecipeNotFound
			},
		}
		r := newRecipeRouter(uc, 7)

		w := request(t, r, http.MethodPatch, "/recipes/999", gin.H{"recipe_name": "New Name"})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRecipeHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var deletedBy, deletedID uint
		uc := &mockRecipeUsecase{
			SoftDeleteFunc: func(ctx context.Context, userID, recipeID uint) error {
				deletedBy, deletedID = userID, recipeID
				return nil
			},
		}
		r := newRecipeRouter(uc, 7)

		w := request(t, r, http.MethodDelete, "/recipes/21", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(7), deletedBy)
		assert.Equal(t, uint(21), deletedID)
		assert.JSONEq(t, `{"message":"Recipe deleted successfully."}`, w.Body.String())
	})

	t.Run("forbidden for non-owners", func(t *testing.T) {
		uc := &mockRecipeUsecase{
			SoftDeleteFunc: func(ctx context.Context, userID, recipeID uint) error {
				return usecase.ErrForbidden
			},
		}
		r := newRecipeRouter(uc, 8)

		w := request(t, r, http.MethodDelete, "/recipes/21", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
