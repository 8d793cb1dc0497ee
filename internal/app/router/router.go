// Package router assembles the gin engine and the HTTP route table.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "recipe_backend/internal/feature/auth/transport/handler"
	commenthandler "recipe_backend/internal/feature/comments/transport/handler"
	recipehandler "recipe_backend/internal/feature/recipes/transport/handler"
	"recipe_backend/internal/platform/http/handler"
	jwtmw "recipe_backend/internal/platform/jwt"
)

// NewRouter builds the gin engine with CORS and the full /api/v1 route table.
// frontendURL is the only allowed browser origin.
func NewRouter(
	frontendURL string,
	authHandler *authhandler.AuthHandler,
	userHandler *authhandler.UserHandler,
	recipeHandler *recipehandler.RecipeHandler,
	commentHandler *commenthandler.CommentHandler,
) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// 導通確認用
	r.GET("/healthz", handler.Health)

	v1 := r.Group("/api/v1")

	// 認証不要
	v1.POST("/users", userHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/refresh", authHandler.Refresh)
	v1.POST("/auth/logout", authHandler.Logout)
	v1.POST("/auth/password-reset", authHandler.PasswordReset)
	v1.POST("/auth/password-reset-confirm", authHandler.PasswordResetConfirm)

	v1.GET("/recipes", recipeHandler.List)
	v1.GET("/recipes/:id", recipeHandler.Get)
	v1.GET("/comments", commentHandler.List)
	v1.GET("/users/with-recipes", userHandler.WithRecipes)

	// コメントは編集不可（投稿と削除のみ）。認証の有無によらず405を返す
	v1.PUT("/comments/:id", commentHandler.MethodNotAllowed)
	v1.PATCH("/comments/:id", commentHandler.MethodNotAllowed)

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth := v1.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.POST("/recipes", recipeHandler.Create)
		auth.PUT("/recipes/:id", recipeHandler.Update)
		auth.PATCH("/recipes/:id", recipeHandler.Patch)
		auth.DELETE("/recipes/:id", recipeHandler.Delete)

		auth.POST("/comments", commentHandler.Create)
		auth.DELETE("/comments/:id", commentHandler.Delete)

		auth.GET("/users/me", userHandler.Me)
		auth.GET("/users/profile", userHandler.Me)
		auth.PUT("/users/profile", userHandler.UpdateProfile)
		auth.PATCH("/users/profile", userHandler.UpdateProfile)
		auth.DELETE("/users/profile", userHandler.DeleteProfile)
		auth.POST("/users/:id/restore", userHandler.Restore)
	}

	return r
}
