package main

import (
	"context"
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"recipe_backend/internal/app/di"
	"recipe_backend/internal/app/router"
	authadapters "recipe_backend/internal/feature/auth/adapters"
	authhandler "recipe_backend/internal/feature/auth/transport/handler"
	authusecase "recipe_backend/internal/feature/auth/usecase"
	commentadapters "recipe_backend/internal/feature/comments/adapters"
	commenthandler "recipe_backend/internal/feature/comments/transport/handler"
	commentusecase "recipe_backend/internal/feature/comments/usecase"
	recipeadapters "recipe_backend/internal/feature/recipes/adapters"
	recipehandler "recipe_backend/internal/feature/recipes/transport/handler"
	recipeusecase "recipe_backend/internal/feature/recipes/usecase"
	"recipe_backend/internal/platform/cache"
	"recipe_backend/internal/platform/config"
	"recipe_backend/internal/platform/db"
	jwtmw "recipe_backend/internal/platform/jwt"
	"recipe_backend/internal/platform/mailer"
	platformredis "recipe_backend/internal/platform/redis"
)

// accessTokenTTL is how long issued JWT access tokens stay valid.
const accessTokenTTL = 60 * time.Minute

func main() {
	cfg := config.Load()

	// db
	gormDB := db.OpenDB(cfg)

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(cfg); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserMySQL(gormDB)
	resetTokenRepo := authadapters.NewResetTokenMySQL(gormDB)
	sessionRepo := di.NewSessionRepository(rdb, gormDB)
	recipeRepo := recipeadapters.NewRecipeMySQL(gormDB)
	commentRepo := commentadapters.NewCommentMySQL(gormDB)

	// Redisキャッシュでラップ
	cachedRecipeRepo := cache.NewCachingRecipeRepository(rdb, 5*time.Minute, recipeRepo, "recipes")

	// 期限切れセッションの定期削除。Redis利用時はTTLで自然に消えるため何もしない
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := sessionRepo.DeleteExpired(ctx); err != nil {
				log.Println("[ERROR] Failed to delete expired sessions:", err)
			} else if n > 0 {
				log.Printf("[INFO] Deleted %d expired sessions", n)
			}
			cancel()
		}
	}()

	// Mailer（未設定ならリセットメールはログのみ）
	var resetMailer authusecase.Mailer
	if m, err := mailer.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom); err != nil {
		log.Println("[WARN] Resend not configured. Password reset emails are disabled:", err)
		resetMailer = mailer.NewLogMailer()
	} else {
		resetMailer = m
	}

	// Usecase
	jwtGen := jwtmw.NewGenerator(cfg.JWTSecret, accessTokenTTL)
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, jwtGen)
	resetUC := authusecase.NewPasswordResetUsecase(userRepo, resetTokenRepo, sessionRepo, resetMailer, cfg.FrontendURL)
	userUC := authusecase.NewUserUsecase(userRepo)
	recipeUC := recipeusecase.NewRecipeUsecase(cachedRecipeRepo, userRepo)
	commentUC := commentusecase.NewCommentUsecase(commentRepo, cachedRecipeRepo, userRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC, resetUC)
	userH := authhandler.NewUserHandler(authUC, userUC)
	recipeH := recipehandler.NewRecipeHandler(recipeUC)
	commentH := commenthandler.NewCommentHandler(commentUC)

	// ルータ生成
	r := router.NewRouter(cfg.FrontendURL, authH, userH, recipeH, commentH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal(err)
	}
}
