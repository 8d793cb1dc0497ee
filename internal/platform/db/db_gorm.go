// Package db opens the MySQL connection and runs startup migrations.
package db

import (
	"fmt"
	"log"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	authadapters "recipe_backend/internal/feature/auth/adapters"
	authentity "recipe_backend/internal/feature/auth/domain/entity"
	commententity "recipe_backend/internal/feature/comments/domain/entity"
	recipeentity "recipe_backend/internal/feature/recipes/domain/entity"
	"recipe_backend/internal/platform/config"
)

// OpenDB connects to MySQL with a retry window, so the API container can
// come up before the database finishes initializing.
func OpenDB(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(gmysql.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if cfg.RunMigrations {
		// マイグレーション（User, Recipe ツリー, Comment など）
		if err := db.AutoMigrate(
			&authentity.User{},
			&authentity.PasswordResetToken{},
			&authadapters.SessionModel{},
			&recipeentity.Recipe{},
			&recipeentity.IngredientSection{},
			&recipeentity.Ingredient{},
			&recipeentity.InstructionSection{},
			&recipeentity.Instruction{},
			&commententity.Comment{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
