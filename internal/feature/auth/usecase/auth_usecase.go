// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/shared/validation"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// minNameLength / maxNameLength は姓・名の文字数制限です。
	minNameLength = 2
	maxNameLength = 50

	// refreshTokenTTL はリフレッシュトークン（セッション）の有効期間です。
	refreshTokenTTL = 24 * time.Hour
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// Update は既存ユーザーの変更を永続化します。
	Update(ctx context.Context, user *entity.User) error

	// ExistsByEmail は指定メールアドレスのユーザーが存在するか返します。
	// excludeIDが0以外の場合、そのIDのユーザーは除外されます。
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)

	// ListWithRecipes は削除されていないレシピを1件以上持つユーザーを
	// 姓・名順で返します（アップローダー絞り込み用ドロップダウンのデータソース）。
	ListWithRecipes(ctx context.Context) ([]entity.User, error)
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, email string) (string, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{
		users:        users,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(field, password string) error {
	if len(password) < minPasswordLength {
		return validation.NewFieldError(field, fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return nil
}

// validateName は姓・名が文字数制限内かチェックします。
func validateName(field, value string) error {
	if len(value) < minNameLength {
		return validation.NewFieldError(field, fmt.Sprintf("Must be at least %d characters.", minNameLength))
	}
	if len(value) > maxNameLength {
		return validation.NewFieldError(field, fmt.Sprintf("Must be %d characters or less.", maxNameLength))
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// メールアドレスは小文字に正規化してから保存します。
func (u *authUsecase) Register(ctx context.Context, email, password, firstName, lastName string) (*entity.User, error) {
	if err := validatePassword("password", password); err != nil {
		return nil, err
	}
	if err := validateName("first_name", firstName); err != nil {
		return nil, err
	}
	if err := validateName("last_name", lastName); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:     entity.NormalizeEmail(email),
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login はユーザーを認証し、成功時にアクセストークンとリフレッシュトークンを返します。
// メールアドレスを小文字に正規化してから照合します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password, userAgent, ipAddress string) (string, string, *entity.User, error) {
	user, err := u.users.FindByEmail(ctx, entity.NormalizeEmail(email))

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// 未検出・パスワード不一致・無効化済み・削除済みはすべて同じ汎用エラーを返す
	if err != nil || compareErr != nil || user.Deleted || !user.IsActive {
		return "", "", nil, ErrInvalidCredentials
	}

	access, tokenErr := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if tokenErr != nil {
		return "", "", nil, fmt.Errorf("failed to generate token: %w", tokenErr)
	}

	now := time.Now()
	session := &entity.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(refreshTokenTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return "", "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	return access, session.ID, user, nil
}

// Refresh はリフレッシュトークンを検証し、新しいアクセストークンを発行します。
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if session.RevokedAt != nil {
		return "", ErrSessionRevoked
	}
	if !session.IsValid() {
		return "", ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, session.UserID)
	if err != nil {
		return "", err
	}
	if user.Deleted || !user.IsActive {
		return "", ErrInvalidCredentials
	}

	access, err := u.jwtGenerator.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return access, nil
}

// Logout は指定されたリフレッシュトークンのセッションを失効させます。
// トークンが既に失効済みの場合もエラーを返します。
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		return err
	}
	if session.RevokedAt != nil {
		return ErrSessionRevoked
	}
	if err := u.sessions.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}
