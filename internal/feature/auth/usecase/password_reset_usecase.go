package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/shared/validation"
)

const (
	// resetTokenTTL はパスワードリセットトークンの有効期間です。
	resetTokenTTL = time.Hour

	// maxResetRequestsPerHour は1ユーザーあたり1時間のリセット発行上限です。
	// 超過したリクエストはトークンを発行せず、レスポンスは成功時と同一にします。
	maxResetRequestsPerHour = 3

	// resetTokenBytes は生成するトークンのバイト数です（hexで64文字になります）。
	resetTokenBytes = 32
)

// ResetTokenRepository はパスワードリセットトークンの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ResetTokenRepository interface {
	// Create は新しいリセットトークンを永続化します。
	Create(ctx context.Context, token *entity.PasswordResetToken) error

	// FindByToken はトークン文字列で一致するレコードを取得します。
	// 見つからない場合、ErrResetTokenInvalidを返します。
	FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)

	// CountRecentByUser は指定時刻以降にユーザーへ発行されたトークン数を返します。
	// ローリングウィンドウのレート制限判定に使います（境界は以上・含む）。
	CountRecentByUser(ctx context.Context, userID uint, since time.Time) (int64, error)

	// MarkUsed はトークンを使用済みに更新します。
	MarkUsed(ctx context.Context, id uint) error
}

// Mailer は送信専用メールの外部プロバイダーを抽象化します。
// 送信失敗は呼び出し元へ伝播させず、ログに記録するだけにします。
type Mailer interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, toName, resetLink string) error
}

// passwordResetUsecase はパスワードリセットフローを実装します。
//
// 状態遷移: issued → valid（未使用・期限内）→ used または expired（どちらも終端）。
// 終端状態から有効に戻る遷移は存在しません。
type passwordResetUsecase struct {
	users       UserRepository
	tokens      ResetTokenRepository
	sessions    SessionRepository
	mailer      Mailer
	frontendURL string
}

// NewPasswordResetUsecase はpasswordResetUsecaseの新しいインスタンスを生成します。
func NewPasswordResetUsecase(users UserRepository, tokens ResetTokenRepository, sessions SessionRepository, mailer Mailer, frontendURL string) *passwordResetUsecase {
	return &passwordResetUsecase{
		users:       users,
		tokens:      tokens,
		sessions:    sessions,
		mailer:      mailer,
		frontendURL: frontendURL,
	}
}

// generateResetToken は暗号論的に安全な64文字のトークンを生成します。
func generateResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// RequestPasswordReset はリセットトークンを発行し、メールを送信します。
// アカウントの存在有無・レート制限超過のいずれもレスポンスを変えないため、
// 該当ユーザーが存在しない場合やレート制限時もnilを返します。
func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.users.FindByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// アカウントの存在を漏らさない
			return nil
		}
		return err
	}
	if user.Deleted || !user.IsActive {
		return nil
	}

	// レート制限: 直近1時間に3件以上発行済みなら新規発行しない
	oneHourAgo := time.Now().Add(-time.Hour)
	count, err := u.tokens.CountRecentByUser(ctx, user.ID, oneHourAgo)
	if err != nil {
		return err
	}
	if count >= maxResetRequestsPerHour {
		slog.Info("password reset rate limited", "user_id", user.ID)
		return nil
	}

	tokenStr, err := generateResetToken()
	if err != nil {
		return err
	}

	token := &entity.PasswordResetToken{
		UserID:      user.ID,
		Token:       tokenStr,
		TokenExpiry: time.Now().Add(resetTokenTTL),
	}
	if err := u.tokens.Create(ctx, token); err != nil {
		return err
	}

	// メール送信は fire-and-forget: 失敗してもトークン作成はロールバックせず、
	// 呼び出し元にもエラーを返さない
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", u.frontendURL, tokenStr)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := u.mailer.SendPasswordResetEmail(sendCtx, user.Email, user.FullName(), resetLink); err != nil {
			slog.Error("failed to send password reset email", "error", err, "user_id", user.ID)
		}
	}()

	return nil
}

// ConfirmPasswordReset はトークンを検証してパスワードを更新します。
// 使用済み・期限切れは区別したエラーを返し、トークンが存在しない場合は
// 汎用の無効エラーを返します（存在有無を漏らさない）。
func (u *passwordResetUsecase) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword, confirmPassword string) error {
	if tokenStr == "" {
		return validation.NewFieldError("token", "Reset token is required")
	}
	if newPassword == "" {
		return validation.NewFieldError("new_password", "New password is required")
	}
	if err := validatePassword("new_password", newPassword); err != nil {
		return err
	}
	if newPassword != confirmPassword {
		return validation.NewFieldError("confirm_password", "Passwords do not match")
	}

	token, err := u.tokens.FindByToken(ctx, tokenStr)
	if err != nil {
		return err
	}

	now := time.Now()
	if !token.IsValid(now) {
		if token.Used {
			return ErrResetTokenUsed
		}
		return ErrResetTokenExpired
	}

	user, err := u.users.FindByID(ctx, token.UserID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}

	// used=true への遷移は終端で、以後このトークンは二度と有効にならない
	if err := u.tokens.MarkUsed(ctx, token.ID); err != nil {
		return err
	}

	// パスワード変更後は既存のリフレッシュセッションをすべて失効させ、
	// 盗まれたリフレッシュトークンを使えなくする。失敗してもリセット自体は成立している。
	if err := u.sessions.RevokeAllByUserID(ctx, user.ID); err != nil {
		slog.Error("failed to revoke sessions after password reset", "error", err, "user_id", user.ID)
	}
	return nil
}
