package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/shared/validation"
)

// UpdateProfileInput はプロフィール更新の入力です。nilのフィールドは変更しません。
// NewPassword/ConfirmPasswordは任意で、どちらか一方だけの指定はエラーになります。
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string

	NewPassword     string
	ConfirmPassword string
}

// userUsecase はユーザープロフィール操作のビジネスロジックを実装します。
type userUsecase struct {
	users UserRepository
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository) *userUsecase {
	return &userUsecase{users: users}
}

// GetUser はIDでユーザーを取得します。削除済みアカウントはErrUserNotFoundになります。
func (u *userUsecase) GetUser(ctx context.Context, id uint) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Deleted {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile は本人のプロフィールを更新します。
// メールアドレス変更時は他ユーザーとの重複を検証し、パスワード変更時は
// 両フィールドの一致と最低文字数を検証します。
func (u *userUsecase) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*entity.User, error) {
	user, err := u.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		if err := validateName("first_name", *in.FirstName); err != nil {
			return nil, err
		}
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		if err := validateName("last_name", *in.LastName); err != nil {
			return nil, err
		}
		user.LastName = *in.LastName
	}
	if in.Email != nil {
		email := entity.NormalizeEmail(*in.Email)
		taken, err := u.users.ExistsByEmail(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, validation.NewFieldError("email", "This email address is already in use.")
		}
		user.Email = email
	}

	// パスワード変更は任意。片方だけの指定は受け付けない
	if in.NewPassword != "" || in.ConfirmPassword != "" {
		if in.NewPassword == "" {
			return nil, validation.NewFieldError("new_password", "Please enter a new password.")
		}
		if in.ConfirmPassword == "" {
			return nil, validation.NewFieldError("confirm_password", "Please confirm your new password.")
		}
		if in.NewPassword != in.ConfirmPassword {
			return nil, validation.NewFieldError("confirm_password", "Passwords do not match.")
		}
		if err := validatePassword("new_password", in.NewPassword); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SoftDeleteUser は本人のアカウントを論理削除します。
// 行は残り、所有レシピは以後 "Anonymous User" 名義で表示されます。
func (u *userUsecase) SoftDeleteUser(ctx context.Context, userID uint) error {
	user, err := u.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.SoftDelete(time.Now())
	return u.users.Update(ctx, user)
}

// RestoreUser は論理削除されたアカウントを復元します。管理者のみ実行できます。
func (u *userUsecase) RestoreUser(ctx context.Context, adminID, targetID uint) error {
	admin, err := u.users.FindByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !admin.IsAdmin {
		return ErrForbidden
	}

	// 復元対象は削除済みでも取得する必要がある
	target, err := u.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	target.Restore()
	return u.users.Update(ctx, target)
}

// ListUsersWithRecipes は削除されていないレシピを持つユーザーの一覧を返します。
func (u *userUsecase) ListUsersWithRecipes(ctx context.Context) ([]entity.User, error) {
	return u.users.ListWithRecipes(ctx)
}
