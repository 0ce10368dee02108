package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/hoaxify/internal/db"
	"github.com/templui/hoaxify/internal/model"
	"github.com/templui/hoaxify/internal/repository"
	"github.com/templui/hoaxify/internal/validation"
	"golang.org/x/text/language"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UpdateInput struct {
	Username string
	Image    *string // base64 encoded; nil or empty keeps the current image
}

// UserService drives the account lifecycle: registration, activation,
// profile updates, password reset and deletion.
type UserService struct {
	db             *sqlx.DB
	userRepository repository.UserRepository
	authService    *AuthService
	hoaxService    *HoaxService
	fileService    *FileService
	mailer         Mailer
	hasher         PasswordHasher
	now            func() time.Time
}

func NewUserService(
	database *sqlx.DB,
	userRepository repository.UserRepository,
	authService *AuthService,
	hoaxService *HoaxService,
	fileService *FileService,
	mailer Mailer,
	hasher PasswordHasher,
) *UserService {
	return &UserService{
		db:             database,
		userRepository: userRepository,
		authService:    authService,
		hoaxService:    hoaxService,
		fileService:    fileService,
		mailer:         mailer,
		hasher:         hasher,
		now:            time.Now,
	}
}

// Register validates input, then stores the inactive user and sends the
// activation email inside one transaction. A failed send rolls the insert back.
//
// The email is sent before commit; a crash between a successful send and the
// commit leaves a delivered email for a user that was never stored.
func (s *UserService) Register(ctx context.Context, in RegisterInput, locale language.Tag) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)

	errs := validation.Registration(in.Username, in.Email, in.Password)
	if !errs.Has(validation.FieldEmail) {
		_, err := s.userRepository.ByEmail(ctx, in.Email)
		switch {
		case err == nil:
			errs = errs.Set(validation.FieldEmail, validation.EmailInUse)
		case !errors.Is(err, repository.ErrUserNotFound):
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	activationToken, err := GenerateToken(accountTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user := &model.User{
		Username:        in.Username,
		Email:           in.Email,
		PasswordHash:    hash,
		Inactive:        true,
		ActivationToken: &activationToken,
		CreatedAt:       s.now().UnixMilli(),
	}

	err = db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		err := s.userRepository.WithTx(tx).Create(ctx, user)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return validation.Errors{{Field: validation.FieldEmail, Key: validation.EmailInUse}}
			}
			return err
		}

		err = s.mailer.SendAccountActivation(ctx, user.Email, activationToken, locale)
		if err != nil {
			slog.Error("failed to send activation email", "error", err, "email", user.Email)
			return EmailDeliveryError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Activate consumes an activation token. The password reset token is left untouched.
func (s *UserService) Activate(ctx context.Context, token string) error {
	if token == "" {
		return InvalidTokenError()
	}

	user, err := s.userRepository.ByActivationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return InvalidTokenError()
		}
		return err
	}

	user.Inactive = false
	user.ActivationToken = nil

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}

	slog.Info("user activated", "user_id", user.ID)
	return nil
}

// Users pages through active users, leaving out the caller.
func (s *UserService) Users(ctx context.Context, page, size int, authUser *model.User) (model.Page[model.UserView], error) {
	var excludeID int64
	if authUser != nil {
		excludeID = authUser.ID
	}

	users, err := s.userRepository.Active(ctx, excludeID, size, model.Offset(page, size))
	if err != nil {
		return model.Page[model.UserView]{}, err
	}

	total, err := s.userRepository.CountActive(ctx, excludeID)
	if err != nil {
		return model.Page[model.UserView]{}, err
	}

	return model.NewPage(users, page, size, total), nil
}

// ByID returns an active user. Inactive users are reported as not found.
func (s *UserService) ByID(ctx context.Context, id int64) (model.UserView, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserView{}, NotFoundError(MsgUserNotFound)
		}
		return model.UserView{}, err
	}

	if !user.IsActive() {
		return model.UserView{}, NotFoundError(MsgUserNotFound)
	}

	return user.View(), nil
}

// Update replaces the username and, when given, the profile image of the caller.
func (s *UserService) Update(ctx context.Context, authUser *model.User, id int64, in UpdateInput) (model.UserView, error) {
	if authUser == nil || authUser.ID != id {
		return model.UserView{}, ForbiddenError(MsgUnauthorizedUserUpdate)
	}

	var errs validation.Errors
	if err := validation.Username(in.Username); err != nil {
		errs = errs.Set(validation.FieldUsername, err.Error())
	}

	var image []byte
	if in.Image != nil && *in.Image != "" {
		var imageErrs validation.Errors
		image, imageErrs = validation.ProfileImage(*in.Image)
		for _, fe := range imageErrs {
			errs = errs.Set(fe.Field, fe.Key)
		}
	}

	if err := errs.Err(); err != nil {
		return model.UserView{}, err
	}

	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserView{}, ForbiddenError(MsgUnauthorizedUserUpdate)
		}
		return model.UserView{}, err
	}

	user.Username = in.Username

	if image != nil {
		// Old file goes first so at most one image per user stays on disk.
		if user.Image != nil {
			err = s.fileService.DeleteProfileImage(ctx, *user.Image)
			if err != nil {
				slog.Warn("failed to delete old profile image", "error", err, "user_id", user.ID)
			}
		}

		filename, err := s.fileService.SaveProfileImage(ctx, image)
		if err != nil {
			return model.UserView{}, err
		}
		user.Image = &filename
	}

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return model.UserView{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user.View(), nil
}

// Delete removes the caller's account. Hoaxes, attachments, the profile image
// and tokens are cleaned up best effort; only failing to delete the user row
// fails the call.
func (s *UserService) Delete(ctx context.Context, authUser *model.User, id int64) error {
	if authUser == nil || authUser.ID != id {
		return ForbiddenError(MsgUnauthorizedUserDelete)
	}

	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ForbiddenError(MsgUnauthorizedUserDelete)
		}
		return err
	}

	err = s.hoaxService.DeleteAllByUser(ctx, user.ID)
	if err != nil {
		slog.Warn("failed to delete user hoaxes", "error", err, "user_id", user.ID)
	}

	if user.Image != nil {
		err = s.fileService.DeleteProfileImage(ctx, *user.Image)
		if err != nil {
			slog.Warn("failed to delete profile image", "error", err, "user_id", user.ID)
		}
	}

	err = s.authService.RevokeAll(ctx, user.ID)
	if err != nil {
		slog.Warn("failed to revoke user tokens", "error", err, "user_id", user.ID)
	}

	err = s.userRepository.Delete(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted", "user_id", user.ID)
	return nil
}

// RequestPasswordReset assigns a fresh reset token and emails it.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string, locale language.Tag) error {
	user, err := s.userRepository.ByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return NotFoundError(MsgEmailNotInUse)
		}
		return err
	}

	resetToken, err := GenerateToken(accountTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordResetToken = &resetToken
	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	err = s.mailer.SendPasswordReset(ctx, user.Email, resetToken, locale)
	if err != nil {
		slog.Error("failed to send password reset email", "error", err, "email", user.Email)
		return EmailDeliveryError(err)
	}

	return nil
}

// ResetPassword sets a new password for the holder of a reset token. The
// account is activated as a side effect and every session is revoked.
func (s *UserService) ResetPassword(ctx context.Context, resetToken, password string) error {
	if resetToken == "" {
		return ForbiddenError(MsgUnauthorizedPasswordReset)
	}

	user, err := s.userRepository.ByPasswordResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ForbiddenError(MsgUnauthorizedPasswordReset)
		}
		return err
	}

	if err := validation.Password(password); err != nil {
		return validation.Errors{{Field: validation.FieldPassword, Key: err.Error()}}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	user.PasswordResetToken = nil
	user.ActivationToken = nil
	user.Inactive = false

	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.authService.RevokeAll(ctx, user.ID)
}
