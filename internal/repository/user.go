package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/hoaxify/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const userColumns = `id, username, email, password_hash, inactive, activation_token, password_reset_token, image, created_at`

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByActivationToken(ctx context.Context, token string) (*model.User, error)
	ByPasswordResetToken(ctx context.Context, token string) (*model.User, error)
	// Active lists active users other than excludeID, ordered by id.
	Active(ctx context.Context, excludeID int64, limit, offset int) ([]model.UserView, error)
	CountActive(ctx context.Context, excludeID int64) (int64, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
	WithTx(tx *sqlx.Tx) UserRepository
}

type userRepository struct {
	db sqlx.ExtContext
}

func NewUserRepository(db sqlx.ExtContext) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *sqlx.Tx) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, inactive, activation_token, password_reset_token, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Inactive,
		user.ActivationToken,
		user.PasswordResetToken,
		user.Image,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) ByID(ctx context.Context, id int64) (*model.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) ByActivationToken(ctx context.Context, token string) (*model.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE activation_token = $1`, token)
}

func (r *userRepository) ByPasswordResetToken(ctx context.Context, token string) (*model.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE password_reset_token = $1`, token)
}

func (r *userRepository) one(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	err := sqlx.GetContext(ctx, r.db, user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *userRepository) Active(ctx context.Context, excludeID int64, limit, offset int) ([]model.UserView, error) {
	var users []model.UserView
	query := `
		SELECT id, username, email, image FROM users
		WHERE inactive = $1 AND id <> $2
		ORDER BY id
		LIMIT $3 OFFSET $4
	`
	err := sqlx.SelectContext(ctx, r.db, &users, query, false, excludeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) CountActive(ctx context.Context, excludeID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM users WHERE inactive = $1 AND id <> $2`
	err := sqlx.GetContext(ctx, r.db, &count, query, false, excludeID)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET username = $1, password_hash = $2, inactive = $3, activation_token = $4,
		    password_reset_token = $5, image = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Inactive,
		user.ActivationToken,
		user.PasswordResetToken,
		user.Image,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireAffected(result, ErrUserNotFound)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireAffected(result, ErrUserNotFound)
}

func requireAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
