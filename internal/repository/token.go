package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/hoaxify/internal/model"
)

var ErrTokenNotFound = errors.New("token not found")

type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	ByToken(ctx context.Context, token string) (*model.Token, error)
	// Delete removes a single token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	// DeleteIssuedBefore removes every token issued before cutoff (unix millis).
	DeleteIssuedBefore(ctx context.Context, cutoff int64) (int64, error)
	WithTx(tx *sqlx.Tx) TokenRepository
}

type tokenRepository struct {
	db sqlx.ExtContext
}

func NewTokenRepository(db sqlx.ExtContext) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) WithTx(tx *sqlx.Tx) TokenRepository {
	return &tokenRepository{db: tx}
}

func (r *tokenRepository) Create(ctx context.Context, token *model.Token) error {
	query := `INSERT INTO tokens (token, user_id, issued_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, token.Token, token.UserID, token.IssuedAt)
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}
	return nil
}

func (r *tokenRepository) ByToken(ctx context.Context, token string) (*model.Token, error) {
	t := &model.Token{}
	query := `SELECT token, user_id, issued_at FROM tokens WHERE token = $1`
	err := sqlx.GetContext(ctx, r.db, t, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return t, nil
}

func (r *tokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM tokens WHERE user_id = $1`, userID)
}

func (r *tokenRepository) DeleteIssuedBefore(ctx context.Context, cutoff int64) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM tokens WHERE issued_at < $1`, cutoff)
}

func (r *tokenRepository) deleteWhere(ctx context.Context, query string, arg any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tokens: %w", err)
	}
	return result.RowsAffected()
}
