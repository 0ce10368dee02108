package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/hoaxify/internal/model"
)

type HoaxRepository interface {
	Create(ctx context.Context, hoax *model.Hoax) error
	// Page lists hoaxes newest first, joined with owner and attachment.
	// A nil ownerID lists every user's hoaxes.
	Page(ctx context.Context, ownerID *int64, limit, offset int) ([]model.HoaxView, error)
	Count(ctx context.Context, ownerID *int64) (int64, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	WithTx(tx *sqlx.Tx) HoaxRepository
}

type hoaxRepository struct {
	db sqlx.ExtContext
}

func NewHoaxRepository(db sqlx.ExtContext) HoaxRepository {
	return &hoaxRepository{db: db}
}

func (r *hoaxRepository) WithTx(tx *sqlx.Tx) HoaxRepository {
	return &hoaxRepository{db: tx}
}

func (r *hoaxRepository) Create(ctx context.Context, hoax *model.Hoax) error {
	query := `INSERT INTO hoaxes (content, posted_at, user_id) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, hoax.Content, hoax.PostedAt, hoax.UserID).Scan(&hoax.ID)
	if err != nil {
		return fmt.Errorf("failed to insert hoax: %w", err)
	}
	return nil
}

// hoaxRow is the flat shape of the hoax/user/attachment join.
type hoaxRow struct {
	ID       int64          `db:"id"`
	Content  string         `db:"content"`
	PostedAt int64          `db:"posted_at"`
	UserID   int64          `db:"user_id"`
	Username string         `db:"username"`
	Email    string         `db:"email"`
	Image    sql.NullString `db:"image"`
	FileName sql.NullString `db:"filename"`
	FileType sql.NullString `db:"file_type"`
}

func (row hoaxRow) view() model.HoaxView {
	v := model.HoaxView{
		ID:        row.ID,
		Content:   row.Content,
		Timestamp: row.PostedAt,
		User: model.UserView{
			ID:       row.UserID,
			Username: row.Username,
			Email:    row.Email,
		},
	}
	if row.Image.Valid {
		image := row.Image.String
		v.User.Image = &image
	}
	if row.FileName.Valid {
		v.FileAttachment = &model.AttachmentView{
			Filename: row.FileName.String,
			FileType: row.FileType.String,
		}
	}
	return v
}

func (r *hoaxRepository) Page(ctx context.Context, ownerID *int64, limit, offset int) ([]model.HoaxView, error) {
	query := `
		SELECT h.id, h.content, h.posted_at, u.id AS user_id, u.username, u.email, u.image,
		       a.filename, a.file_type
		FROM hoaxes h
		JOIN users u ON u.id = h.user_id
		LEFT JOIN attachments a ON a.hoax_id = h.id
	`
	args := []any{}
	if ownerID != nil {
		query += ` WHERE h.user_id = $1 ORDER BY h.id DESC LIMIT $2 OFFSET $3`
		args = append(args, *ownerID, limit, offset)
	} else {
		query += ` ORDER BY h.id DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	var rows []hoaxRow
	err := sqlx.SelectContext(ctx, r.db, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hoaxes: %w", err)
	}

	views := make([]model.HoaxView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.view())
	}
	return views, nil
}

func (r *hoaxRepository) Count(ctx context.Context, ownerID *int64) (int64, error) {
	var count int64
	var err error
	if ownerID != nil {
		err = sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM hoaxes WHERE user_id = $1`, *ownerID)
	} else {
		err = sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM hoaxes`)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count hoaxes: %w", err)
	}
	return count, nil
}

func (r *hoaxRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hoaxes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete hoaxes: %w", err)
	}
	return result.RowsAffected()
}
