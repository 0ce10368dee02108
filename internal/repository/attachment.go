package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/hoaxify/internal/model"
)

var ErrAttachmentNotFound = errors.New("attachment not found")

const attachmentColumns = `id, filename, file_type, upload_date, hoax_id`

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *model.Attachment) error
	ByID(ctx context.Context, id int64) (*model.Attachment, error)
	// Associate binds an unassociated attachment to a hoax. It reports false
	// when the attachment is missing or already bound to another hoax.
	Associate(ctx context.Context, attachmentID, hoaxID int64) (bool, error)
	ByUser(ctx context.Context, userID int64) ([]model.Attachment, error)
	// OrphansBefore lists unassociated attachments uploaded before cutoff (unix millis).
	OrphansBefore(ctx context.Context, cutoff int64) ([]model.Attachment, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	WithTx(tx *sqlx.Tx) AttachmentRepository
}

type attachmentRepository struct {
	db sqlx.ExtContext
}

func NewAttachmentRepository(db sqlx.ExtContext) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) WithTx(tx *sqlx.Tx) AttachmentRepository {
	return &attachmentRepository{db: tx}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *model.Attachment) error {
	query := `INSERT INTO attachments (filename, file_type, upload_date, hoax_id) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		attachment.Filename,
		attachment.FileType,
		attachment.UploadDate,
		attachment.HoaxID,
	).Scan(&attachment.ID)
	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}
	return nil
}

func (r *attachmentRepository) ByID(ctx context.Context, id int64) (*model.Attachment, error) {
	attachment := &model.Attachment{}
	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE id = $1`
	err := sqlx.GetContext(ctx, r.db, attachment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return attachment, nil
}

func (r *attachmentRepository) Associate(ctx context.Context, attachmentID, hoaxID int64) (bool, error) {
	// The hoax_id IS NULL guard makes the first association stick.
	query := `UPDATE attachments SET hoax_id = $1 WHERE id = $2 AND hoax_id IS NULL`
	result, err := r.db.ExecContext(ctx, query, hoaxID, attachmentID)
	if err != nil {
		return false, fmt.Errorf("failed to associate attachment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *attachmentRepository) ByUser(ctx context.Context, userID int64) ([]model.Attachment, error) {
	var attachments []model.Attachment
	query := `
		SELECT a.id, a.filename, a.file_type, a.upload_date, a.hoax_id
		FROM attachments a
		JOIN hoaxes h ON h.id = a.hoax_id
		WHERE h.user_id = $1
	`
	err := sqlx.SelectContext(ctx, r.db, &attachments, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

func (r *attachmentRepository) OrphansBefore(ctx context.Context, cutoff int64) ([]model.Attachment, error) {
	var attachments []model.Attachment
	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE hoax_id IS NULL AND upload_date < $1`
	err := sqlx.SelectContext(ctx, r.db, &attachments, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphan attachments: %w", err)
	}
	return attachments, nil
}

func (r *attachmentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

func (r *attachmentRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	query := `DELETE FROM attachments WHERE hoax_id IN (SELECT id FROM hoaxes WHERE user_id = $1)`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attachments: %w", err)
	}
	return result.RowsAffected()
}
