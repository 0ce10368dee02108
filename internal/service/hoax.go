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
)

type HoaxService struct {
	db                   *sqlx.DB
	hoaxRepository       repository.HoaxRepository
	attachmentRepository repository.AttachmentRepository
	userRepository       repository.UserRepository
	fileService          *FileService
	now                  func() time.Time
}

func NewHoaxService(
	database *sqlx.DB,
	hoaxRepository repository.HoaxRepository,
	attachmentRepository repository.AttachmentRepository,
	userRepository repository.UserRepository,
	fileService *FileService,
) *HoaxService {
	return &HoaxService{
		db:                   database,
		hoaxRepository:       hoaxRepository,
		attachmentRepository: attachmentRepository,
		userRepository:       userRepository,
		fileService:          fileService,
		now:                  time.Now,
	}
}

// Create stores a hoax for the authenticated user. An attachment id that does
// not resolve to a free attachment is ignored.
func (s *HoaxService) Create(ctx context.Context, authUser *model.User, content string, attachmentID *int64) (*model.Hoax, error) {
	if authUser == nil {
		return nil, AuthenticationError(MsgUnauthorizedHoaxSubmit)
	}

	if err := validation.HoaxContent(content).Err(); err != nil {
		return nil, err
	}

	hoax := &model.Hoax{
		Content:  content,
		PostedAt: s.now().UnixMilli(),
		UserID:   authUser.ID,
	}

	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		err := s.hoaxRepository.WithTx(tx).Create(ctx, hoax)
		if err != nil {
			return err
		}
		if attachmentID == nil {
			return nil
		}

		attachments := s.attachmentRepository.WithTx(tx)
		associated, err := attachments.Associate(ctx, *attachmentID, hoax.ID)
		if err != nil {
			return err
		}
		if !associated {
			logUnassociated(ctx, attachments, *attachmentID, hoax.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save hoax: %w", err)
	}

	return hoax, nil
}

// logUnassociated records why an attachment id was ignored.
func logUnassociated(ctx context.Context, attachments repository.AttachmentRepository, attachmentID, hoaxID int64) {
	attachment, err := attachments.ByID(ctx, attachmentID)
	switch {
	case errors.Is(err, repository.ErrAttachmentNotFound):
		slog.Debug("attachment not found", "attachment_id", attachmentID, "hoax_id", hoaxID)
	case err != nil:
		slog.Warn("failed to look up attachment", "error", err, "attachment_id", attachmentID)
	case attachment.HoaxID != nil:
		slog.Debug("attachment already associated", "attachment_id", attachmentID, "hoax_id", hoaxID, "owner_hoax_id", *attachment.HoaxID)
	}
}

// List returns hoaxes newest first, optionally restricted to one owner.
func (s *HoaxService) List(ctx context.Context, page, size int, ownerID *int64) (model.Page[model.HoaxView], error) {
	if ownerID != nil {
		_, err := s.userRepository.ByID(ctx, *ownerID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return model.Page[model.HoaxView]{}, NotFoundError(MsgUserNotFound)
			}
			return model.Page[model.HoaxView]{}, err
		}
	}

	hoaxes, err := s.hoaxRepository.Page(ctx, ownerID, size, model.Offset(page, size))
	if err != nil {
		return model.Page[model.HoaxView]{}, err
	}

	total, err := s.hoaxRepository.Count(ctx, ownerID)
	if err != nil {
		return model.Page[model.HoaxView]{}, err
	}

	return model.NewPage(hoaxes, page, size, total), nil
}

// DeleteAllByUser removes a user's hoaxes with their attachment files and rows.
// File removal is best effort.
func (s *HoaxService) DeleteAllByUser(ctx context.Context, userID int64) error {
	attachments, err := s.attachmentRepository.ByUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, attachment := range attachments {
		err = s.fileService.DeleteAttachmentFile(ctx, attachment.Filename)
		if err != nil {
			slog.Warn("failed to delete attachment file", "error", err, "attachment_id", attachment.ID, "user_id", userID)
		}
	}

	_, err = s.attachmentRepository.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}

	count, err := s.hoaxRepository.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}

	slog.Debug("deleted hoaxes", "user_id", userID, "count", count)
	return nil
}
