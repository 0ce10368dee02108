package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/templui/hoaxify/internal/model"
	"github.com/templui/hoaxify/internal/repository"
	"github.com/templui/hoaxify/internal/storage"
)

const MaxAttachmentSize = 5 << 20 // 5MB

const (
	attachmentDir = "attachments"
	profileDir    = "profile"
)

// FileService stores uploaded content under random filenames unrelated to
// the client's original name.
type FileService struct {
	attachmentRepository repository.AttachmentRepository
	storage              storage.Storage
	now                  func() time.Time
}

func NewFileService(attachmentRepository repository.AttachmentRepository, storage storage.Storage) *FileService {
	return &FileService{
		attachmentRepository: attachmentRepository,
		storage:              storage,
		now:                  time.Now,
	}
}

// SaveAttachment stores an upload and records it as an unassociated attachment.
func (s *FileService) SaveAttachment(ctx context.Context, r io.Reader) (*model.Attachment, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAttachmentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxAttachmentSize {
		return nil, FileSizeError()
	}

	filename := uuid.New().String()
	storagePath := path.Join(attachmentDir, filename)

	err = s.storage.Save(ctx, storagePath, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	attachment := &model.Attachment{
		Filename:   filename,
		FileType:   mimetype.Detect(data).String(),
		UploadDate: s.now().UnixMilli(),
	}

	err = s.attachmentRepository.Create(ctx, attachment)
	if err != nil {
		// If DB insert fails, try to cleanup the uploaded file
		delErr := s.storage.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create attachment record: %w", err)
	}

	return attachment, nil
}

// DeleteAttachmentFile removes an attachment's stored content.
func (s *FileService) DeleteAttachmentFile(ctx context.Context, filename string) error {
	return s.storage.Delete(ctx, path.Join(attachmentDir, filename))
}

// SaveProfileImage stores decoded image bytes and returns the generated filename.
func (s *FileService) SaveProfileImage(ctx context.Context, data []byte) (string, error) {
	filename := uuid.New().String()
	err := s.storage.Save(ctx, path.Join(profileDir, filename), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to save profile image: %w", err)
	}
	return filename, nil
}

func (s *FileService) DeleteProfileImage(ctx context.Context, filename string) error {
	return s.storage.Delete(ctx, path.Join(profileDir, filename))
}

// SweepOrphans reclaims attachments never bound to a hoax within the retention
// window. A file that cannot be deleted is logged and its row is removed anyway.
func (s *FileService) SweepOrphans(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := s.now().Add(-retention).UnixMilli()
	orphans, err := s.attachmentRepository.OrphansBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, attachment := range orphans {
		err = s.DeleteAttachmentFile(ctx, attachment.Filename)
		if err != nil {
			slog.Warn("failed to delete orphan attachment file", "error", err, "attachment_id", attachment.ID)
		}

		err = s.attachmentRepository.Delete(ctx, attachment.ID)
		if err != nil {
			return removed, fmt.Errorf("failed to delete orphan attachment %d: %w", attachment.ID, err)
		}
		removed++
	}

	return removed, nil
}
