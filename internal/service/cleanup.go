package service

import (
	"context"
	"log/slog"
	"time"
)

// CleanupService runs the periodic sweeps for expired session tokens and
// attachments that were never bound to a hoax.
type CleanupService struct {
	authService             *AuthService
	fileService             *FileService
	tokenSweepInterval      time.Duration
	attachmentSweepInterval time.Duration
	attachmentRetention     time.Duration
}

func NewCleanupService(
	authService *AuthService,
	fileService *FileService,
	tokenSweepInterval time.Duration,
	attachmentSweepInterval time.Duration,
	attachmentRetention time.Duration,
) *CleanupService {
	return &CleanupService{
		authService:             authService,
		fileService:             fileService,
		tokenSweepInterval:      tokenSweepInterval,
		attachmentSweepInterval: attachmentSweepInterval,
		attachmentRetention:     attachmentRetention,
	}
}

// Run blocks until ctx is cancelled. Each sweep has its own ticker, so a slow
// orphan sweep never delays token expiry.
func (s *CleanupService) Run(ctx context.Context) error {
	tokenTicker := time.NewTicker(s.tokenSweepInterval)
	defer tokenTicker.Stop()
	attachmentTicker := time.NewTicker(s.attachmentSweepInterval)
	defer attachmentTicker.Stop()

	slog.Info("cleanup started",
		"token_interval", s.tokenSweepInterval,
		"attachment_interval", s.attachmentSweepInterval,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup stopped")
			return nil
		case <-tokenTicker.C:
			s.sweepTokens(ctx)
		case <-attachmentTicker.C:
			s.sweepAttachments(ctx)
		}
	}
}

// SweepOnce runs both sweeps immediately and returns the first error.
func (s *CleanupService) SweepOnce(ctx context.Context) (tokens int64, attachments int, err error) {
	tokens, err = s.authService.SweepExpired(ctx)
	if err != nil {
		return 0, 0, err
	}
	attachments, err = s.fileService.SweepOrphans(ctx, s.attachmentRetention)
	if err != nil {
		return tokens, attachments, err
	}
	return tokens, attachments, nil
}

func (s *CleanupService) sweepTokens(ctx context.Context) {
	count, err := s.authService.SweepExpired(ctx)
	if err != nil {
		slog.Error("token sweep failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("expired tokens removed", "count", count)
	}
}

func (s *CleanupService) sweepAttachments(ctx context.Context) {
	count, err := s.fileService.SweepOrphans(ctx, s.attachmentRetention)
	if err != nil {
		slog.Error("attachment sweep failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("orphan attachments removed", "count", count)
	}
}
