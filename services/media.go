package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"civicsync-be/apperrors"
	"civicsync-be/models"
	"civicsync-be/storage"
	"civicsync-be/store"
)

// Upload is a file already checked by the transport for size and type.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaService manages the photos attached to issues.
type MediaService struct {
	store store.Store
	blobs storage.BlobStore
	log   *slog.Logger
	now   Clock
}

func NewMediaService(st store.Store, blobs storage.BlobStore, log *slog.Logger) *MediaService {
	return &MediaService{store: st, blobs: blobs, log: loggerOrDefault(log), now: systemClock}
}

// Upload stores the file and attaches it to the issue. Only the issue owner
// may upload.
func (s *MediaService) Upload(ctx context.Context, issueID, callerID string, file Upload) (*models.Media, error) {
	issue, err := findIssue(ctx, s.store, issueID)
	if err != nil {
		return nil, err
	}
	if !isOwner(issue, callerID) {
		return nil, apperrors.NewForbiddenError("Not authorized to upload media for this issue")
	}
	if file.Body == nil {
		return nil, apperrors.NewValidationError("No file data provided")
	}

	now := s.now()
	key := fmt.Sprintf("%s/%d-%s", issueID, now.UnixMilli(), safeFilename(file.Filename))
	written, err := s.blobs.Put(ctx, key, file.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	media := &models.Media{
		ID:         uuid.NewString(),
		IssueID:    issueID,
		FilePath:   s.blobs.URL(key),
		FileType:   file.ContentType,
		FileSize:   written,
		StorageKey: key,
		CreatedAt:  now,
	}
	if err := s.store.Media().Create(ctx, media); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.WarnContext(ctx, "failed to remove orphaned upload", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to save media: %w", err)
	}

	s.log.InfoContext(ctx, "media uploaded", "media_id", media.ID, "issue_id", issueID, "size", written)
	return media, nil
}

// Delete removes a media row and its blob. Only the owner of the issue the
// media belongs to may delete it.
func (s *MediaService) Delete(ctx context.Context, mediaID, callerID string) error {
	media, err := s.store.Media().FindByID(ctx, mediaID)
	if err != nil {
		return storeError(err, msgMediaNotFound)
	}
	issue, err := findIssue(ctx, s.store, media.IssueID)
	if err != nil {
		return err
	}
	if !isOwner(issue, callerID) {
		return apperrors.NewForbiddenError("Not authorized to delete this media")
	}

	if err := s.store.Media().Delete(ctx, mediaID); err != nil {
		return storeError(err, msgMediaNotFound)
	}
	if err := s.blobs.Delete(ctx, media.StorageKey); err != nil {
		s.log.WarnContext(ctx, "failed to delete media blob", "media_id", mediaID, "key", media.StorageKey, "error", err)
	}
	return nil
}

// ListByIssue returns the media of an issue in upload order.
func (s *MediaService) ListByIssue(ctx context.Context, issueID string) ([]models.Media, error) {
	if _, err := findIssue(ctx, s.store, issueID); err != nil {
		return nil, err
	}
	media, err := s.store.Media().ListByIssue(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	return media, nil
}

var filenameReplacer = strings.NewReplacer(" ", "_", "\\", "_", "..", "_")

// safeFilename keeps the base name of an uploaded file usable as a key
// segment.
func safeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = filenameReplacer.Replace(base)
	if base == "" || base == "." || base == "/" {
		return "upload"
	}
	return base
}
