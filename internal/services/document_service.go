package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

// FilePayload is the raw upload handed to the workflow after the HTTP layer
// has read it out of the multipart form.
type FilePayload struct {
	Name     string
	Data     []byte
	MimeType string
}

// DocumentService coordinates blob storage with document metadata. A blob and
// its metadata row are separately-owned resources; the service keeps their
// lifecycles consistent and compensates when the second write fails.
type DocumentService struct {
	docs     gateway.DocumentStore
	versions gateway.VersionStore
	blobs    gateway.BlobStore
	log      *zap.SugaredLogger
	maxSize  int64
}

func NewDocumentService(
	docs gateway.DocumentStore,
	versions gateway.VersionStore,
	blobs gateway.BlobStore,
	log *zap.SugaredLogger,
	maxSize int64,
) *DocumentService {
	return &DocumentService{
		docs:     docs,
		versions: versions,
		blobs:    blobs,
		log:      log,
		maxSize:  maxSize,
	}
}

// objectPath builds a collision-resistant storage key:
// {projectID|general}/{unix millis}-{random token}{ext}.
func objectPath(scope *string, filename string) string {
	prefix := "general"
	if scope != nil && *scope != "" {
		prefix = *scope
	}
	token := uuid.New().String()[:8]
	return fmt.Sprintf("%s/%d-%s%s", prefix, time.Now().UnixMilli(), token, filepath.Ext(filename))
}

func (s *DocumentService) validate(file FilePayload) error {
	if len(file.Data) == 0 {
		return &gateway.ValidationError{Field: "file", Message: "empty upload"}
	}
	if int64(len(file.Data)) > s.maxSize {
		return &gateway.ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("size %d exceeds limit %d", len(file.Data), s.maxSize),
		}
	}
	return nil
}

// Upload stores the blob first and the metadata record second. A failed blob
// upload stops the workflow before any record exists; a failed record write
// triggers a best-effort delete of the just-uploaded blob so it does not
// orphan. Compensation failure is logged, never surfaced, so it cannot mask
// the original error.
func (s *DocumentService) Upload(ctx context.Context, meta models.NewDocument, file FilePayload) (models.Document, error) {
	if err := s.validate(file); err != nil {
		return models.Document{}, err
	}

	path := objectPath(meta.ProjectID, file.Name)
	if err := s.blobs.Upload(ctx, path, file.Data, file.MimeType); err != nil {
		return models.Document{}, err
	}

	meta.FilePath = path
	meta.FileSize = int64(len(file.Data))
	meta.MimeType = file.MimeType
	if meta.Name == "" {
		meta.Name = file.Name
	}

	doc, err := s.docs.Create(ctx, meta)
	if err != nil {
		s.compensate(path)
		return models.Document{}, err
	}

	// The history starts with the upload itself: record version 1 so the next
	// appended revision numbers from it. The document and blob are already
	// committed, so a failed history write degrades the listing, nothing more.
	if _, err := s.versions.Append(ctx, models.NewVersion{
		DocumentID: doc.ID,
		Name:       doc.Name,
		FilePath:   doc.FilePath,
		FileSize:   doc.FileSize,
		MimeType:   doc.MimeType,
		UploadedBy: doc.UploadedBy,
	}); err != nil {
		s.log.Warnw("initial version record failed", "document", doc.ID, "error", err)
	}

	s.log.Infow("document uploaded", "id", doc.ID, "path", path, "size", doc.FileSize)
	return doc, nil
}

// CreateVersion appends the uploaded file to an existing document's history.
// The version number is assigned by the store, atomically with the insert.
// On success the parent document is patched to point at the new head.
func (s *DocumentService) CreateVersion(ctx context.Context, documentID string, file FilePayload, uploadedBy string) (models.DocumentVersion, error) {
	if err := s.validate(file); err != nil {
		return models.DocumentVersion{}, err
	}

	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return models.DocumentVersion{}, err
	}

	scope := "general"
	if doc.ProjectID != nil && *doc.ProjectID != "" {
		scope = *doc.ProjectID
	}
	versionScope := scope + "/versions"
	path := objectPath(&versionScope, file.Name)

	if err := s.blobs.Upload(ctx, path, file.Data, file.MimeType); err != nil {
		return models.DocumentVersion{}, err
	}

	version, err := s.versions.Append(ctx, models.NewVersion{
		DocumentID: documentID,
		Name:       file.Name,
		FilePath:   path,
		FileSize:   int64(len(file.Data)),
		MimeType:   file.MimeType,
		UploadedBy: uploadedBy,
	})
	if err != nil {
		s.compensate(path)
		return models.DocumentVersion{}, err
	}

	// Advance the parent document to the new head. The version row is already
	// committed, so a failure here only leaves the head pointer stale until
	// the next refresh; version listings stay correct either way.
	if _, err := s.docs.Update(ctx, documentID, models.DocumentPatch{
		Version:  &version.Version,
		FilePath: &version.FilePath,
		FileSize: &version.FileSize,
		MimeType: &version.MimeType,
	}); err != nil {
		s.log.Warnw("head pointer update failed", "document", documentID, "version", version.Version, "error", err)
	}

	s.log.Infow("document version appended", "document", documentID, "version", version.Version, "path", path)
	return version, nil
}

// Versions returns the history for a document, newest first.
func (s *DocumentService) Versions(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	return s.versions.ListByDocument(ctx, documentID)
}

// PublicURL exposes the blob gateway's URL for a stored path.
func (s *DocumentService) PublicURL(path string) string {
	return s.blobs.PublicURL(path)
}

// Delete removes the metadata record and then the blob. Blob deletion failure
// is tolerated; an orphaned blob is an accepted residual.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, documentID); err != nil {
		return err
	}
	if doc.FilePath != "" {
		s.compensate(doc.FilePath)
	}
	return nil
}

// compensate deletes a blob best-effort, detached from the caller's context
// so cancellation cannot strand it.
func (s *DocumentService) compensate(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.blobs.Delete(ctx, path); err != nil {
		s.log.Warnw("orphaned blob cleanup failed", "path", path, "error", err)
	}
}
