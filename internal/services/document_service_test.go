package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
	"ndt-portal-backend/internal/services"
)

type fakeDocStore struct {
	mu        sync.Mutex
	docs      map[string]models.Document
	createErr error
	nextID    int
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[string]models.Document)}
}

func (f *fakeDocStore) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Document, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDocStore) GetByID(ctx context.Context, id string) (models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return models.Document{}, gateway.ErrNotFound
	}
	return d, nil
}

func (f *fakeDocStore) Create(ctx context.Context, fields models.NewDocument) (models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Document{}, f.createErr
	}
	f.nextID++
	d := models.Document{
		ID:           "doc-" + strings.Repeat("x", f.nextID),
		Name:         fields.Name,
		ProjectID:    fields.ProjectID,
		DocumentType: fields.DocumentType,
		FilePath:     fields.FilePath,
		FileSize:     fields.FileSize,
		MimeType:     fields.MimeType,
		Version:      1,
		Status:       fields.Status,
		UploadedBy:   fields.UploadedBy,
	}
	f.docs[d.ID] = d
	return d, nil
}

func (f *fakeDocStore) Update(ctx context.Context, id string, patch models.DocumentPatch) (models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return models.Document{}, gateway.ErrNotFound
	}
	f.docs[id] = patch.Apply(d)
	return f.docs[id], nil
}

func (f *fakeDocStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return gateway.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

type fakeVersionStore struct {
	mu        sync.Mutex
	versions  []models.DocumentVersion
	appendErr error
}

func (f *fakeVersionStore) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DocumentVersion
	for _, v := range f.versions {
		if v.DocumentID == documentID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVersionStore) Append(ctx context.Context, fields models.NewVersion) (models.DocumentVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return models.DocumentVersion{}, f.appendErr
	}
	next := 1
	for _, v := range f.versions {
		if v.DocumentID == fields.DocumentID && v.Version >= next {
			next = v.Version + 1
		}
	}
	v := models.DocumentVersion{
		ID:         "ver-" + fields.FilePath,
		DocumentID: fields.DocumentID,
		Version:    next,
		Name:       fields.Name,
		FilePath:   fields.FilePath,
		FileSize:   fields.FileSize,
		MimeType:   fields.MimeType,
		UploadedBy: fields.UploadedBy,
	}
	f.versions = append(f.versions, v)
	return v, nil
}

func (f *fakeVersionStore) Delete(ctx context.Context, id string) error { return nil }

type fakeBlobStore struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	uploadErr error
	deleteErr error
	deleted   []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.blobs[path] = data
	return nil
}

func (f *fakeBlobStore) Download(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[path]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, path)
	delete(f.blobs, path)
	return nil
}

func (f *fakeBlobStore) PublicURL(path string) string { return "fake://" + path }

func newService(docs *fakeDocStore, versions *fakeVersionStore, blobs *fakeBlobStore) *services.DocumentService {
	return services.NewDocumentService(docs, versions, blobs, zap.NewNop().Sugar(), 1024)
}

func TestUpload_StoresBlobThenMetadata(t *testing.T) {
	docs := newFakeDocStore()
	versions := &fakeVersionStore{}
	blobs := newFakeBlobStore()
	svc := newService(docs, versions, blobs)

	projectID := "proj-1"
	doc, err := svc.Upload(context.Background(), models.NewDocument{
		Name:         "Weld Report",
		ProjectID:    &projectID,
		DocumentType: models.DocReport,
		Status:       models.DocDraft,
	}, services.FilePayload{Name: "report.pdf", Data: []byte("pdf-bytes"), MimeType: "application/pdf"})
	require.NoError(t, err)

	assert.Equal(t, "Weld Report", doc.Name)
	assert.Equal(t, int64(9), doc.FileSize)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.True(t, strings.HasPrefix(doc.FilePath, "proj-1/"))
	assert.True(t, strings.HasSuffix(doc.FilePath, ".pdf"))

	// The blob actually landed under the recorded path.
	blobs.mu.Lock()
	_, stored := blobs.blobs[doc.FilePath]
	blobs.mu.Unlock()
	assert.True(t, stored)
}

func TestUpload_EmptyFileRejected(t *testing.T) {
	svc := newService(newFakeDocStore(), &fakeVersionStore{}, newFakeBlobStore())

	_, err := svc.Upload(context.Background(), models.NewDocument{Name: "x"}, services.FilePayload{Name: "x.pdf"})
	var verr *gateway.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpload_OversizeFileRejected(t *testing.T) {
	blobs := newFakeBlobStore()
	svc := newService(newFakeDocStore(), &fakeVersionStore{}, blobs)

	_, err := svc.Upload(context.Background(), models.NewDocument{Name: "x"},
		services.FilePayload{Name: "x.bin", Data: make([]byte, 2048), MimeType: "application/octet-stream"})
	var verr *gateway.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "file", verr.Field)

	// Nothing was uploaded.
	blobs.mu.Lock()
	assert.Empty(t, blobs.blobs)
	blobs.mu.Unlock()
}

func TestUpload_BlobFailureStopsBeforeMetadata(t *testing.T) {
	docs := newFakeDocStore()
	blobs := newFakeBlobStore()
	blobs.uploadErr = errors.New("bucket down")
	svc := newService(docs, &fakeVersionStore{}, blobs)

	_, err := svc.Upload(context.Background(), models.NewDocument{Name: "x"},
		services.FilePayload{Name: "x.pdf", Data: []byte("data"), MimeType: "application/pdf"})
	assert.Error(t, err)
	assert.Empty(t, docs.docs)
}

func TestUpload_MetadataFailureCompensatesBlob(t *testing.T) {
	docs := newFakeDocStore()
	docs.createErr = errors.New("insert failed")
	blobs := newFakeBlobStore()
	svc := newService(docs, &fakeVersionStore{}, blobs)

	_, err := svc.Upload(context.Background(), models.NewDocument{Name: "x"},
		services.FilePayload{Name: "x.pdf", Data: []byte("data"), MimeType: "application/pdf"})
	require.Error(t, err)

	// The just-uploaded blob was deleted again.
	blobs.mu.Lock()
	defer blobs.mu.Unlock()
	assert.Empty(t, blobs.blobs)
	assert.Len(t, blobs.deleted, 1)
}

func TestUpload_CompensationFailureDoesNotMaskOriginalError(t *testing.T) {
	docs := newFakeDocStore()
	insertErr := errors.New("insert failed")
	docs.createErr = insertErr
	blobs := newFakeBlobStore()
	blobs.deleteErr = errors.New("delete also failed")
	svc := newService(docs, &fakeVersionStore{}, blobs)

	_, err := svc.Upload(context.Background(), models.NewDocument{Name: "x"},
		services.FilePayload{Name: "x.pdf", Data: []byte("data"), MimeType: "application/pdf"})
	assert.ErrorIs(t, err, insertErr)
}

func TestUpload_RecordsInitialVersion(t *testing.T) {
	docs := newFakeDocStore()
	versions := &fakeVersionStore{}
	blobs := newFakeBlobStore()
	svc := newService(docs, versions, blobs)

	doc, err := svc.Upload(context.Background(), models.NewDocument{Name: "Report", UploadedBy: "staff-1"},
		services.FilePayload{Name: "r.pdf", Data: []byte("one"), MimeType: "application/pdf"})
	require.NoError(t, err)

	// The upload itself is version 1 of the history.
	history, err := svc.Versions(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Version)
	assert.Equal(t, doc.FilePath, history[0].FilePath)
	assert.Equal(t, "staff-1", history[0].UploadedBy)

	// The first appended revision numbers from it.
	v, err := svc.CreateVersion(context.Background(), doc.ID,
		services.FilePayload{Name: "r2.pdf", Data: []byte("twotwo"), MimeType: "application/pdf"}, "staff-2")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Version)

	history, err = svc.Versions(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestCreateVersion_AppendsAndAdvancesHead(t *testing.T) {
	docs := newFakeDocStore()
	versions := &fakeVersionStore{}
	blobs := newFakeBlobStore()
	svc := newService(docs, versions, blobs)

	projectID := "proj-9"
	doc, err := svc.Upload(context.Background(), models.NewDocument{
		Name: "Report", ProjectID: &projectID, DocumentType: models.DocReport,
	}, services.FilePayload{Name: "v1.pdf", Data: []byte("one"), MimeType: "application/pdf"})
	require.NoError(t, err)

	v, err := svc.CreateVersion(context.Background(), doc.ID,
		services.FilePayload{Name: "v2.pdf", Data: []byte("twotwo"), MimeType: "application/pdf"}, "staff-1")
	require.NoError(t, err)

	assert.Equal(t, doc.ID, v.DocumentID)
	assert.Equal(t, "staff-1", v.UploadedBy)
	assert.True(t, strings.HasPrefix(v.FilePath, "proj-9/versions/"))

	// The parent document now points at the new head.
	head, err := docs.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Version, head.Version)
	assert.Equal(t, v.FilePath, head.FilePath)
	assert.Equal(t, int64(6), head.FileSize)
}

func TestCreateVersion_UnknownDocument(t *testing.T) {
	svc := newService(newFakeDocStore(), &fakeVersionStore{}, newFakeBlobStore())

	_, err := svc.CreateVersion(context.Background(), "missing",
		services.FilePayload{Name: "v.pdf", Data: []byte("x"), MimeType: "application/pdf"}, "staff-1")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestCreateVersion_AppendFailureCompensatesBlob(t *testing.T) {
	docs := newFakeDocStore()
	versions := &fakeVersionStore{appendErr: errors.New("conflict")}
	blobs := newFakeBlobStore()
	svc := newService(docs, versions, blobs)

	doc, err := svc.Upload(context.Background(), models.NewDocument{Name: "Report"},
		services.FilePayload{Name: "v1.pdf", Data: []byte("one"), MimeType: "application/pdf"})
	require.NoError(t, err)

	_, err = svc.CreateVersion(context.Background(), doc.ID,
		services.FilePayload{Name: "v2.pdf", Data: []byte("two"), MimeType: "application/pdf"}, "staff-1")
	require.Error(t, err)

	// Only the original document blob remains.
	blobs.mu.Lock()
	defer blobs.mu.Unlock()
	assert.Len(t, blobs.blobs, 1)
	assert.Len(t, blobs.deleted, 1)
}

func TestDelete_RemovesMetadataThenBlob(t *testing.T) {
	docs := newFakeDocStore()
	blobs := newFakeBlobStore()
	svc := newService(docs, &fakeVersionStore{}, blobs)

	doc, err := svc.Upload(context.Background(), models.NewDocument{Name: "Report"},
		services.FilePayload{Name: "r.pdf", Data: []byte("bytes"), MimeType: "application/pdf"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), doc.ID))
	assert.Empty(t, docs.docs)

	blobs.mu.Lock()
	defer blobs.mu.Unlock()
	assert.Empty(t, blobs.blobs)
}

func TestDelete_BlobFailureTolerated(t *testing.T) {
	docs := newFakeDocStore()
	blobs := newFakeBlobStore()
	svc := newService(docs, &fakeVersionStore{}, blobs)

	doc, err := svc.Upload(context.Background(), models.NewDocument{Name: "Report"},
		services.FilePayload{Name: "r.pdf", Data: []byte("bytes"), MimeType: "application/pdf"})
	require.NoError(t, err)

	blobs.mu.Lock()
	blobs.deleteErr = errors.New("storage down")
	blobs.mu.Unlock()

	// Metadata deletion still succeeds; the orphaned blob is accepted.
	assert.NoError(t, svc.Delete(context.Background(), doc.ID))
	assert.Empty(t, docs.docs)
}

func TestPublicURL_DelegatesToBlobStore(t *testing.T) {
	svc := newService(newFakeDocStore(), &fakeVersionStore{}, newFakeBlobStore())
	assert.Equal(t, "fake://some/path.pdf", svc.PublicURL("some/path.pdf"))
}
