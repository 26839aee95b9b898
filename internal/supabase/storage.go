package supabase

import (
	"bytes"
	"context"
	"fmt"

	storage "github.com/supabase-community/storage-go"
	"ndt-portal-backend/internal/gateway"
)

// StorageClient is the blob storage gateway over the hosted object store.
// Paths are opaque caller-constructed keys; collision avoidance is the
// caller's job.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceKey, bucket string) (*StorageClient, error) {
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

func (s *StorageClient) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	upsert := false
	_, err := s.client.UploadFile(s.bucket, path, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return &gateway.StorageError{Op: "upload", Path: path, Err: err}
	}
	return nil
}

func (s *StorageClient) Download(ctx context.Context, path string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, path)
	if err != nil {
		return nil, &gateway.StorageError{Op: "download", Path: path, Err: err}
	}
	return data, nil
}

func (s *StorageClient) Delete(ctx context.Context, path string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{path})
	if err != nil {
		return &gateway.StorageError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

func (s *StorageClient) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}

var _ gateway.BlobStore = (*StorageClient)(nil)
