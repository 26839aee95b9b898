package supabase

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

const versionColumns = "id, document_id, version, name, file_path, file_size, mime_type, uploaded_by, created_at"

type VersionStore struct {
	db *sql.DB
}

func scanVersion(row interface{ Scan(...any) error }) (models.DocumentVersion, error) {
	var v models.DocumentVersion
	err := row.Scan(&v.ID, &v.DocumentID, &v.Version, &v.Name, &v.FilePath,
		&v.FileSize, &v.MimeType, &v.UploadedBy, &v.CreatedAt)
	return v, err
}

// ListByDocument returns the version history head-first.
func (s *VersionStore) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+versionColumns+" FROM document_versions WHERE document_id = $1 ORDER BY version DESC",
		documentID)
	if err != nil {
		return nil, &gateway.GatewayError{Op: "versions.list", Err: err}
	}
	defer rows.Close()

	var versions []models.DocumentVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, &gateway.GatewayError{Op: "versions.scan", Err: err}
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// Append inserts the next version row. The number is computed inside the
// INSERT so two concurrent appends cannot both observe the same maximum;
// the UNIQUE(document_id, version) constraint backstops the subquery.
func (s *VersionStore) Append(ctx context.Context, fields models.NewVersion) (models.DocumentVersion, error) {
	v, err := scanVersion(s.db.QueryRowContext(ctx, `
		INSERT INTO document_versions (id, document_id, version, name, file_path, file_size, mime_type, uploaded_by)
		SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3, $4, $5, $6, $7
		FROM document_versions WHERE document_id = $2
		RETURNING `+versionColumns,
		uuid.New().String(), fields.DocumentID, fields.Name, fields.FilePath,
		fields.FileSize, fields.MimeType, fields.UploadedBy))
	if err != nil {
		return models.DocumentVersion{}, &gateway.GatewayError{Op: "versions.append", Err: err}
	}
	return v, nil
}

func (s *VersionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM document_versions WHERE id = $1", id)
	if err != nil {
		return &gateway.GatewayError{Op: "versions.delete", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

var _ gateway.VersionStore = (*VersionStore)(nil)
