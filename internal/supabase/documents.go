package supabase

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

const documentColumns = "id, name, description, project_id, customer_id, organization_id, document_type, " +
	"file_path, file_size, mime_type, method, report_number, version, status, uploaded_by, created_at, updated_at"

type DocumentStore struct {
	db *sql.DB
}

func scanDocument(row interface{ Scan(...any) error }) (models.Document, error) {
	var d models.Document
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.ProjectID, &d.CustomerID, &d.OrganizationID,
		&d.DocumentType, &d.FilePath, &d.FileSize, &d.MimeType, &d.Method, &d.ReportNumber,
		&d.Version, &d.Status, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *DocumentStore) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	f := &filterBuilder{}
	if filter.ProjectID != nil {
		f.eq("project_id", *filter.ProjectID)
	}
	if filter.CustomerID != nil {
		f.eq("customer_id", *filter.CustomerID)
	}
	if filter.OrganizationID != nil {
		f.eq("organization_id", *filter.OrganizationID)
	}
	if filter.DocumentType != nil {
		f.eq("document_type", *filter.DocumentType)
	}
	if filter.Status != nil {
		f.eq("status", *filter.Status)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents"+f.where()+" ORDER BY created_at DESC",
		f.args...)
	if err != nil {
		return nil, &gateway.GatewayError{Op: "documents.list", Err: err}
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, &gateway.GatewayError{Op: "documents.scan", Err: err}
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *DocumentStore) GetByID(ctx context.Context, id string) (models.Document, error) {
	d, err := scanDocument(s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.Document{}, &gateway.GatewayError{Op: "documents.get", Err: err}
	}
	return d, nil
}

func (s *DocumentStore) Create(ctx context.Context, fields models.NewDocument) (models.Document, error) {
	if fields.Name == "" {
		return models.Document{}, &gateway.ValidationError{Field: "name", Message: "must not be empty"}
	}
	status := fields.Status
	if status == "" {
		status = models.DocDraft
	}

	// New documents always start at version 1.
	d, err := scanDocument(s.db.QueryRowContext(ctx, `
		INSERT INTO documents (id, name, description, project_id, customer_id, organization_id,
			document_type, file_path, file_size, mime_type, method, report_number, version, status, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1, $13, $14)
		RETURNING `+documentColumns,
		uuid.New().String(), fields.Name, fields.Description, fields.ProjectID, fields.CustomerID,
		fields.OrganizationID, fields.DocumentType, fields.FilePath, fields.FileSize, fields.MimeType,
		fields.Method, fields.ReportNumber, status, fields.UploadedBy))
	if err != nil {
		return models.Document{}, &gateway.GatewayError{Op: "documents.create", Err: err}
	}
	return d, nil
}

func (s *DocumentStore) Update(ctx context.Context, id string, patch models.DocumentPatch) (models.Document, error) {
	p := &patchBuilder{}
	if patch.Name != nil {
		p.set("name", *patch.Name)
	}
	if patch.Description != nil {
		p.set("description", *patch.Description)
	}
	if patch.DocumentType != nil {
		p.set("document_type", *patch.DocumentType)
	}
	if patch.FilePath != nil {
		p.set("file_path", *patch.FilePath)
	}
	if patch.FileSize != nil {
		p.set("file_size", *patch.FileSize)
	}
	if patch.MimeType != nil {
		p.set("mime_type", *patch.MimeType)
	}
	if patch.Method != nil {
		p.set("method", *patch.Method)
	}
	if patch.ReportNumber != nil {
		p.set("report_number", *patch.ReportNumber)
	}
	if patch.Version != nil {
		p.set("version", *patch.Version)
	}
	if patch.Status != nil {
		p.set("status", *patch.Status)
	}
	if p.empty() {
		return models.Document{}, &gateway.ValidationError{Message: "empty patch"}
	}

	sets, idPlaceholder, args := p.clause(id)
	d, err := scanDocument(s.db.QueryRowContext(ctx,
		"UPDATE documents SET "+sets+" WHERE id = "+idPlaceholder+" RETURNING "+documentColumns,
		args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.Document{}, &gateway.GatewayError{Op: "documents.update", Err: err}
	}
	return d, nil
}

func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return &gateway.GatewayError{Op: "documents.delete", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}
