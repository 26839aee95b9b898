package demo

import (
	"context"
	"time"

	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

type DocumentStore struct {
	s *Store
}

func (ds *DocumentStore) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	ds.s.mu.Lock()
	defer ds.s.mu.Unlock()

	var out []models.Document
	for _, d := range ds.s.documents {
		if filter.ProjectID != nil && (d.ProjectID == nil || *d.ProjectID != *filter.ProjectID) {
			continue
		}
		if filter.CustomerID != nil && (d.CustomerID == nil || *d.CustomerID != *filter.CustomerID) {
			continue
		}
		if filter.OrganizationID != nil && (d.OrganizationID == nil || *d.OrganizationID != *filter.OrganizationID) {
			continue
		}
		if filter.DocumentType != nil && d.DocumentType != *filter.DocumentType {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		out = append(out, d)
	}
	sortNewestFirst(out, func(d models.Document) time.Time { return d.CreatedAt })
	return out, nil
}

func (ds *DocumentStore) GetByID(ctx context.Context, id string) (models.Document, error) {
	ds.s.mu.Lock()
	defer ds.s.mu.Unlock()
	for _, d := range ds.s.documents {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Document{}, gateway.ErrNotFound
}

func (ds *DocumentStore) Create(ctx context.Context, fields models.NewDocument) (models.Document, error) {
	if fields.Name == "" {
		return models.Document{}, &gateway.ValidationError{Field: "name", Message: "must not be empty"}
	}
	status := fields.Status
	if status == "" {
		status = models.DocDraft
	}

	d := models.Document{
		ID:             newID(),
		Name:           fields.Name,
		Description:    fields.Description,
		ProjectID:      fields.ProjectID,
		CustomerID:     fields.CustomerID,
		OrganizationID: fields.OrganizationID,
		DocumentType:   fields.DocumentType,
		FilePath:       fields.FilePath,
		FileSize:       fields.FileSize,
		MimeType:       fields.MimeType,
		Method:         fields.Method,
		ReportNumber:   fields.ReportNumber,
		Version:        1,
		Status:         status,
		UploadedBy:     fields.UploadedBy,
		CreatedAt:      now(),
		UpdatedAt:      now(),
	}

	ds.s.mu.Lock()
	ds.s.documents = append(ds.s.documents, d)
	ds.s.persistLocked()
	ds.s.mu.Unlock()

	ds.s.notify(models.FamilyDocuments, "INSERT", d.ID)
	return d, nil
}

func (ds *DocumentStore) Update(ctx context.Context, id string, patch models.DocumentPatch) (models.Document, error) {
	ds.s.mu.Lock()
	var updated models.Document
	found := false
	for i, d := range ds.s.documents {
		if d.ID == id {
			updated = patch.Apply(d)
			updated.UpdatedAt = now()
			ds.s.documents[i] = updated
			found = true
			break
		}
	}
	if found {
		ds.s.persistLocked()
	}
	ds.s.mu.Unlock()

	if !found {
		return models.Document{}, gateway.ErrNotFound
	}
	ds.s.notify(models.FamilyDocuments, "UPDATE", id)
	return updated, nil
}

func (ds *DocumentStore) Delete(ctx context.Context, id string) error {
	ds.s.mu.Lock()
	found := false
	for i, d := range ds.s.documents {
		if d.ID == id {
			ds.s.documents = append(ds.s.documents[:i], ds.s.documents[i+1:]...)
			found = true
			break
		}
	}
	if found {
		// Version history goes with the document.
		kept := ds.s.versions[:0]
		for _, v := range ds.s.versions {
			if v.DocumentID != id {
				kept = append(kept, v)
			}
		}
		ds.s.versions = kept
		ds.s.persistLocked()
	}
	ds.s.mu.Unlock()

	if !found {
		return gateway.ErrNotFound
	}
	ds.s.notify(models.FamilyDocuments, "DELETE", id)
	return nil
}

var _ gateway.DocumentStore = (*DocumentStore)(nil)
