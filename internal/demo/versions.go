package demo

import (
	"context"
	"sort"

	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

type VersionStore struct {
	s *Store
}

func (vs *VersionStore) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	vs.s.mu.Lock()
	defer vs.s.mu.Unlock()

	var out []models.DocumentVersion
	for _, v := range vs.s.versions {
		if v.DocumentID == documentID {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

// Append assigns the next version number under the store mutex, so demo-mode
// appends for one document are serialized.
func (vs *VersionStore) Append(ctx context.Context, fields models.NewVersion) (models.DocumentVersion, error) {
	vs.s.mu.Lock()
	next := 1
	for _, v := range vs.s.versions {
		if v.DocumentID == fields.DocumentID && v.Version >= next {
			next = v.Version + 1
		}
	}
	v := models.DocumentVersion{
		ID:         newID(),
		DocumentID: fields.DocumentID,
		Version:    next,
		Name:       fields.Name,
		FilePath:   fields.FilePath,
		FileSize:   fields.FileSize,
		MimeType:   fields.MimeType,
		UploadedBy: fields.UploadedBy,
		CreatedAt:  now(),
	}
	vs.s.versions = append(vs.s.versions, v)
	vs.s.persistLocked()
	vs.s.mu.Unlock()

	vs.s.notify(models.FamilyVersions, "INSERT", v.ID)
	return v, nil
}

func (vs *VersionStore) Delete(ctx context.Context, id string) error {
	vs.s.mu.Lock()
	found := false
	for i, v := range vs.s.versions {
		if v.ID == id {
			vs.s.versions = append(vs.s.versions[:i], vs.s.versions[i+1:]...)
			found = true
			break
		}
	}
	if found {
		vs.s.persistLocked()
	}
	vs.s.mu.Unlock()

	if !found {
		return gateway.ErrNotFound
	}
	vs.s.notify(models.FamilyVersions, "DELETE", id)
	return nil
}

var _ gateway.VersionStore = (*VersionStore)(nil)
