package demo

import (
	"context"
	"time"

	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

type ProjectStore struct {
	s *Store
}

func (ps *ProjectStore) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	var out []models.Project
	for _, p := range ps.s.projects {
		if filter.CustomerID != nil && p.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.OrganizationID != nil && (p.OrganizationID == nil || *p.OrganizationID != *filter.OrganizationID) {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	sortNewestFirst(out, func(p models.Project) time.Time { return p.CreatedAt })
	return out, nil
}

func (ps *ProjectStore) GetByID(ctx context.Context, id string) (models.Project, error) {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()
	for _, p := range ps.s.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Project{}, gateway.ErrNotFound
}

func (ps *ProjectStore) Create(ctx context.Context, fields models.NewProject) (models.Project, error) {
	status := fields.Status
	if status == "" {
		status = models.ProjectActive
	}

	p := models.Project{
		ID:             newID(),
		Code:           fields.Code,
		Name:           fields.Name,
		CustomerID:     fields.CustomerID,
		OrganizationID: fields.OrganizationID,
		Status:         status,
		Description:    fields.Description,
		StartDate:      fields.StartDate,
		EndDate:        fields.EndDate,
		CreatedAt:      now(),
		UpdatedAt:      now(),
	}

	ps.s.mu.Lock()
	ps.s.projects = append(ps.s.projects, p)
	ps.s.persistLocked()
	ps.s.mu.Unlock()

	ps.s.notify(models.FamilyProjects, "INSERT", p.ID)
	return p, nil
}

func (ps *ProjectStore) Update(ctx context.Context, id string, patch models.ProjectPatch) (models.Project, error) {
	ps.s.mu.Lock()
	var updated models.Project
	found := false
	for i, p := range ps.s.projects {
		if p.ID == id {
			updated = patch.Apply(p)
			updated.UpdatedAt = now()
			ps.s.projects[i] = updated
			found = true
			break
		}
	}
	if found {
		ps.s.persistLocked()
	}
	ps.s.mu.Unlock()

	if !found {
		return models.Project{}, gateway.ErrNotFound
	}
	ps.s.notify(models.FamilyProjects, "UPDATE", id)
	return updated, nil
}

func (ps *ProjectStore) Delete(ctx context.Context, id string) error {
	ps.s.mu.Lock()
	found := false
	for i, p := range ps.s.projects {
		if p.ID == id {
			ps.s.projects = append(ps.s.projects[:i], ps.s.projects[i+1:]...)
			found = true
			break
		}
	}
	if found {
		ps.s.persistLocked()
	}
	ps.s.mu.Unlock()

	if !found {
		return gateway.ErrNotFound
	}
	ps.s.notify(models.FamilyProjects, "DELETE", id)
	return nil
}

var _ gateway.ProjectStore = (*ProjectStore)(nil)
