package supabase

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

const projectColumns = "id, code, name, customer_id, organization_id, status, description, start_date, end_date, created_at, updated_at"

type ProjectStore struct {
	db *sql.DB
}

func scanProject(row interface{ Scan(...any) error }) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.CustomerID, &p.OrganizationID,
		&p.Status, &p.Description, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *ProjectStore) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	f := &filterBuilder{}
	if filter.CustomerID != nil {
		f.eq("customer_id", *filter.CustomerID)
	}
	if filter.OrganizationID != nil {
		f.eq("organization_id", *filter.OrganizationID)
	}
	if filter.Status != nil {
		f.eq("status", *filter.Status)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects"+f.where()+" ORDER BY created_at DESC",
		f.args...)
	if err != nil {
		return nil, &gateway.GatewayError{Op: "projects.list", Err: err}
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, &gateway.GatewayError{Op: "projects.scan", Err: err}
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *ProjectStore) GetByID(ctx context.Context, id string) (models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx,
		"SELECT "+projectColumns+" FROM projects WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.Project{}, &gateway.GatewayError{Op: "projects.get", Err: err}
	}
	return p, nil
}

func (s *ProjectStore) Create(ctx context.Context, fields models.NewProject) (models.Project, error) {
	status := fields.Status
	if status == "" {
		status = models.ProjectActive
	}

	p, err := scanProject(s.db.QueryRowContext(ctx, `
		INSERT INTO projects (id, code, name, customer_id, organization_id, status, description, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+projectColumns,
		uuid.New().String(), fields.Code, fields.Name, fields.CustomerID, fields.OrganizationID,
		status, fields.Description, fields.StartDate, fields.EndDate))
	if err != nil {
		return models.Project{}, &gateway.GatewayError{Op: "projects.create", Err: err}
	}
	return p, nil
}

func (s *ProjectStore) Update(ctx context.Context, id string, patch models.ProjectPatch) (models.Project, error) {
	p := &patchBuilder{}
	if patch.Code != nil {
		p.set("code", *patch.Code)
	}
	if patch.Name != nil {
		p.set("name", *patch.Name)
	}
	if patch.CustomerID != nil {
		p.set("customer_id", *patch.CustomerID)
	}
	if patch.OrganizationID != nil {
		p.set("organization_id", *patch.OrganizationID)
	}
	if patch.Status != nil {
		p.set("status", *patch.Status)
	}
	if patch.Description != nil {
		p.set("description", *patch.Description)
	}
	if patch.StartDate != nil {
		p.set("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		p.set("end_date", *patch.EndDate)
	}
	if p.empty() {
		return models.Project{}, &gateway.ValidationError{Message: "empty patch"}
	}

	sets, idPlaceholder, args := p.clause(id)
	pr, err := scanProject(s.db.QueryRowContext(ctx,
		"UPDATE projects SET "+sets+" WHERE id = "+idPlaceholder+" RETURNING "+projectColumns,
		args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.Project{}, &gateway.GatewayError{Op: "projects.update", Err: err}
	}
	return pr, nil
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return &gateway.GatewayError{Op: "projects.delete", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}
