package supabase

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

const jobColumns = "id, project_id, method, status, description, created_at, updated_at"

type JobStore struct {
	db *sql.DB
}

func scanJob(row interface{ Scan(...any) error }) (models.Job, error) {
	var j models.Job
	err := row.Scan(&j.ID, &j.ProjectID, &j.Method, &j.Status, &j.Description,
		&j.CreatedAt, &j.UpdatedAt)
	return j, err
}

func (s *JobStore) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	f := &filterBuilder{}
	if filter.ProjectID != nil {
		f.eq("project_id", *filter.ProjectID)
	}
	if filter.Method != nil {
		f.eq("method", *filter.Method)
	}
	if filter.Status != nil {
		f.eq("status", *filter.Status)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM jobs"+f.where()+" ORDER BY created_at DESC",
		f.args...)
	if err != nil {
		return nil, &gateway.GatewayError{Op: "jobs.list", Err: err}
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, &gateway.GatewayError{Op: "jobs.scan", Err: err}
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *JobStore) GetByID(ctx context.Context, id string) (models.Job, error) {
	j, err := scanJob(s.db.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM jobs WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Job{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.Job{}, &gateway.GatewayError{Op: "jobs.get", Err: err}
	}
	return j, nil
}

func (s *JobStore) Create(ctx context.Context, fields models.NewJob) (models.Job, error) {
	if !models.ValidMethod(fields.Method) {
		return models.Job{}, &gateway.ValidationError{Field: "method", Message: "unknown NDT method " + fields.Method}
	}
	status := fields.Status
	if status == "" {
		status = models.JobOpen
	}

	j, err := scanJob(s.db.QueryRowContext(ctx, `
		INSERT INTO jobs (id, project_id, method, status, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+jobColumns,
		uuid.New().String(), fields.ProjectID, fields.Method, status, fields.Description))
	if err != nil {
		return models.Job{}, &gateway.GatewayError{Op: "jobs.create", Err: err}
	}
	return j, nil
}

func (s *JobStore) Update(ctx context.Context, id string, patch models.JobPatch) (models.Job, error) {
	p := &patchBuilder{}
	if patch.Method != nil {
		if !models.ValidMethod(*patch.Method) {
			return models.Job{}, &gateway.ValidationError{Field: "method", Message: "unknown NDT method " + *patch.Method}
		}
		p.set("method", *patch.Method)
	}
	if patch.Status != nil {
		p.set("status", *patch.Status)
	}
	if patch.Description != nil {
		p.set("description", *patch.Description)
	}
	if p.empty() {
		return models.Job{}, &gateway.ValidationError{Message: "empty patch"}
	}

	sets, idPlaceholder, args := p.clause(id)
	j, err := scanJob(s.db.QueryRowContext(ctx,
		"UPDATE jobs SET "+sets+" WHERE id = "+idPlaceholder+" RETURNING "+jobColumns,
		args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Job{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.Job{}, &gateway.GatewayError{Op: "jobs.update", Err: err}
	}
	return j, nil
}

func (s *JobStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = $1", id)
	if err != nil {
		return &gateway.GatewayError{Op: "jobs.delete", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}
