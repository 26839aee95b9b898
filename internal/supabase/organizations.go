package supabase

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

const organizationColumns = "id, name, contact_email, contact_phone, address, is_active, created_at, updated_at"

type OrganizationStore struct {
	db *sql.DB
}

func scanOrganization(row interface{ Scan(...any) error }) (models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.Name, &o.ContactEmail, &o.ContactPhone, &o.Address,
		&o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (s *OrganizationStore) List(ctx context.Context, filter models.OrganizationFilter) ([]models.Organization, error) {
	f := &filterBuilder{}
	if filter.IsActive != nil {
		f.eq("is_active", *filter.IsActive)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+organizationColumns+" FROM organizations"+f.where()+" ORDER BY created_at DESC",
		f.args...)
	if err != nil {
		return nil, &gateway.GatewayError{Op: "organizations.list", Err: err}
	}
	defer rows.Close()

	var orgs []models.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, &gateway.GatewayError{Op: "organizations.scan", Err: err}
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (s *OrganizationStore) GetByID(ctx context.Context, id string) (models.Organization, error) {
	o, err := scanOrganization(s.db.QueryRowContext(ctx,
		"SELECT "+organizationColumns+" FROM organizations WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Organization{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.Organization{}, &gateway.GatewayError{Op: "organizations.get", Err: err}
	}
	return o, nil
}

func (s *OrganizationStore) Create(ctx context.Context, fields models.NewOrganization) (models.Organization, error) {
	if fields.Name == "" {
		return models.Organization{}, &gateway.ValidationError{Field: "name", Message: "must not be empty"}
	}

	o, err := scanOrganization(s.db.QueryRowContext(ctx, `
		INSERT INTO organizations (id, name, contact_email, contact_phone, address, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING `+organizationColumns,
		uuid.New().String(), fields.Name, fields.ContactEmail, fields.ContactPhone, fields.Address))
	if err != nil {
		return models.Organization{}, &gateway.GatewayError{Op: "organizations.create", Err: err}
	}
	return o, nil
}

func (s *OrganizationStore) Update(ctx context.Context, id string, patch models.OrganizationPatch) (models.Organization, error) {
	p := &patchBuilder{}
	if patch.Name != nil {
		if *patch.Name == "" {
			return models.Organization{}, &gateway.ValidationError{Field: "name", Message: "must not be empty"}
		}
		p.set("name", *patch.Name)
	}
	if patch.ContactEmail != nil {
		p.set("contact_email", *patch.ContactEmail)
	}
	if patch.ContactPhone != nil {
		p.set("contact_phone", *patch.ContactPhone)
	}
	if patch.Address != nil {
		p.set("address", *patch.Address)
	}
	if patch.IsActive != nil {
		p.set("is_active", *patch.IsActive)
	}
	if p.empty() {
		return models.Organization{}, &gateway.ValidationError{Message: "empty patch"}
	}

	sets, idPlaceholder, args := p.clause(id)
	o, err := scanOrganization(s.db.QueryRowContext(ctx,
		"UPDATE organizations SET "+sets+" WHERE id = "+idPlaceholder+" RETURNING "+organizationColumns,
		args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Organization{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.Organization{}, &gateway.GatewayError{Op: "organizations.update", Err: err}
	}
	return o, nil
}

func (s *OrganizationStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM organizations WHERE id = $1", id)
	if err != nil {
		return &gateway.GatewayError{Op: "organizations.delete", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}
