package supabase

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

const customerColumns = "id, email, password_hash, company_name, contact_person, phone, organization_id, is_active, created_at, updated_at"

type CustomerStore struct {
	db *sql.DB
}

func scanCustomer(row interface{ Scan(...any) error }) (models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.CompanyName, &c.ContactPerson,
		&c.Phone, &c.OrganizationID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *CustomerStore) List(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, error) {
	f := &filterBuilder{}
	if filter.OrganizationID != nil {
		f.eq("organization_id", *filter.OrganizationID)
	}
	if filter.IsActive != nil {
		f.eq("is_active", *filter.IsActive)
	}

	// Customers sort by company name, unlike the other families.
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+customerColumns+" FROM customers"+f.where()+" ORDER BY company_name ASC",
		f.args...)
	if err != nil {
		return nil, &gateway.GatewayError{Op: "customers.list", Err: err}
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, &gateway.GatewayError{Op: "customers.scan", Err: err}
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *CustomerStore) GetByID(ctx context.Context, id string) (models.Customer, error) {
	c, err := scanCustomer(s.db.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.Customer{}, &gateway.GatewayError{Op: "customers.get", Err: err}
	}
	return c, nil
}

// GetByEmail resolves an active customer for portal sign-in. Email is unique
// among active customers.
func (s *CustomerStore) GetByEmail(ctx context.Context, email string) (models.Customer, error) {
	c, err := scanCustomer(s.db.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE LOWER(email) = LOWER($1) AND is_active", email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.Customer{}, &gateway.GatewayError{Op: "customers.get_by_email", Err: err}
	}
	return c, nil
}

func (s *CustomerStore) Create(ctx context.Context, fields models.NewCustomer) (models.Customer, error) {
	if fields.Email == "" {
		return models.Customer{}, &gateway.ValidationError{Field: "email", Message: "must not be empty"}
	}
	if fields.PasswordHash == "" {
		return models.Customer{}, &gateway.ValidationError{Field: "password", Message: "credential missing"}
	}

	c, err := scanCustomer(s.db.QueryRowContext(ctx, `
		INSERT INTO customers (id, email, password_hash, company_name, contact_person, phone, organization_id, is_active)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, TRUE)
		RETURNING `+customerColumns,
		uuid.New().String(), fields.Email, fields.PasswordHash, fields.CompanyName,
		fields.ContactPerson, fields.Phone, fields.OrganizationID))
	if err != nil {
		return models.Customer{}, &gateway.GatewayError{Op: "customers.create", Err: err}
	}
	return c, nil
}

func (s *CustomerStore) Update(ctx context.Context, id string, patch models.CustomerPatch) (models.Customer, error) {
	p := &patchBuilder{}
	if patch.Email != nil {
		p.set("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		p.set("password_hash", *patch.PasswordHash)
	}
	if patch.CompanyName != nil {
		p.set("company_name", *patch.CompanyName)
	}
	if patch.ContactPerson != nil {
		p.set("contact_person", *patch.ContactPerson)
	}
	if patch.Phone != nil {
		p.set("phone", *patch.Phone)
	}
	if patch.OrganizationID != nil {
		p.set("organization_id", *patch.OrganizationID)
	}
	if patch.IsActive != nil {
		p.set("is_active", *patch.IsActive)
	}
	if p.empty() {
		return models.Customer{}, &gateway.ValidationError{Message: "empty patch"}
	}

	sets, idPlaceholder, args := p.clause(id)
	c, err := scanCustomer(s.db.QueryRowContext(ctx,
		"UPDATE customers SET "+sets+" WHERE id = "+idPlaceholder+" RETURNING "+customerColumns,
		args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.Customer{}, &gateway.GatewayError{Op: "customers.update", Err: err}
	}
	return c, nil
}

func (s *CustomerStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return &gateway.GatewayError{Op: "customers.delete", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}
