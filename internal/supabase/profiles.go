package supabase

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

const profileColumns = "id, email, full_name, role, organization_id, is_active, two_factor_enabled, created_at, updated_at"

type ProfileStore struct {
	db *sql.DB
}

func scanProfile(row interface{ Scan(...any) error }) (models.UserProfile, error) {
	var u models.UserProfile
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.OrganizationID,
		&u.IsActive, &u.TwoFactorEnabled, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *ProfileStore) List(ctx context.Context, filter models.ProfileFilter) ([]models.UserProfile, error) {
	f := &filterBuilder{}
	if filter.Role != nil {
		f.eq("role", *filter.Role)
	}
	if filter.OrganizationID != nil {
		f.eq("organization_id", *filter.OrganizationID)
	}
	if filter.IsActive != nil {
		f.eq("is_active", *filter.IsActive)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+profileColumns+" FROM user_profiles"+f.where()+" ORDER BY created_at DESC",
		f.args...)
	if err != nil {
		return nil, &gateway.GatewayError{Op: "profiles.list", Err: err}
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		u, err := scanProfile(rows)
		if err != nil {
			return nil, &gateway.GatewayError{Op: "profiles.scan", Err: err}
		}
		profiles = append(profiles, u)
	}
	return profiles, rows.Err()
}

func (s *ProfileStore) GetByID(ctx context.Context, id string) (models.UserProfile, error) {
	u, err := scanProfile(s.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM user_profiles WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.UserProfile{}, &gateway.GatewayError{Op: "profiles.get", Err: err}
	}
	return u, nil
}

// GetByEmail resolves a staff profile for sign-in.
func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (models.UserProfile, error) {
	u, err := scanProfile(s.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM user_profiles WHERE LOWER(email) = LOWER($1) AND is_active", email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.UserProfile{}, &gateway.GatewayError{Op: "profiles.get_by_email", Err: err}
	}
	return u, nil
}

func (s *ProfileStore) Create(ctx context.Context, fields models.NewProfile) (models.UserProfile, error) {
	switch fields.Role {
	case models.RoleAdmin, models.RoleManager, models.RoleEditor, models.RoleCustomer:
	default:
		return models.UserProfile{}, &gateway.ValidationError{Field: "role", Message: "unknown role " + fields.Role}
	}

	u, err := scanProfile(s.db.QueryRowContext(ctx, `
		INSERT INTO user_profiles (id, email, full_name, role, organization_id, is_active, two_factor_enabled)
		VALUES ($1, $2, $3, $4, $5, TRUE, FALSE)
		RETURNING `+profileColumns,
		uuid.New().String(), fields.Email, fields.FullName, fields.Role, fields.OrganizationID))
	if err != nil {
		return models.UserProfile{}, &gateway.GatewayError{Op: "profiles.create", Err: err}
	}
	return u, nil
}

func (s *ProfileStore) Update(ctx context.Context, id string, patch models.ProfilePatch) (models.UserProfile, error) {
	p := &patchBuilder{}
	if patch.Email != nil {
		p.set("email", *patch.Email)
	}
	if patch.FullName != nil {
		p.set("full_name", *patch.FullName)
	}
	if patch.Role != nil {
		p.set("role", *patch.Role)
	}
	if patch.OrganizationID != nil {
		p.set("organization_id", *patch.OrganizationID)
	}
	if patch.IsActive != nil {
		p.set("is_active", *patch.IsActive)
	}
	if patch.TwoFactorEnabled != nil {
		p.set("two_factor_enabled", *patch.TwoFactorEnabled)
	}
	if p.empty() {
		return models.UserProfile{}, &gateway.ValidationError{Message: "empty patch"}
	}

	sets, idPlaceholder, args := p.clause(id)
	u, err := scanProfile(s.db.QueryRowContext(ctx,
		"UPDATE user_profiles SET "+sets+" WHERE id = "+idPlaceholder+" RETURNING "+profileColumns,
		args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, gateway.ErrNotFound
	}
	if err != nil {
		return models.UserProfile{}, &gateway.GatewayError{Op: "profiles.update", Err: err}
	}
	return u, nil
}

func (s *ProfileStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM user_profiles WHERE id = $1", id)
	if err != nil {
		return &gateway.GatewayError{Op: "profiles.delete", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}
