package demo

import (
	"context"

	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

type CustomerStore struct {
	s *Store
}

func (cs *CustomerStore) List(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	var out []models.Customer
	for _, c := range cs.s.customers {
		if filter.OrganizationID != nil && (c.OrganizationID == nil || *c.OrganizationID != *filter.OrganizationID) {
			continue
		}
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, c)
	}
	sortCustomers(out)
	return out, nil
}

func (cs *CustomerStore) GetByID(ctx context.Context, id string) (models.Customer, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	for _, c := range cs.s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Customer{}, gateway.ErrNotFound
}

func (cs *CustomerStore) Create(ctx context.Context, fields models.NewCustomer) (models.Customer, error) {
	if fields.Email == "" {
		return models.Customer{}, &gateway.ValidationError{Field: "email", Message: "must not be empty"}
	}
	if fields.PasswordHash == "" {
		return models.Customer{}, &gateway.ValidationError{Field: "password", Message: "credential missing"}
	}

	c := models.Customer{
		ID:             newID(),
		Email:          fields.Email,
		PasswordHash:   fields.PasswordHash,
		CompanyName:    fields.CompanyName,
		ContactPerson:  fields.ContactPerson,
		Phone:          fields.Phone,
		OrganizationID: fields.OrganizationID,
		IsActive:       true,
		CreatedAt:      now(),
		UpdatedAt:      now(),
	}

	cs.s.mu.Lock()
	cs.s.customers = append(cs.s.customers, c)
	cs.s.persistLocked()
	cs.s.mu.Unlock()

	cs.s.notify(models.FamilyCustomers, "INSERT", c.ID)
	return c, nil
}

func (cs *CustomerStore) Update(ctx context.Context, id string, patch models.CustomerPatch) (models.Customer, error) {
	cs.s.mu.Lock()
	var updated models.Customer
	found := false
	for i, c := range cs.s.customers {
		if c.ID == id {
			updated = patch.Apply(c)
			updated.UpdatedAt = now()
			cs.s.customers[i] = updated
			found = true
			break
		}
	}
	if found {
		cs.s.persistLocked()
	}
	cs.s.mu.Unlock()

	if !found {
		return models.Customer{}, gateway.ErrNotFound
	}
	cs.s.notify(models.FamilyCustomers, "UPDATE", id)
	return updated, nil
}

func (cs *CustomerStore) Delete(ctx context.Context, id string) error {
	cs.s.mu.Lock()
	found := false
	for i, c := range cs.s.customers {
		if c.ID == id {
			cs.s.customers = append(cs.s.customers[:i], cs.s.customers[i+1:]...)
			found = true
			break
		}
	}
	if found {
		cs.s.persistLocked()
	}
	cs.s.mu.Unlock()

	if !found {
		return gateway.ErrNotFound
	}
	cs.s.notify(models.FamilyCustomers, "DELETE", id)
	return nil
}

var _ gateway.CustomerStore = (*CustomerStore)(nil)
