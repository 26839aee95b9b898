// Package gateway defines the contracts between the portal core and whichever
// backend is active: the hosted Postgres/storage/realtime stack or the demo
// fallback store. Callers depend only on these interfaces.
package gateway

import (
	"context"

	"ndt-portal-backend/internal/models"
)

// Record is any entity with a backend-assigned identifier.
type Record interface {
	RecordID() string
}

// Patch is a typed partial update. Apply shallow-merges the set fields into a
// copy of the record; unset fields are left alone.
type Patch[T any] interface {
	Apply(T) T
}

// Store is the per-entity-family data gateway. Filters are conjunctive
// equality predicates; ordering is deterministic per family and callers must
// not assume any other order. No call retries; every failure is surfaced once.
type Store[T Record, F any, N any, P Patch[T]] interface {
	List(ctx context.Context, filter F) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, fields N) (T, error)
	Update(ctx context.Context, id string, patch P) (T, error)
	Delete(ctx context.Context, id string) error
}

// Instantiated store contracts, one per entity family.
type (
	OrganizationStore = Store[models.Organization, models.OrganizationFilter, models.NewOrganization, models.OrganizationPatch]
	ProfileStore      = Store[models.UserProfile, models.ProfileFilter, models.NewProfile, models.ProfilePatch]
	CustomerStore     = Store[models.Customer, models.CustomerFilter, models.NewCustomer, models.CustomerPatch]
	ProjectStore      = Store[models.Project, models.ProjectFilter, models.NewProject, models.ProjectPatch]
	JobStore          = Store[models.Job, models.JobFilter, models.NewJob, models.JobPatch]
	DocumentStore     = Store[models.Document, models.DocumentFilter, models.NewDocument, models.DocumentPatch]
)

// VersionStore appends to a document's version history. Version numbers are
// assigned by the store, atomically with the insert, so two concurrent
// appends for the same document can never produce the same number.
type VersionStore interface {
	ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error)
	Append(ctx context.Context, fields models.NewVersion) (models.DocumentVersion, error)
	Delete(ctx context.Context, id string) error
}

// Event announces that some record in a watched family changed. It carries no
// diff; consumers refetch.
type Event struct {
	Family   string
	Action   string // INSERT, UPDATE or DELETE
	RecordID string
}

// Notifier delivers change events for an entity family. Subscribe returns an
// unsubscribe handle; after it is called no further events are delivered.
type Notifier interface {
	Subscribe(family string, fn func(Event)) (func(), error)
}

// BlobStore is the file storage gateway. Paths are opaque caller-constructed
// keys; the store performs no validation and callers guarantee uniqueness.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Download(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	PublicURL(path string) string
}
