package demo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"ndt-portal-backend/internal/auth"
	"ndt-portal-backend/internal/demo"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

func newTestStore(t *testing.T) *demo.Store {
	t.Helper()
	// Empty path keeps the store in memory only.
	return demo.NewStore("", zap.NewNop().Sugar())
}

func TestNewStore_SeedsFirstRunData(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	customers, err := store.Customers().List(ctx, models.CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "demo@customer.example", customers[0].Email)

	projects, err := store.Projects().List(ctx, models.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	documents, err := store.Documents().List(ctx, models.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, documents, 1)

	versions, err := store.Versions().ListByDocument(ctx, documents[0].ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].Version)

	// The seed blob is fetchable through the blob gateway.
	data, err := store.Download(ctx, documents[0].FilePath)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestStore_PersistsAndReloadsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo-data.json")
	log := zap.NewNop().Sugar()
	ctx := context.Background()

	store := demo.NewStore(path, log)
	created, err := store.Customers().Create(ctx, models.NewCustomer{
		Email:        "new@customer.example",
		CompanyName:  "Baltic Inspect AB",
		PasswordHash: "$2a$10$fakehash",
	})
	require.NoError(t, err)

	// A fresh store against the same file sees the write, not the seed.
	reloaded := demo.NewStore(path, log)
	got, err := reloaded.Customers().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Baltic Inspect AB", got.CompanyName)
}

func TestAuthenticate_SurvivesSnapshotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo-data.json")
	log := zap.NewNop().Sugar()
	ctx := context.Background()

	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)

	store := demo.NewStore(path, log)
	_, err = store.Customers().Create(ctx, models.NewCustomer{
		Email:        "new@customer.example",
		CompanyName:  "Baltic Inspect AB",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	_, ok := store.Authenticate("new@customer.example", "s3cret!")
	require.True(t, ok)

	// Credentials must round-trip through the snapshot: both the bcrypt
	// account and the seeded plaintext stand-in still sign in after a restart.
	reloaded := demo.NewStore(path, log)

	_, ok = reloaded.Authenticate("new@customer.example", "s3cret!")
	assert.True(t, ok)

	_, ok = reloaded.Authenticate("demo@customer.example", "demo123")
	assert.True(t, ok)

	// An empty submitted password never matches, whatever was stored.
	_, ok = reloaded.Authenticate("new@customer.example", "")
	assert.False(t, ok)
}

func TestCustomers_ListSortedByCompanyName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Zeta Marine", "Alpha Weld Co"} {
		_, err := store.Customers().Create(ctx, models.NewCustomer{
			Email:        name + "@example.com",
			CompanyName:  name,
			PasswordHash: "hash",
		})
		require.NoError(t, err)
	}

	customers, err := store.Customers().List(ctx, models.CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, customers, 3)
	assert.Equal(t, "Alpha Weld Co", customers[0].CompanyName)
	assert.Equal(t, "Zeta Marine", customers[2].CompanyName)
}

func TestCustomers_CreateRequiresCredential(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Customers().Create(context.Background(), models.NewCustomer{
		Email:       "x@example.com",
		CompanyName: "X",
	})
	var verr *gateway.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCustomers_UpdateAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Customers().Create(ctx, models.NewCustomer{
		Email: "x@example.com", CompanyName: "X", PasswordHash: "hash",
	})
	require.NoError(t, err)

	name := "X Industries"
	updated, err := store.Customers().Update(ctx, created.ID, models.CustomerPatch{CompanyName: &name})
	require.NoError(t, err)
	assert.Equal(t, "X Industries", updated.CompanyName)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	require.NoError(t, store.Customers().Delete(ctx, created.ID))
	_, err = store.Customers().GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, gateway.ErrNotFound)

	assert.ErrorIs(t, store.Customers().Delete(ctx, created.ID), gateway.ErrNotFound)
}

func TestSubscribe_NotifiesOnWritesUntilUnsubscribed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var events []gateway.Event
	unsub, err := store.Subscribe(models.FamilyCustomers, func(ev gateway.Event) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	created, err := store.Customers().Create(ctx, models.NewCustomer{
		Email: "x@example.com", CompanyName: "X", PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "INSERT", events[0].Action)
	assert.Equal(t, created.ID, events[0].RecordID)

	unsub()
	require.NoError(t, store.Customers().Delete(ctx, created.ID))
	assert.Len(t, events, 1)
}

func TestSubscribe_ListenerMayQueryStoreImmediately(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var seen int
	_, err := store.Subscribe(models.FamilyCustomers, func(ev gateway.Event) {
		// Events fire after the mutating lock is released.
		customers, err := store.Customers().List(ctx, models.CustomerFilter{})
		require.NoError(t, err)
		seen = len(customers)
	})
	require.NoError(t, err)

	_, err = store.Customers().Create(ctx, models.NewCustomer{
		Email: "x@example.com", CompanyName: "X", PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
}

func TestAuthenticate(t *testing.T) {
	store := newTestStore(t)

	// Seeded credential is a plaintext stand-in.
	customer, ok := store.Authenticate("demo@customer.example", "demo123")
	assert.True(t, ok)
	assert.Equal(t, "Nordsee Offshore GmbH", customer.CompanyName)

	// Lookup is case-insensitive on email.
	_, ok = store.Authenticate("DEMO@customer.example", "demo123")
	assert.True(t, ok)

	_, ok = store.Authenticate("demo@customer.example", "wrong")
	assert.False(t, ok)

	_, ok = store.Authenticate("nobody@example.com", "demo123")
	assert.False(t, ok)
}

func TestAuthenticate_InactiveCustomerRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	customers, err := store.Customers().List(ctx, models.CustomerFilter{})
	require.NoError(t, err)
	inactive := false
	_, err = store.Customers().Update(ctx, customers[0].ID, models.CustomerPatch{IsActive: &inactive})
	require.NoError(t, err)

	_, ok := store.Authenticate("demo@customer.example", "demo123")
	assert.False(t, ok)
}

func TestDocuments_DeleteCascadesVersions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	documents, err := store.Documents().List(ctx, models.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, documents, 1)
	docID := documents[0].ID

	_, err = store.Versions().Append(ctx, models.NewVersion{
		DocumentID: docID, Name: "rev2.pdf", FilePath: "demo/rev2.pdf",
	})
	require.NoError(t, err)

	require.NoError(t, store.Documents().Delete(ctx, docID))

	versions, err := store.Versions().ListByDocument(ctx, docID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestVersions_AppendAssignsSequentialNumbers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	documents, err := store.Documents().List(ctx, models.DocumentFilter{})
	require.NoError(t, err)
	docID := documents[0].ID

	v2, err := store.Versions().Append(ctx, models.NewVersion{DocumentID: docID, Name: "a"})
	require.NoError(t, err)
	v3, err := store.Versions().Append(ctx, models.NewVersion{DocumentID: docID, Name: "b"})
	require.NoError(t, err)

	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, 3, v3.Version)

	// Listing comes back newest first.
	versions, err := store.Versions().ListByDocument(ctx, docID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].Version)
	assert.Equal(t, 1, versions[2].Version)
}

func TestBlobStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "p/file.pdf", []byte("content"), "application/pdf"))

	data, err := store.Download(ctx, "p/file.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)

	assert.Equal(t, "demo://blobs/p/file.pdf", store.PublicURL("p/file.pdf"))

	require.NoError(t, store.Delete(ctx, "p/file.pdf"))
	_, err = store.Download(ctx, "p/file.pdf")
	assert.Error(t, err)
}

func TestProjects_FilterByStatusAndCustomer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	status := models.ProjectActive
	active, err := store.Projects().List(ctx, models.ProjectFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "PRJ-2024-017", active[0].Code)

	customers, err := store.Customers().List(ctx, models.CustomerFilter{})
	require.NoError(t, err)
	mine, err := store.Projects().List(ctx, models.ProjectFilter{CustomerID: &customers[0].ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	other := "no-such-customer"
	none, err := store.Projects().List(ctx, models.ProjectFilter{CustomerID: &other})
	require.NoError(t, err)
	assert.Empty(t, none)
}
