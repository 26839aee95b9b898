// Package demo is the fallback backend used when no hosted stack is
// configured. It keeps the portal's three core collections in memory, mirrors
// the live gateway contracts synchronously, and substitutes the push channel
// with a local observer registry. Authentication here is a direct credential
// comparison; it is a stand-in, not a security design.
package demo

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"ndt-portal-backend/internal/auth"
	"ndt-portal-backend/internal/gateway"
	"ndt-portal-backend/internal/models"
)

// Store is constructed once in main and injected into its consumers.
type Store struct {
	log  *zap.SugaredLogger
	path string // snapshot file; empty disables persistence

	mu        sync.Mutex
	customers []models.Customer
	projects  []models.Project
	documents []models.Document
	versions  []models.DocumentVersion
	blobs     map[string][]byte

	listenerMu   sync.Mutex
	listeners    map[string]map[int]func(gateway.Event)
	nextListener int
}

// customerRecord is the snapshot form of a customer. The API-facing struct
// never serializes the credential (json:"-"), so the snapshot carries it in a
// shadowing field of its own.
type customerRecord struct {
	models.Customer
	PasswordHash string `json:"password_hash"`
}

type snapshot struct {
	Customers []customerRecord         `json:"customers"`
	Projects  []models.Project         `json:"projects"`
	Documents []models.Document        `json:"documents"`
	Versions  []models.DocumentVersion `json:"versions"`
}

func toCustomerRecords(cs []models.Customer) []customerRecord {
	out := make([]customerRecord, len(cs))
	for i, c := range cs {
		out[i] = customerRecord{Customer: c, PasswordHash: c.PasswordHash}
	}
	return out
}

func fromCustomerRecords(rs []customerRecord) []models.Customer {
	out := make([]models.Customer, len(rs))
	for i, r := range rs {
		c := r.Customer
		c.PasswordHash = r.PasswordHash
		out[i] = c
	}
	return out
}

// NewStore loads the persisted snapshot from path, or seeds fixed defaults on
// first run. An empty path keeps everything in memory only.
func NewStore(path string, log *zap.SugaredLogger) *Store {
	s := &Store{
		log:       log,
		path:      path,
		blobs:     make(map[string][]byte),
		listeners: make(map[string]map[int]func(gateway.Event)),
	}

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			var snap snapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				s.customers = fromCustomerRecords(snap.Customers)
				s.projects = snap.Projects
				s.documents = snap.Documents
				s.versions = snap.Versions
				log.Infow("demo snapshot loaded", "path", path,
					"customers", len(snap.Customers), "projects", len(snap.Projects),
					"documents", len(snap.Documents))
				return s
			}
			log.Warnw("demo snapshot unreadable, reseeding", "path", path)
		}
	}

	s.seed()
	s.persistLocked()
	return s
}

// persistLocked snapshots the collections to disk. Callers hold s.mu (or are
// still single-threaded in the constructor). Failures are logged only; the
// in-memory state stays usable.
func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}
	snap := snapshot{
		Customers: toCustomerRecords(s.customers),
		Projects:  s.projects,
		Documents: s.documents,
		Versions:  s.versions,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.log.Warnw("demo snapshot marshal failed", "error", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.log.Warnw("demo snapshot write failed", "path", s.path, "error", err)
	}
}

// Subscribe registers a listener for one entity family. The handle removes it.
func (s *Store) Subscribe(family string, fn func(gateway.Event)) (func(), error) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	if s.listeners[family] == nil {
		s.listeners[family] = make(map[int]func(gateway.Event))
	}
	s.nextListener++
	id := s.nextListener
	s.listeners[family][id] = fn
	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		delete(s.listeners[family], id)
	}, nil
}

// notify runs listeners synchronously after the mutating lock is released, so
// a listener may immediately query the store.
func (s *Store) notify(family, action, recordID string) {
	s.listenerMu.Lock()
	fns := make([]func(gateway.Event), 0, len(s.listeners[family]))
	for _, fn := range s.listeners[family] {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	ev := gateway.Event{Family: family, Action: action, RecordID: recordID}
	for _, fn := range fns {
		fn(ev)
	}
}

// Authenticate resolves an active customer by portal credentials. Seeded
// records hold the plaintext stand-in credential; records created through the
// API hold a bcrypt hash, so both comparisons are tried.
func (s *Store) Authenticate(email, password string) (models.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if strings.EqualFold(c.Email, email) && c.IsActive {
			if c.PasswordHash == "" {
				return models.Customer{}, false
			}
			if c.PasswordHash == password || auth.CheckPassword(c.PasswordHash, password) == nil {
				return c, true
			}
			return models.Customer{}, false
		}
	}
	return models.Customer{}, false
}

func (s *Store) Customers() *CustomerStore { return &CustomerStore{s} }
func (s *Store) Projects() *ProjectStore   { return &ProjectStore{s} }
func (s *Store) Documents() *DocumentStore { return &DocumentStore{s} }
func (s *Store) Versions() *VersionStore   { return &VersionStore{s} }

// Upload implements gateway.BlobStore so demo mode can run the full document
// upload workflow without the hosted object store.
func (s *Store) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.blobs[path] = buf
	return nil
}

func (s *Store) Download(ctx context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[path]
	if !ok {
		return nil, &gateway.StorageError{Op: "download", Path: path, Err: gateway.ErrNotFound}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, path)
	return nil
}

func (s *Store) PublicURL(path string) string {
	return "demo://blobs/" + path
}

var (
	_ gateway.Notifier  = (*Store)(nil)
	_ gateway.BlobStore = (*Store)(nil)
)

func newID() string { return uuid.New().String() }

func now() time.Time { return time.Now().UTC() }

func sortCustomers(cs []models.Customer) {
	sort.SliceStable(cs, func(i, j int) bool {
		return strings.ToLower(cs[i].CompanyName) < strings.ToLower(cs[j].CompanyName)
	})
}

func sortNewestFirst[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
