package supabase

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
)

// DatabaseClient owns the direct Postgres connection to the hosted backend
// and hands out the per-family data gateways.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) Organizations() *OrganizationStore { return &OrganizationStore{db: d.db} }
func (d *DatabaseClient) Profiles() *ProfileStore           { return &ProfileStore{db: d.db} }
func (d *DatabaseClient) Customers() *CustomerStore         { return &CustomerStore{db: d.db} }
func (d *DatabaseClient) Projects() *ProjectStore           { return &ProjectStore{db: d.db} }
func (d *DatabaseClient) Jobs() *JobStore                   { return &JobStore{db: d.db} }
func (d *DatabaseClient) Documents() *DocumentStore         { return &DocumentStore{db: d.db} }
func (d *DatabaseClient) Versions() *VersionStore           { return &VersionStore{db: d.db} }

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

// filterBuilder accumulates conjunctive equality predicates.
type filterBuilder struct {
	conds []string
	args  []any
}

func (f *filterBuilder) eq(column string, value any) {
	f.args = append(f.args, value)
	f.conds = append(f.conds, fmt.Sprintf("%s = $%d", column, len(f.args)))
}

func (f *filterBuilder) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// patchBuilder accumulates SET assignments for a partial update.
type patchBuilder struct {
	sets []string
	args []any
}

func (p *patchBuilder) set(column string, value any) {
	p.args = append(p.args, value)
	p.sets = append(p.sets, fmt.Sprintf("%s = $%d", column, len(p.args)))
}

func (p *patchBuilder) empty() bool {
	return len(p.sets) == 0
}

// clause renders the SET list plus a trailing id placeholder, appending id to
// the args. updated_at always advances with the patch.
func (p *patchBuilder) clause(id string) (string, string, []any) {
	sets := append(p.sets, "updated_at = NOW()")
	args := append(p.args, id)
	return strings.Join(sets, ", "), fmt.Sprintf("$%d", len(args)), args
}
