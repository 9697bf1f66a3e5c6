package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/shareholders/internal/model"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("run not found")

// OwnershipDB is a SQLite file holding the records of one or more runs.
type OwnershipDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures OwnershipDB behavior.
type Options struct {
	// Truncate removes an existing file at the path before opening, so the
	// output holds only the current run.
	Truncate bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		Truncate: true,
	}
}

// Create opens the SQLite file at path, creating parent directories and
// the schema as needed.
func Create(path string, opts Options) (*OwnershipDB, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	if opts.Truncate {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	odb := &OwnershipDB{
		db:     db,
		dbPath: path,
	}

	if err := odb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return odb, nil
}

// Close closes the database connection.
func (odb *OwnershipDB) Close() error {
	return odb.db.Close()
}

// Path returns the database file path.
func (odb *OwnershipDB) Path() string {
	return odb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (odb *OwnershipDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		country TEXT NOT NULL,
		profile TEXT,
		created_at TEXT NOT NULL,
		record_count INTEGER NOT NULL
	);

	-- Column order follows the spreadsheet output
	CREATE TABLE IF NOT EXISTS ownership_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		position INTEGER NOT NULL,
		company_id TEXT NOT NULL,
		company_name TEXT NOT NULL,
		shareholder_name TEXT,
		birth_year INTEGER,
		age INTEGER,
		direct_ownership REAL,
		indirect_ownership REAL,
		ownership_percentage REAL,
		country TEXT,
		entity_type TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_records_run ON ownership_records(run_id);
	CREATE INDEX IF NOT EXISTS idx_records_company ON ownership_records(company_id);
	`

	_, err := odb.db.ExecContext(context.Background(), schema)
	return err
}

// Run describes one collection run.
type Run struct {
	// ID uniquely identifies the run (a UUID).
	ID string

	// Country is the jurisdiction queried.
	Country string

	// Profile is the endpoint profile used.
	Profile string

	// Timestamp is when the run was stored. SaveRun uses the current time
	// when it is zero.
	Timestamp time.Time

	// RecordCount is the number of records stored for the run.
	RecordCount int
}

// SaveRun stores run and its records in a single transaction.
func (odb *OwnershipDB) SaveRun(ctx context.Context, run Run, records []model.OwnershipRecord) error {
	tx, err := odb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after Commit is a no-op

	stored := run.Timestamp
	if stored.IsZero() {
		stored = time.Now()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, country, profile, created_at, record_count) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Country, run.Profile, stored.UTC().Format(time.RFC3339Nano), len(records),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO ownership_records (
		run_id, position, company_id, company_name, shareholder_name,
		birth_year, age, direct_ownership, indirect_ownership,
		ownership_percentage, country, entity_type
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		_, err := stmt.ExecContext(ctx,
			run.ID,
			i,
			rec.CompanyID,
			rec.CompanyName,
			nullString(rec.ShareholderName),
			nullInt(rec.BirthYear),
			nullInt(rec.Age),
			nullFloat(rec.DirectOwnership),
			nullFloat(rec.IndirectOwnership),
			nullFloat(rec.OwnershipPercentage),
			nullString(rec.Country),
			nullString(rec.EntityType),
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves run metadata by ID. Together with Records it reads a
// written file back; the collect command itself only writes.
func (odb *OwnershipDB) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	var profile sql.NullString
	var createdAt string

	err := odb.db.QueryRowContext(ctx,
		`SELECT id, country, profile, created_at, record_count FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Country, &profile, &createdAt, &run.RecordCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.Profile = profile.String
	run.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q for run %s: %w", createdAt, id, err)
	}
	return &run, nil
}

// Records returns the records of a run in their original order.
func (odb *OwnershipDB) Records(ctx context.Context, runID string) ([]model.OwnershipRecord, error) {
	rows, err := odb.db.QueryContext(ctx, `
	SELECT company_id, company_name, shareholder_name, birth_year, age,
		direct_ownership, indirect_ownership, ownership_percentage, country, entity_type
	FROM ownership_records
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []model.OwnershipRecord
	for rows.Next() {
		var rec model.OwnershipRecord
		var name, country, entityType sql.NullString
		var birthYear, age sql.NullInt64
		var direct, indirect, pct sql.NullFloat64

		if err := rows.Scan(
			&rec.CompanyID,
			&rec.CompanyName,
			&name,
			&birthYear,
			&age,
			&direct,
			&indirect,
			&pct,
			&country,
			&entityType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec.ShareholderName = name.String
		rec.BirthYear = intPtr(birthYear)
		rec.Age = intPtr(age)
		rec.DirectOwnership = floatPtr(direct)
		rec.IndirectOwnership = floatPtr(indirect)
		rec.OwnershipPercentage = floatPtr(pct)
		rec.Country = country.String
		rec.EntityType = entityType.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
