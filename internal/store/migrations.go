package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"labelgen/internal/logging"
)

// Schema versions:
// v1: LabelHistory table as written by the earlier label tool
// v2: Unique index on serial_number
const CurrentSchemaVersion = 2

// MigrationResult holds the result of a migration operation.
type MigrationResult struct {
	FromVersion   int
	ToVersion     int
	MigrationsRun int
	Duration      time.Duration
	Warnings      []string
}

// migration upgrades the schema from Version-1 to Version. ok=false leaves
// the version where it is so the step is retried on the next Open.
type migration struct {
	Version int
	Name    string
	Apply   func(ctx context.Context, db *sql.DB) (ok bool, warning string, err error)
}

var migrations = []migration{
	{1, "create LabelHistory", createLabelHistory},
	{2, "unique serial_number index", createSerialIndex},
}

// RunMigrations brings db up to CurrentSchemaVersion.
func RunMigrations(ctx context.Context, db *sql.DB) (*MigrationResult, error) {
	timer := logging.StartTimer(logging.CategoryStore, "RunMigrations")
	defer timer.Stop()

	start := time.Now()
	if _, err := db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS schema_versions (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return nil, fmt.Errorf("failed to create schema_versions: %w", err)
	}

	from := GetSchemaVersion(ctx, db)
	result := &MigrationResult{FromVersion: from, ToVersion: from}

	for _, m := range migrations {
		if m.Version <= result.ToVersion {
			continue
		}
		logging.StoreDebug("Applying migration v%d: %s", m.Version, m.Name)

		ok, warning, err := m.Apply(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("migration v%d (%s) failed: %w", m.Version, m.Name, err)
		}
		if warning != "" {
			logging.Get(logging.CategoryStore).Warn("Migration v%d: %s", m.Version, warning)
			result.Warnings = append(result.Warnings, warning)
		}
		if !ok {
			break
		}
		if _, err := db.ExecContext(ctx, "INSERT OR REPLACE INTO schema_versions (version) VALUES (?)", m.Version); err != nil {
			return nil, fmt.Errorf("failed to record schema version %d: %w", m.Version, err)
		}
		result.ToVersion = m.Version
		result.MigrationsRun++
	}

	result.Duration = time.Since(start)
	if result.MigrationsRun > 0 {
		logging.Store("Schema migrated v%d -> v%d (%d steps)", result.FromVersion, result.ToVersion, result.MigrationsRun)
	}
	return result, nil
}

// GetSchemaVersion returns the recorded schema version, inferring it from the
// table layout for databases that predate schema_versions.
func GetSchemaVersion(ctx context.Context, db *sql.DB) int {
	var version sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_versions").Scan(&version); err == nil && version.Valid {
		return int(version.Int64)
	}
	return inferSchemaVersion(ctx, db)
}

func inferSchemaVersion(ctx context.Context, db *sql.DB) int {
	if !tableExists(ctx, db, "table", "LabelHistory") {
		return 0
	}
	if tableExists(ctx, db, "index", "idx_labelhistory_serial") {
		return 2
	}
	return 1
}

func createLabelHistory(ctx context.Context, db *sql.DB) (bool, string, error) {
	_, err := db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS LabelHistory (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		serial_number TEXT NOT NULL,
		wood TEXT NOT NULL,
		length TEXT NOT NULL,
		weight TEXT NOT NULL,
		bracelet TEXT NOT NULL,
		wrap TEXT NOT NULL,
		date_created TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return false, "", fmt.Errorf("failed to create table: %w", err)
	}
	return true, "", nil
}

// createSerialIndex adds the uniqueness index unless existing rows already
// repeat a serial, in which case the file is left as it is.
func createSerialIndex(ctx context.Context, db *sql.DB) (bool, string, error) {
	var dupes int
	err := db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM (
		SELECT serial_number FROM LabelHistory GROUP BY serial_number HAVING COUNT(*) > 1
	)`).Scan(&dupes)
	if err != nil {
		return false, "", fmt.Errorf("failed to check for duplicate serials: %w", err)
	}
	if dupes > 0 {
		return false, fmt.Sprintf("%d serial numbers appear more than once; unique index not created", dupes), nil
	}

	if _, err := db.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_labelhistory_serial ON LabelHistory(serial_number)"); err != nil {
		return false, "", fmt.Errorf("failed to create serial index: %w", err)
	}
	return true, "", nil
}

// tableExists checks sqlite_master for an object of the given type.
func tableExists(ctx context.Context, db *sql.DB, kind, name string) bool {
	var count int
	query := "SELECT COUNT(*) FROM sqlite_master WHERE type=? AND name=?"
	if err := db.QueryRowContext(ctx, query, kind, name).Scan(&count); err != nil {
		logging.StoreDebug("Existence check failed for %s %s: %v", kind, name, err)
		return false
	}
	return count > 0
}
