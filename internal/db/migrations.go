package db

import (
	"database/sql"
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var migrationNamePattern = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// migration pairs the up and down SQL for one schema version.
type migration struct {
	version int
	name    string
	upSQL   string
	downSQL string
}

// RunMigrations applies every pending migration in version order. Each
// migration runs in its own transaction together with the version
// bookkeeping, so a failed migration leaves the schema at the previous
// version.
func RunMigrations(database *sql.DB) error {
	current, dirty, err := currentVersion(database)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty migration state (version %d), manual intervention required", current)
	}

	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := runInTx(database, m.upSQL, func(tx *sql.Tx) error {
			return recordVersion(tx, m.version)
		}); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.version, m.name, err)
		}
	}

	return nil
}

// RollbackMigrations reverts the most recent count migrations, newest
// first. A count below one reverts a single migration. Returns the
// schema version after the rollback.
func RollbackMigrations(database *sql.DB, count int) (int, error) {
	if count < 1 {
		count = 1
	}

	current, dirty, err := currentVersion(database)
	if err != nil {
		return 0, fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("database is in a dirty migration state (version %d), manual intervention required", current)
	}
	if current == 0 {
		return 0, fmt.Errorf("no migrations to rollback")
	}

	migrations, err := loadMigrations()
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}

	reverted := 0
	for i := len(migrations) - 1; i >= 0 && reverted < count; i-- {
		m := migrations[i]
		if m.version > current {
			continue
		}
		if m.downSQL == "" {
			return current, fmt.Errorf("migration %d (%s) has no down migration", m.version, m.name)
		}
		if err := runInTx(database, m.downSQL, func(tx *sql.Tx) error {
			_, err := tx.Exec("DELETE FROM schema_migrations WHERE version = ?", m.version)
			return err
		}); err != nil {
			return current, fmt.Errorf("failed to rollback migration %d (%s): %w", m.version, m.name, err)
		}
		current = m.version - 1
		reverted++
	}

	return current, nil
}

// loadMigrations reads the embedded migration files, pairing up and
// down scripts by version, sorted ascending.
func loadMigrations() ([]migration, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byVersion := map[int]*migration{}
	for _, entry := range entries {
		matches := migrationNamePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("invalid migration version in %s: %w", entry.Name(), err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &migration{version: version, name: matches[2]}
			byVersion[version] = m
		}

		sqlBytes, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}
		if matches[3] == "up" {
			m.upSQL = string(sqlBytes)
		} else {
			m.downSQL = string(sqlBytes)
		}
	}

	migrations := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})

	return migrations, nil
}

// runInTx executes the migration SQL and version bookkeeping in a
// single transaction.
func runInTx(database *sql.DB, script string, record func(*sql.Tx) error) error {
	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(script); err != nil {
		tx.Rollback()
		return err
	}
	if err := record(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func currentVersion(database *sql.DB) (version int, dirty bool, err error) {
	_, err = database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER NOT NULL PRIMARY KEY,
			dirty BOOLEAN NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var v sql.NullInt64
	var d sql.NullBool
	err = database.QueryRow("SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1").Scan(&v, &d)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query migration version: %w", err)
	}

	return int(v.Int64), d.Valid && d.Bool, nil
}

func recordVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO schema_migrations (version, dirty)
		VALUES (?, 0)
	`, version)
	return err
}
