// ABOUTME: Schema migration planner and runner.
// ABOUTME: Validates the additive version history at startup and applies pending versions once.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/daybook/internal/logger"
)

// migrationStep is the SQL needed to move from the previous version to Version.
type migrationStep struct {
	Version     int
	Description string
	Statements  []string
}

// AppliedMigration is one row of the migration history.
type AppliedMigration struct {
	Version     int
	Description string
	AppliedAt   string
}

// planMigrations checks the version history and repository requirements and
// returns the statements for every version. It never touches a database.
func planMigrations(versions []SchemaVersion, reqs []Requirement) ([]migrationStep, error) {
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: no schema versions defined", ErrSchemaConfig)
	}

	plan := make([]migrationStep, 0, len(versions))
	var prev SchemaVersion
	for i, v := range versions {
		if v.Version != i+1 {
			return nil, fmt.Errorf("%w: version %d at position %d (versions must run 1, 2, 3, ...)", ErrSchemaConfig, v.Version, i+1)
		}
		if err := checkSnapshot(v); err != nil {
			return nil, err
		}
		stmts, err := diffVersions(prev, v)
		if err != nil {
			return nil, err
		}
		plan = append(plan, migrationStep{Version: v.Version, Description: v.Description, Statements: stmts})
		prev = v
	}

	if err := checkRequirements(versions, reqs); err != nil {
		return nil, err
	}
	return plan, nil
}

// checkSnapshot verifies a single snapshot is self-consistent.
func checkSnapshot(v SchemaVersion) error {
	seen := make(map[string]bool)
	for _, t := range v.Tables {
		if seen[t.Name] {
			return fmt.Errorf("%w: version %d defines table %s twice", ErrSchemaConfig, v.Version, t.Name)
		}
		seen[t.Name] = true

		cols := make(map[string]bool)
		for _, c := range t.Columns {
			if cols[c.Name] {
				return fmt.Errorf("%w: version %d table %s defines column %s twice", ErrSchemaConfig, v.Version, t.Name, c.Name)
			}
			cols[c.Name] = true
		}
		for _, ix := range t.Indexes {
			for _, c := range ix.Columns {
				if !cols[c] {
					return fmt.Errorf("%w: version %d index %s references unknown column %s.%s", ErrSchemaConfig, v.Version, ix.Name, t.Name, c)
				}
			}
		}
	}
	return nil
}

// diffVersions returns the statements turning prev into next, rejecting any
// change that is not purely additive.
func diffVersions(prev, next SchemaVersion) ([]string, error) {
	for _, old := range prev.Tables {
		cur, ok := next.table(old.Name)
		if !ok {
			return nil, fmt.Errorf("%w: version %d drops table %s", ErrSchemaConfig, next.Version, old.Name)
		}
		for _, oc := range old.Columns {
			nc, ok := cur.column(oc.Name)
			if !ok {
				return nil, fmt.Errorf("%w: version %d drops column %s.%s", ErrSchemaConfig, next.Version, old.Name, oc.Name)
			}
			if nc != oc {
				return nil, fmt.Errorf("%w: version %d redefines column %s.%s", ErrSchemaConfig, next.Version, old.Name, oc.Name)
			}
		}
		for _, oi := range old.Indexes {
			if _, ok := cur.index(oi.Name); !ok {
				return nil, fmt.Errorf("%w: version %d drops index %s", ErrSchemaConfig, next.Version, oi.Name)
			}
		}
	}

	var stmts []string
	for _, t := range next.Tables {
		old, existed := prev.table(t.Name)
		if !existed {
			stmts = append(stmts, createTableSQL(t))
			for _, ix := range t.Indexes {
				stmts = append(stmts, createIndexSQL(t.Name, ix))
			}
			continue
		}

		for _, c := range t.Columns {
			if _, ok := old.column(c.Name); ok {
				continue
			}
			if c.PrimaryKey {
				return nil, fmt.Errorf("%w: version %d adds primary key column %s.%s", ErrSchemaConfig, next.Version, t.Name, c.Name)
			}
			// Rows written under older versions must stay valid.
			if c.NotNull && c.Default == "" {
				return nil, fmt.Errorf("%w: version %d adds NOT NULL column %s.%s without a default", ErrSchemaConfig, next.Version, t.Name, c.Name)
			}
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", t.Name, columnSQL(c)))
		}
		for _, ix := range t.Indexes {
			if _, ok := old.index(ix.Name); ok {
				continue
			}
			stmts = append(stmts, createIndexSQL(t.Name, ix))
		}
	}
	return stmts, nil
}

// checkRequirements rejects repositories that reference a table or column
// before the version that introduces it.
func checkRequirements(versions []SchemaVersion, reqs []Requirement) error {
	latest := versions[len(versions)-1].Version
	for _, r := range reqs {
		if r.Since < 1 || r.Since > latest {
			return fmt.Errorf("%w: table %s required at unknown version %d", ErrSchemaConfig, r.Table, r.Since)
		}
		snap := versions[r.Since-1]
		t, ok := snap.table(r.Table)
		if !ok {
			return fmt.Errorf("%w: table %s is referenced at version %d before it is introduced", ErrSchemaConfig, r.Table, r.Since)
		}
		for _, c := range r.Columns {
			if _, ok := t.column(c); !ok {
				return fmt.Errorf("%w: column %s.%s is referenced at version %d before it is introduced", ErrSchemaConfig, r.Table, c, r.Since)
			}
		}
	}
	return nil
}

func columnSQL(c Column) string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteString(" ")
	sb.WriteString(c.Type)
	if c.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")
		if c.Type == "INTEGER" {
			sb.WriteString(" AUTOINCREMENT")
		}
		return sb.String()
	}
	if c.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(c.Default)
	}
	return sb.String()
}

func createTableSQL(t Table) string {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, columnSQL(c))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(cols, ",\n\t"))
}

func createIndexSQL(table string, ix Index) string {
	unique := ""
	if ix.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s(%s)", unique, ix.Name, table, strings.Join(ix.Columns, ", "))
}

func (d *DB) ensureMigrationTable() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

// SchemaVersion returns the highest applied schema version (0 for a fresh database).
func (d *DB) SchemaVersion() (int, error) {
	if err := d.ensureMigrationTable(); err != nil {
		return 0, fmt.Errorf("ensure schema_migrations table: %w", err)
	}
	var version sql.NullInt64
	if err := d.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("get schema version: %w", err)
	}
	return int(version.Int64), nil
}

// AppliedMigrations returns the migration history, oldest first.
func (d *DB) AppliedMigrations() ([]AppliedMigration, error) {
	rows, err := d.db.Query("SELECT version, description, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var m AppliedMigration
		if err := rows.Scan(&m.Version, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan migration: %w", err)
		}
		applied = append(applied, m)
	}
	return applied, rows.Err()
}

// applyMigrations runs every pending step, each in its own transaction.
// Returns the number of versions applied.
func (d *DB) applyMigrations(plan []migrationStep) (int, error) {
	current, err := d.SchemaVersion()
	if err != nil {
		return 0, err
	}

	latest := plan[len(plan)-1].Version
	if current > latest {
		return 0, fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade daybook", current, latest)
	}

	applied := 0
	for _, step := range plan {
		if step.Version <= current {
			continue
		}
		logger.Info("applying schema migration", "version", step.Version, "description", step.Description)

		tx, err := d.db.Begin()
		if err != nil {
			return applied, fmt.Errorf("begin migration %d: %w", step.Version, err)
		}
		for _, stmt := range step.Statements {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return applied, fmt.Errorf("apply migration %d (%s): %w", step.Version, step.Description, err)
			}
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			step.Version, step.Description, formatTime(d.now()),
		); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("record migration %d: %w", step.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("commit migration %d: %w", step.Version, err)
		}
		applied++
	}

	if applied == 0 {
		logger.Debug("schema is up to date", "version", current)
	}
	return applied, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isNoRows reports whether err is sql.ErrNoRows.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
