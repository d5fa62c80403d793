// Package migrate applies the embedded schema scripts under sql/ in version
// order. Filenames are NNN_name.sql; the highest applied version is kept in
// schema_version so reruns are no-ops.
package migrate

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var scriptsFS embed.FS

type script struct {
	version int
	name    string
	body    string
}

func readScripts() ([]script, error) {
	entries, err := scriptsFS.ReadDir("sql")
	if err != nil {
		return nil, err
	}
	scripts := make([]script, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		prefix, _, found := strings.Cut(name, "_")
		if !found {
			return nil, fmt.Errorf("migration %s: want NNN_name.sql", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: non-numeric version prefix", name)
		}
		body, err := scriptsFS.ReadFile("sql/" + name)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script{version: version, name: name, body: string(body)})
	}
	sort.Slice(scripts, func(i, j int) bool { return scripts[i].version < scripts[j].version })
	return scripts, nil
}

// SchemaVersion reports the highest applied migration version, zero for a
// fresh database.
func SchemaVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return version, err
}

// Migrate brings the database up to the latest embedded schema version. All
// pending scripts apply in a single transaction.
func Migrate(db *sql.DB) error {
	scripts, err := readScripts()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS schema_version(version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	applied := 0
	switch err := tx.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&applied); err {
	case nil:
	case sql.ErrNoRows:
		if _, err := tx.Exec(`INSERT INTO schema_version(version) VALUES (0)`); err != nil {
			return fmt.Errorf("seed schema_version: %w", err)
		}
	default:
		return fmt.Errorf("read schema_version: %w", err)
	}

	for _, s := range scripts {
		if s.version <= applied {
			continue
		}
		if _, err := tx.Exec(s.body); err != nil {
			return fmt.Errorf("apply %s: %w", s.name, err)
		}
		applied = s.version
	}
	if _, err := tx.Exec(`UPDATE schema_version SET version=?`, applied); err != nil {
		return fmt.Errorf("record schema_version: %w", err)
	}
	return tx.Commit()
}
