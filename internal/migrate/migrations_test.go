package migrate_test

import (
	"testing"

	"github.com/devbyharshit/collab-khata/internal/db"
	"github.com/devbyharshit/collab-khata/internal/migrate"
)

func TestMigrateIsIdempotent(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("first run: %v", err)
	}
	v1, err := migrate.SchemaVersion(conn)
	if err != nil {
		t.Fatal(err)
	}
	if v1 < 1 {
		t.Fatalf("schema version = %d, want >= 1", v1)
	}

	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("second run: %v", err)
	}
	v2, err := migrate.SchemaVersion(conn)
	if err != nil {
		t.Fatal(err)
	}
	if v2 != v1 {
		t.Fatalf("version changed on rerun: %d -> %d", v1, v2)
	}

	// The core tables exist after migrating.
	for _, table := range []string{"users", "brands", "collaborations", "payment_expectations", "payment_credits", "conversation_logs", "file_attachments", "events", "api_keys"} {
		var name string
		if err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}
