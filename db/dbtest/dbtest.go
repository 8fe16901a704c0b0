// Package dbtest opens throwaway stores for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	appDb "github.com/tightknit-app/tightknit-be/db"
	"github.com/tightknit-app/tightknit-be/db/sqldb"

	updb "github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/sqlite"
)

// Open migrates a fresh file-backed sqlite store for one test. A file
// rather than :memory: because the session pools connections and every
// in-memory connection would see its own empty database. The session is
// returned alongside for tests that need to touch rows directly, e.g. to
// backdate timestamps.
func Open(t *testing.T) (appDb.Database, updb.Session) {
	t.Helper()
	sess, err := sqlite.Open(sqlite.ConnectionURL{
		Database: filepath.Join(t.TempDir(), "test.db"),
		Options: map[string]string{
			"_busy_timeout": "5000",
			"_foreign_keys": "on",
		},
	})
	if err != nil {
		t.Fatal("error opening test database", err)
	}
	database, err := sqldb.New(sess, sqldb.DialectSQLite)
	if err != nil {
		t.Fatal("error migrating test database", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database, sess
}
