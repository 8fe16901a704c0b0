package sqldb

import (
	"database/sql"
	"fmt"
	"sync"

	appDb "github.com/tightknit-app/tightknit-be/db"

	updb "github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"
)

type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// SQLDB implements db.Database over an upper/db session. The production
// adapter is mysql; tests hand in a sqlite session.
type SQLDB struct {
	sess    updb.Session
	dialect Dialect

	// acceptMu serializes the accepted-count check-then-increment so two
	// concurrent accepts cannot both read a stale count and jointly exceed
	// the cap. The store is the single authority, so a process-wide critical
	// section is sufficient; a multi-process deployment would move this to
	// row locks.
	acceptMu sync.Mutex

	// upsertMu serializes update-then-insert upserts (unread notifications,
	// reactions) so two concurrent writers cannot both miss the update and
	// insert a second row.
	upsertMu sync.Mutex
}

// New wraps an open session and runs migrations for the given dialect.
func New(sess updb.Session, dialect Dialect) (*SQLDB, error) {
	sqldb := &SQLDB{sess: sess, dialect: dialect}
	if err := sqldb.migrate(); err != nil {
		return nil, fmt.Errorf("error migrating schema: %w", err)
	}
	return sqldb, nil
}

// OpenMySQL connects the way the production deployment does.
func OpenMySQL(user, pass, host, name string) (appDb.Database, error) {
	sqlDB, err := sql.Open("mysql",
		fmt.Sprintf("%s:%s@tcp(%s)/%s?tls=true&parseTime=true", user, pass, host, name))
	if err != nil {
		return nil, err
	}
	sess, err := mysql.New(sqlDB)
	if err != nil {
		return nil, err
	}
	return New(sess, DialectMySQL)
}

func (s *SQLDB) Close() error {
	return s.sess.Close()
}
