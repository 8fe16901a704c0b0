package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const mysqlDupEntry = 1062

// IsDupKeyErr reports whether err is a unique-constraint violation, under
// either the mysql driver (production) or sqlite (tests).
func IsDupKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDupEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
