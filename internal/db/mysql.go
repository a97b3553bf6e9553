package db

import (
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// NewMySQLConnection opens MySQL. The DSN needs parseTime=true so
// timestamps scan into time.Time, and multiStatements=true for migrate.
func NewMySQLConnection(dsn string, opts PoolOpts) (*sqlx.DB, error) {
	return openPooled("mysql", dsn, opts, 5*time.Second)
}
