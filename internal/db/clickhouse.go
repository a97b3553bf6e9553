package db

import (
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"
)

// NewClickHouseConnection opens ClickHouse through its database/sql driver,
// e.g. clickhouse://default:@localhost:9000/rfm?dial_timeout=5s&compress=true.
func NewClickHouseConnection(dsn string, opts PoolOpts) (*sqlx.DB, error) {
	return openPooled("clickhouse", dsn, opts, 3*time.Second)
}
