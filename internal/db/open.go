package db

import (
	"errors"
	"fmt"

	"github.com/jmehdipour/rfm-dashboard/internal/config"
	"github.com/jmoiron/sqlx"
)

// Kinds of SQL stores the segmentation table can live in.
const (
	KindMySQL      = "mysql"
	KindPostgres   = "postgres"
	KindClickHouse = "clickhouse"
)

var ErrUnknownKind = errors.New("unknown store kind")

// Open connects to the store named by kind using its section of cfg.
func Open(kind string, cfg config.Config) (*sqlx.DB, error) {
	switch kind {
	case KindMySQL:
		return NewMySQLConnection(cfg.MySQL.DSN, PoolOptsFrom(cfg.MySQL))
	case KindPostgres:
		return NewPostgresConnection(cfg.Postgres.DSN, PoolOptsFrom(cfg.Postgres))
	case KindClickHouse:
		return NewClickHouseConnection(cfg.ClickHouse.DSN, PoolOptsFrom(cfg.ClickHouse))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// ResolveKind picks the SQL store for commands that write segments: the
// explicit kind, else the dataset source when it is a SQL store, else MySQL.
func ResolveKind(explicit, datasetSource string) string {
	if explicit != "" {
		return explicit
	}
	switch datasetSource {
	case KindMySQL, KindPostgres, KindClickHouse:
		return datasetSource
	}
	return KindMySQL
}
