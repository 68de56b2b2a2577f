package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig is shared by every postgres repository
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames are the environment-prefixed table names, e.g. dev_folders
type TableNames struct {
	Prefix    string
	Folders   string
	Documents string
}

func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Prefix:    prefix,
		Folders:   prefix + "folders",
		Documents: prefix + "documents",
	}
}

// pgBouncerPort is the conventional port of a transaction-mode pooler
const pgBouncerPort = 6543

const (
	defaultMaxConns = 25
	defaultMinConns = 5
)

// CreateConnectionPool opens a pool for databaseURL and pings it.
// pool_max_conns and pool_min_conns in the URL override the defaults.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	explicit := poolConfig.ConnString()
	if !hasParam(explicit, "pool_max_conns") {
		poolConfig.MaxConns = defaultMaxConns
	}
	if !hasParam(explicit, "pool_min_conns") {
		poolConfig.MinConns = defaultMinConns
	}
	configureForPooler(poolConfig.ConnConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// configureForPooler avoids prepared statements behind a transaction-mode
// PgBouncer unless the URL already chose an exec mode.
func configureForPooler(cc *pgx.ConnConfig) {
	if cc.Port != pgBouncerPort || hasParam(cc.ConnString(), "default_query_exec_mode") {
		return
	}
	cc.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
	slog.Debug("using cache_describe exec mode", "host", cc.Host, "port", cc.Port)
}

// hasParam works for both URL and keyword/value connection strings
func hasParam(connString, name string) bool {
	return strings.Contains(connString, name+"=")
}
