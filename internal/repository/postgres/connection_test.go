package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureForPooler(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want pgx.QueryExecMode
	}{
		{"direct", "postgres://u:p@db:5432/folio", pgx.QueryExecModeCacheStatement},
		{"pgbouncer", "postgres://u:p@db:6543/folio", pgx.QueryExecModeCacheDescribe},
		{"pgbouncer explicit", "postgres://u:p@db:6543/folio?default_query_exec_mode=exec", pgx.QueryExecModeExec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc, err := pgx.ParseConfig(tt.url)
			require.NoError(t, err)
			configureForPooler(cc)
			assert.Equal(t, tt.want, cc.DefaultQueryExecMode)
		})
	}
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("test_")
	assert.Equal(t, "test_folders", tables.Folders)
	assert.Equal(t, "test_documents", tables.Documents)
}
