package upstream

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/connector"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/drift"
	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

const postgresColumnsQuery = `
	SELECT c.column_name, c.data_type,
	       EXISTS (
	           SELECT 1
	           FROM information_schema.table_constraints tc
	           JOIN information_schema.key_column_usage k
	             ON k.constraint_name = tc.constraint_name
	            AND k.table_schema = tc.table_schema
	           WHERE tc.constraint_type = 'PRIMARY KEY'
	             AND tc.table_schema = c.table_schema
	             AND tc.table_name = c.table_name
	             AND k.column_name = c.column_name
	       ) AS is_pk
	FROM information_schema.columns c
	WHERE c.table_schema = $1 AND c.table_name = $2
	ORDER BY c.ordinal_position`

type PostgresInspector struct {
	conn    *pgx.Conn
	schema  string
	table   string
	timeout time.Duration
}

func NewPostgresInspector(ctx context.Context, cfg *connector.PostgresCDCConfig) (*PostgresInspector, error) {
	connCfg, err := cfg.ConnConfig()
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := pgx.ConnectConfig(connectCtx, connCfg)
	if err != nil {
		return nil, errors.Wrap(err, "postgres connect failed")
	}

	return &PostgresInspector{
		conn:    conn,
		schema:  cfg.SchemaName(),
		table:   cfg.Table,
		timeout: 5 * time.Second,
	}, nil
}

func (*PostgresInspector) Name() string {
	return "postgres"
}

func (i *PostgresInspector) Columns(ctx context.Context) ([]drift.Column, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	rows, err := i.conn.Query(ctx, postgresColumnsQuery, i.schema, i.table)
	if err != nil {
		return nil, errors.Wrapf(err, "query columns of %s.%s", i.schema, i.table)
	}
	cols, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (drift.Column, error) {
		var name, dataType string
		var pk bool
		if err := row.Scan(&name, &dataType, &pk); err != nil {
			return drift.Column{}, err
		}
		return drift.Column{Name: name, Kind: PostgresKind(dataType), PK: pk}, nil
	})
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, errors.Newf("table %s.%s not found", i.schema, i.table)
	}
	return cols, nil
}

func (i *PostgresInspector) Close() error {
	return i.conn.Close(context.Background())
}

// PostgresKind maps an information_schema data_type onto a column kind.
func PostgresKind(dataType string) types.Kind {
	switch {
	case dataType == "boolean":
		return types.KindBoolean
	case dataType == "smallint":
		return types.KindInt16
	case dataType == "integer":
		return types.KindInt32
	case dataType == "bigint":
		return types.KindInt64
	case dataType == "real":
		return types.KindFloat32
	case dataType == "double precision":
		return types.KindFloat64
	case dataType == "numeric":
		return types.KindDecimal
	case dataType == "date":
		return types.KindDate
	case strings.HasPrefix(dataType, "time ") || dataType == "time":
		return types.KindTime
	case dataType == "timestamp without time zone":
		return types.KindTimestamp
	case dataType == "timestamp with time zone":
		return types.KindTimestamptz
	case dataType == "interval":
		return types.KindInterval
	case dataType == "text", dataType == "uuid", dataType == "json", dataType == "jsonb",
		strings.HasPrefix(dataType, "character"):
		return types.KindVarchar
	case dataType == "bytea":
		return types.KindBytea
	case dataType == "ARRAY":
		return types.KindList
	case dataType == "USER-DEFINED":
		return types.KindStruct
	default:
		return types.KindInvalid
	}
}
