package upstream

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/go-sql-driver/mysql" // registers the mysql driver

	"github.com/alexanderjulianmartinez/sourcedesc/internal/connector"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/drift"
	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

type MySQLInspector struct {
	db      *sql.DB
	schema  string
	table   string
	timeout time.Duration
}

func NewMySQLInspector(ctx context.Context, cfg *connector.MySQLCDCConfig) (*MySQLInspector, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "mysql ping failed")
	}

	return &MySQLInspector{
		db:      db,
		schema:  cfg.Database,
		table:   cfg.Table,
		timeout: 5 * time.Second,
	}, nil
}

func (*MySQLInspector) Name() string {
	return "mysql"
}

func (i *MySQLInspector) Columns(ctx context.Context) ([]drift.Column, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	rows, err := i.db.QueryContext(ctx, `
		SELECT COLUMN_NAME, DATA_TYPE, COLUMN_KEY
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`, i.schema, i.table)
	if err != nil {
		return nil, errors.Wrapf(err, "query columns of %s.%s", i.schema, i.table)
	}
	defer rows.Close()

	var cols []drift.Column
	for rows.Next() {
		var name, dataType, key string
		if err := rows.Scan(&name, &dataType, &key); err != nil {
			return nil, err
		}
		cols = append(cols, drift.Column{
			Name: name,
			Kind: MySQLKind(dataType),
			PK:   key == "PRI",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, errors.Newf("table %s.%s not found", i.schema, i.table)
	}
	return cols, nil
}

func (i *MySQLInspector) Close() error {
	return i.db.Close()
}

// MySQLKind maps an INFORMATION_SCHEMA DATA_TYPE onto a column kind.
func MySQLKind(dataType string) types.Kind {
	switch dataType {
	case "tinyint", "smallint", "year":
		return types.KindInt16
	case "mediumint", "int", "integer":
		return types.KindInt32
	case "bigint":
		return types.KindInt64
	case "float":
		return types.KindFloat32
	case "double", "real":
		return types.KindFloat64
	case "decimal", "numeric":
		return types.KindDecimal
	case "date":
		return types.KindDate
	case "time":
		return types.KindTime
	case "datetime":
		return types.KindTimestamp
	case "timestamp":
		return types.KindTimestamptz
	case "char", "varchar", "tinytext", "text", "mediumtext", "longtext", "enum", "set", "json":
		return types.KindVarchar
	case "binary", "varbinary", "tinyblob", "blob", "mediumblob", "longblob", "bit":
		return types.KindBytea
	case "boolean", "bool":
		return types.KindBoolean
	default:
		return types.KindInvalid
	}
}
