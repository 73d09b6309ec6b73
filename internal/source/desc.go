// Package source builds and caches source descriptors: the bundle of source
// implementation, row format and columns a scan reads from.
package source

import (
	"context"
	"slices"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/drift"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/metrics"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/parser"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/srcerr"
)

// SourceDesc is immutable once built. RowIDIndex is set only when the source
// has no user declared primary key.
type SourceDesc struct {
	Source      SourceImpl
	Format      parser.Format
	Columns     []SourceColumnDesc
	Metrics     *metrics.SourceMetrics
	RowIDIndex  *int
	PKColumnIDs []int32
}

// Parse decodes a payload read from split splitID and records the input.
func (d *SourceDesc) Parse(ctx context.Context, splitID string, payload []byte) ([]Row, error) {
	switch src := d.Source.(type) {
	case *ConnectorSource:
		rows, err := src.Parse(payload)
		if err != nil {
			return nil, err
		}
		d.Metrics.RecordPartitionInput(ctx, splitID, int64(len(rows)), int64(len(payload)))
		return rows, nil
	case *TableSource:
		return nil, srcerr.Internalf("table sources are written with Append, not parsed")
	default:
		return nil, srcerr.Internalf("unknown source implementation %T", src)
	}
}

// DeclaredColumns returns the parsed columns for drift checks, with the
// primary key columns marked.
func (d *SourceDesc) DeclaredColumns() []drift.Column {
	return driftColumns(d.Columns, d.PKColumnIDs)
}

func driftColumns(columns []SourceColumnDesc, pk []int32) []drift.Column {
	out := make([]drift.Column, 0, len(columns))
	for _, c := range columns {
		if c.SkipParse {
			continue
		}
		out = append(out, drift.Column{
			Name: c.Name,
			Kind: c.DataType.Kind,
			PK:   slices.Contains(pk, int32(c.ColumnID)),
		})
	}
	return out
}
