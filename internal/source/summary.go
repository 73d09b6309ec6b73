package source

import (
	"slices"

	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

// Summary flattens the descriptor for display.
func (r *SourceDescRef) Summary(id types.TableID) types.Summary {
	desc := r.Desc()
	s := types.Summary{
		Table:       id,
		Format:      desc.Format.String(),
		RowIDIndex:  desc.RowIDIndex,
		PKColumnIDs: slices.Clone(desc.PKColumnIDs),
		Generation:  r.Generation(),
	}
	switch src := desc.Source.(type) {
	case *TableSource:
		s.Kind = "table"
	case *ConnectorSource:
		s.Kind = "stream"
		s.Connector = src.Config.Connector()
	}
	for _, c := range desc.Columns {
		s.Columns = append(s.Columns, types.ColumnSummary{
			Name:      c.Name,
			Type:      c.DataType.String(),
			ColumnID:  c.ColumnID,
			SkipParse: c.SkipParse,
		})
	}
	return s
}
