package source

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/metrics"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/parser"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/wire"
	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

func catalog(cols ...types.ColumnDesc) []wire.ColumnCatalog {
	out := make([]wire.ColumnCatalog, len(cols))
	for i := range cols {
		out[i] = wire.ColumnCatalog{ColumnDesc: &cols[i]}
	}
	return out
}

func decimalTableInfo() *wire.TableSourceInfo {
	return &wire.TableSourceInfo{
		Columns: catalog(
			types.UnnamedColumn(0, types.Decimal),
			types.UnnamedColumn(1, types.Decimal),
		),
		PKColumnIDs: []int32{1},
	}
}

// ordersStreamInfo declares id, item and a trailing row-id column.
func ordersStreamInfo(format wire.RowFormatType) *wire.StreamSourceInfo {
	return &wire.StreamSourceInfo{
		RowFormat: format,
		Columns: catalog(
			types.ColumnDesc{DataType: types.Int64, ColumnID: 1, Name: "id"},
			types.ColumnDesc{DataType: types.Varchar, ColumnID: 2, Name: "item"},
			types.ColumnDesc{DataType: types.Int64, ColumnID: 0, Name: "_row_id"},
		),
		RowIDIndex:  &wire.ColumnIndex{Index: 2},
		PKColumnIDs: []int32{0},
		Properties: map[string]string{
			"connector":     "kafka",
			"kafka.brokers": "127.0.0.1:9092",
			"kafka.topic":   "orders",
		},
	}
}

// stubParser returns fixed events and counts Close calls.
type stubParser struct {
	events []parser.Event
	err    error
	closed atomic.Int32
}

func (p *stubParser) Parse([]byte) ([]parser.Event, error) {
	return p.events, p.err
}

func (p *stubParser) Close() error {
	p.closed.Add(1)
	return nil
}

type schemaParser struct {
	stubParser
	fields []parser.Field
}

func (p *schemaParser) Fields() []parser.Field {
	return p.fields
}

func newMeteredRegistry(t *testing.T) (*Registry, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := metrics.NewSourceMetrics(mp)
	require.NoError(t, err)
	return NewRegistry(m, 32), reader
}

// collectSums sums int64 counters by metric name and, when the data point has
// one, its outcome attribute ("name/outcome").
func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				sums[m.Name] += dp.Value
				if outcome, ok := dp.Attributes.Value("outcome"); ok {
					sums[m.Name+"/"+outcome.AsString()] += dp.Value
				}
			}
		}
	}
	return sums
}
