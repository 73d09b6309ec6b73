package source

import (
	"io"
	"slices"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/cockroachdb/errors"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/connector"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/parser"
)

// SourceImpl is the concrete source behind a descriptor: *TableSource or
// *ConnectorSource.
type SourceImpl interface {
	isSourceImpl()
	// Close releases resources once the last descriptor holder is gone.
	Close() error
}

// ErrSourceClosed is returned by writes to a released table source.
var ErrSourceClosed = errors.New("source closed")

// TableSource is the in-memory append-only row log of a table.
type TableSource struct {
	schema *arrow.Schema
	width  int

	mu     sync.RWMutex
	rows   [][]any
	closed bool
}

func newTableSource(columns []SourceColumnDesc) *TableSource {
	fields := make([]arrow.Field, len(columns))
	for i, c := range columns {
		fields[i] = arrow.Field{Name: c.Name, Type: c.DataType.ToArrow(), Nullable: true}
	}
	return &TableSource{
		schema: arrow.NewSchema(fields, nil),
		width:  len(columns),
	}
}

func (*TableSource) isSourceImpl() {}

// Schema is the arrow schema of the rows, one field per column.
func (t *TableSource) Schema() *arrow.Schema {
	return t.schema
}

// Append adds rows to the log. Every row must have one value per column.
func (t *TableSource) Append(rows ...[]any) error {
	for i, row := range rows {
		if len(row) != t.width {
			return errors.Newf("row %d has %d values, want %d", i, len(row), t.width)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrSourceClosed
	}
	for _, row := range rows {
		t.rows = append(t.rows, slices.Clone(row))
	}
	return nil
}

func (t *TableSource) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Scan calls fn for each row in append order until fn returns false. Rows
// appended during the scan are not visited.
func (t *TableSource) Scan(fn func(row []any) bool) {
	t.mu.RLock()
	rows := t.rows[:len(t.rows):len(t.rows)]
	t.mu.RUnlock()

	for _, row := range rows {
		if !fn(row) {
			return
		}
	}
}

func (t *TableSource) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.rows = nil
	return nil
}

// ConnectorSource reads from an external connector and parses its payloads.
type ConnectorSource struct {
	Config            connector.Config
	Columns           []SourceColumnDesc
	Parser            parser.Parser
	MessageBufferSize int
}

func (*ConnectorSource) isSourceImpl() {}

// Row is a parsed change projected onto the source columns.
type Row struct {
	Op     parser.Op
	Values []any
}

// Parse decodes one payload. Columns missing from the payload, and the row-id
// column, are nil.
func (c *ConnectorSource) Parse(payload []byte) ([]Row, error) {
	events, err := c.Parser.Parse(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s payload", c.Config.Connector())
	}
	rows := make([]Row, 0, len(events))
	for _, ev := range events {
		values := make([]any, len(c.Columns))
		for i, col := range c.Columns {
			if col.SkipParse {
				continue
			}
			values[i] = ev.Fields[col.Name]
		}
		rows = append(rows, Row{Op: ev.Op, Values: values})
	}
	return rows, nil
}

// Close closes the parser when it holds resources.
func (c *ConnectorSource) Close() error {
	if closer, ok := c.Parser.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
