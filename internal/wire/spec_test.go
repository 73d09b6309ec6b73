package wire

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

const streamSpec = `
tableId: 42
stream:
  rowFormat: debezium_json
  rowIdIndex:
    index: 0
  pkColumnIds: [0]
  columns:
    - columnDesc: {name: _row_id, type: int64, columnId: 0}
      isHidden: true
    - columnDesc: {name: tags, type: "list<varchar>", columnId: 1}
  properties:
    connector: kafka
    kafka.topic: orders
`

func TestLoadSpec_Stream(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(streamSpec), 0600))

	spec, err := LoadSpec(path)
	require.NoError(t, err)
	assert.Equal(t, types.TableID(42), spec.TableID)

	info, err := spec.Info()
	require.NoError(t, err)
	stream, ok := info.(*StreamSourceInfo)
	require.True(t, ok)
	assert.Equal(t, "stream", stream.Kind())
	assert.Equal(t, RowFormatDebeziumJSON, stream.RowFormat)
	require.NotNil(t, stream.RowIDIndex)
	assert.Equal(t, uint32(0), stream.RowIDIndex.Index)
	require.Len(t, stream.Columns, 2)
	assert.True(t, stream.Columns[0].IsHidden)
	assert.Equal(t, types.List(types.Varchar), stream.Columns[1].ColumnDesc.DataType)
	assert.Equal(t, "orders", stream.Properties["kafka.topic"])
}

func TestParseSpec_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"neither kind", "tableId: 1\n"},
		{"both kinds", "tableId: 1\ntable: {columns: []}\nstream: {rowFormat: json}\n"},
		{"bad row format", "tableId: 1\nstream: {rowFormat: csv}\n"},
		{"rows on stream", "tableId: 1\nstream: {rowFormat: json}\nrows: [[1]]\n"},
		{"bad type", "tableId: 1\ntable:\n  columns:\n    - columnDesc: {name: a, type: \"list<\", columnId: 0}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseSpec([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadSpec_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := LoadSpec("")
	assert.Error(t, err)
	_, err = LoadSpec(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestRowFormatType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "protobuf", RowFormatProtobuf.String())
	assert.Equal(t, "RowFormatType(9)", RowFormatType(9).String())
}

func TestParseSpec_TableRows(t *testing.T) {
	t.Parallel()

	spec, err := ParseSpec([]byte("tableId: 1\ntable: {columns: []}\nrows:\n  - [1, \"a\"]\n  - [2, null]\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{1, "a"}, {2, nil}}, spec.Rows)
}
