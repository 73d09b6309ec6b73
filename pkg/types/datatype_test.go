package types

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDataType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    DataType
		str     string
		wantErr bool
	}{
		{in: "int64", want: Int64, str: "int64"},
		{in: "DECIMAL", want: Decimal, str: "decimal"},
		{in: "list<varchar>", want: List(Varchar), str: "list<varchar>"},
		{
			in:   "struct<a: int32, b: list<float64>>",
			want: Struct([]DataType{Int32, List(Float64)}, []string{"a", "b"}),
			str:  "struct<a:int32,b:list<float64>>",
		},
		{in: "list<list<bytea>>", want: List(List(Bytea)), str: "list<list<bytea>>"},
		{in: "uuid", wantErr: true},
		{in: "list<int32", wantErr: true},
		{in: "struct<int32>", wantErr: true},
		{in: "int32>", wantErr: true},
		{in: "list", wantErr: true},
		{in: "struct", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDataType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.NotNil(t, errors.GetReportableStackTrace(err), "parse errors carry a stack")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.str, got.String())
		})
	}
}

func TestDataType_IsComposite(t *testing.T) {
	t.Parallel()

	assert.False(t, Int32.IsComposite())
	assert.False(t, Timestamptz.IsComposite())
	assert.True(t, List(Int32).IsComposite())
	assert.True(t, Struct(nil, nil).IsComposite())
}

func TestDataType_Equal(t *testing.T) {
	t.Parallel()

	assert.True(t, List(Int32).Equal(List(Int32)))
	assert.False(t, List(Int32).Equal(List(Int64)))
	assert.True(t, Struct([]DataType{Int16}, []string{"x"}).Equal(Struct([]DataType{Int16}, []string{"x"})))
	assert.False(t, Struct([]DataType{Int16}, []string{"x"}).Equal(Struct([]DataType{Int16}, []string{"y"})))
}

func TestDataType_ToArrow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, arrow.INT64, Int64.ToArrow().ID())
	assert.Equal(t, arrow.STRING, Varchar.ToArrow().ID())
	assert.Equal(t, arrow.TIMESTAMP, Timestamptz.ToArrow().ID())
	assert.Equal(t, "UTC", Timestamptz.ToArrow().(*arrow.TimestampType).TimeZone)

	list, ok := List(Int32).ToArrow().(*arrow.ListType)
	require.True(t, ok)
	assert.Equal(t, arrow.INT32, list.Elem().ID())

	st, ok := Struct([]DataType{Boolean, Varchar}, []string{"ok", ""}).ToArrow().(*arrow.StructType)
	require.True(t, ok)
	require.Equal(t, 2, st.NumFields())
	assert.Equal(t, "ok", st.Field(0).Name)
	assert.Equal(t, "f1", st.Field(1).Name)

	assert.Equal(t, arrow.NULL, DataType{}.ToArrow().ID())
}

func TestDataType_YAML(t *testing.T) {
	t.Parallel()

	var col ColumnDesc
	require.NoError(t, yaml.Unmarshal([]byte("{name: tags, type: 'list<varchar>', columnId: 4}"), &col))
	assert.Equal(t, "tags", col.Name)
	assert.Equal(t, ColumnID(4), col.ColumnID)
	assert.Equal(t, List(Varchar), col.DataType)

	out, err := yaml.Marshal(col)
	require.NoError(t, err)
	assert.Contains(t, string(out), "type: list<varchar>")

	assert.Error(t, yaml.Unmarshal([]byte("{type: nope}"), &col))
}

func TestTableID_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TableId { table_id: 7 }", TableID(7).String())
}
