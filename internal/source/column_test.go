package source

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/srcerr"
	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

func TestSourceColumnDesc_RoundTrip(t *testing.T) {
	t.Parallel()

	nested := []types.ColumnDesc{
		{DataType: types.Int32, ColumnID: 11, Name: "x"},
		{DataType: types.Varchar, ColumnID: 12, Name: "y"},
	}
	orig := types.ColumnDesc{
		DataType:   types.Struct([]types.DataType{types.Int32, types.Varchar}, []string{"x", "y"}),
		ColumnID:   10,
		Name:       "point",
		FieldDescs: nested,
		TypeName:   "point_t",
	}

	col := NewSourceColumnDesc(orig)
	assert.False(t, col.SkipParse)
	assert.Equal(t, "point", col.Name)
	assert.Equal(t, types.ColumnID(10), col.ColumnID)
	assert.Equal(t, nested, col.Fields)

	back := col.ToColumnDesc()
	assert.Equal(t, orig.Name, back.Name)
	assert.Equal(t, orig.ColumnID, back.ColumnID)
	assert.Equal(t, orig.FieldDescs, back.FieldDescs)
	assert.True(t, orig.DataType.Equal(back.DataType))
	assert.Empty(t, back.TypeName)

	// the source column does not alias the catalog's field slice
	orig.FieldDescs[0].Name = "changed"
	assert.Equal(t, "x", col.Fields[0].Name)
}

func TestSimpleColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dt      types.DataType
		wantErr bool
	}{
		{name: "scalar", dt: types.Decimal},
		{name: "varchar", dt: types.Varchar},
		{name: "list", dt: types.List(types.Int32), wantErr: true},
		{name: "struct", dt: types.Struct([]types.DataType{types.Int64}, []string{"a"}), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			col, err := SimpleColumn("c", tt.dt, 3)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, srcerr.ErrInternal))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, SourceColumnDesc{Name: "c", DataType: tt.dt, ColumnID: 3}, col)
		})
	}
}

func TestMustSimpleColumn(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { MustSimpleColumn("a", types.Int64, 1) })
	assert.Panics(t, func() { MustSimpleColumn("a", types.List(types.Int32), 1) })
}
