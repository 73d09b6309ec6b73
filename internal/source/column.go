package source

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/srcerr"
	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

// SourceColumnDesc is one column of a source. SkipParse is set only on the
// row-id column, which the engine fills in instead of the parser.
type SourceColumnDesc struct {
	Name      string
	DataType  types.DataType
	ColumnID  types.ColumnID
	Fields    []types.ColumnDesc
	SkipParse bool
}

func NewSourceColumnDesc(c types.ColumnDesc) SourceColumnDesc {
	return SourceColumnDesc{
		Name:     c.Name,
		DataType: c.DataType,
		ColumnID: c.ColumnID,
		Fields:   slices.Clone(c.FieldDescs),
	}
}

// ToColumnDesc converts back to a catalog column. The type name is not kept.
func (c SourceColumnDesc) ToColumnDesc() types.ColumnDesc {
	return types.ColumnDesc{
		DataType:   c.DataType,
		ColumnID:   c.ColumnID,
		Name:       c.Name,
		FieldDescs: slices.Clone(c.Fields),
	}
}

// SimpleColumn builds a column without nested fields. Lists and structs need
// field descriptors and are rejected.
func SimpleColumn(name string, dt types.DataType, id types.ColumnID) (SourceColumnDesc, error) {
	if dt.IsComposite() {
		return SourceColumnDesc{}, srcerr.Internalf("simple column %q cannot have composite type %s", name, dt)
	}
	return SourceColumnDesc{Name: name, DataType: dt, ColumnID: id}, nil
}

func MustSimpleColumn(name string, dt types.DataType, id types.ColumnID) SourceColumnDesc {
	c, err := SimpleColumn(name, dt, id)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "MustSimpleColumn"))
	}
	return c
}
