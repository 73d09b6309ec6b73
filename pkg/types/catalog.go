package types

import "fmt"

// TableID names a logical table or source within the engine.
type TableID uint32

func (t TableID) String() string {
	return fmt.Sprintf("TableId { table_id: %d }", uint32(t))
}

// ColumnID is a column identity, unique within one source.
type ColumnID int32

// ColumnDesc is the generic catalog description of a column. TypeName is an
// engine-internal tag for user-defined composite types.
type ColumnDesc struct {
	DataType   DataType     `yaml:"type"`
	ColumnID   ColumnID     `yaml:"columnId"`
	Name       string       `yaml:"name"`
	FieldDescs []ColumnDesc `yaml:"fieldDescs,omitempty"`
	TypeName   string       `yaml:"typeName,omitempty"`
}

// UnnamedColumn returns a column desc without a name, as used by tests and by
// internal system columns.
func UnnamedColumn(id ColumnID, dt DataType) ColumnDesc {
	return ColumnDesc{DataType: dt, ColumnID: id}
}
