package types

// Summary is a flat, printable view of a built source descriptor.
type Summary struct {
	Table       TableID         `yaml:"tableId"`
	Kind        string          `yaml:"kind"`
	Format      string          `yaml:"format"`
	Connector   string          `yaml:"connector,omitempty"`
	Columns     []ColumnSummary `yaml:"columns"`
	RowIDIndex  *int            `yaml:"rowIdIndex,omitempty"`
	PKColumnIDs []int32         `yaml:"pkColumnIds"`
	Generation  uint64          `yaml:"generation"`
}

type ColumnSummary struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	ColumnID  ColumnID `yaml:"columnId"`
	SkipParse bool     `yaml:"skipParse,omitempty"`
}
