// Package wire holds the catalog-supplied specifications a source descriptor
// is built from.
package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

type RowFormatType int32

const (
	RowFormatUnspecified RowFormatType = iota
	RowFormatJSON
	RowFormatProtobuf
	RowFormatDebeziumJSON
	RowFormatAvro
)

var rowFormatNames = []string{"unspecified", "json", "protobuf", "debezium_json", "avro"}

func (f RowFormatType) String() string {
	if f >= 0 && int(f) < len(rowFormatNames) {
		return rowFormatNames[f]
	}
	return fmt.Sprintf("RowFormatType(%d)", int32(f))
}

func (f RowFormatType) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *RowFormatType) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range rowFormatNames {
		if s == name {
			*f = RowFormatType(i)
			return nil
		}
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		*f = RowFormatType(n)
		return nil
	}
	return errors.Newf("unknown row format %q", s)
}

func (f *RowFormatType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return f.UnmarshalText([]byte(s))
}

type ColumnIndex struct {
	Index uint32 `yaml:"index"`
}

// ColumnCatalog wraps a catalog column. ColumnDesc is optional on the wire and
// must be present for a valid specification.
type ColumnCatalog struct {
	ColumnDesc *types.ColumnDesc `yaml:"columnDesc"`
	IsHidden   bool              `yaml:"isHidden,omitempty"`
}

// SourceInfo is implemented by *TableSourceInfo and *StreamSourceInfo only.
type SourceInfo interface {
	isSourceInfo()
	Kind() string
}

type TableSourceInfo struct {
	RowIDIndex  *ColumnIndex      `yaml:"rowIdIndex,omitempty"`
	Columns     []ColumnCatalog   `yaml:"columns"`
	PKColumnIDs []int32           `yaml:"pkColumnIds"`
	Properties  map[string]string `yaml:"properties,omitempty"`
}

func (*TableSourceInfo) isSourceInfo() {}

func (*TableSourceInfo) Kind() string { return "table" }

type StreamSourceInfo struct {
	RowFormat         RowFormatType     `yaml:"rowFormat"`
	RowSchemaLocation string            `yaml:"rowSchemaLocation,omitempty"`
	RowIDIndex        *ColumnIndex      `yaml:"rowIdIndex,omitempty"`
	PKColumnIDs       []int32           `yaml:"pkColumnIds"`
	Columns           []ColumnCatalog   `yaml:"columns"`
	Properties        map[string]string `yaml:"properties"`
}

func (*StreamSourceInfo) isSourceInfo() {}

func (*StreamSourceInfo) Kind() string { return "stream" }
