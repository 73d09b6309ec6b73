package types

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindBoolean
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindDecimal
	KindDate
	KindTime
	KindTimestamp
	KindTimestamptz
	KindInterval
	KindVarchar
	KindBytea
	KindList
	KindStruct
)

var kindNames = map[Kind]string{
	KindBoolean:     "boolean",
	KindInt16:       "int16",
	KindInt32:       "int32",
	KindInt64:       "int64",
	KindFloat32:     "float32",
	KindFloat64:     "float64",
	KindDecimal:     "decimal",
	KindDate:        "date",
	KindTime:        "time",
	KindTimestamp:   "timestamp",
	KindTimestamptz: "timestamptz",
	KindInterval:    "interval",
	KindVarchar:     "varchar",
	KindBytea:       "bytea",
	KindList:        "list",
	KindStruct:      "struct",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// DataType is the logical type of a column. List carries its element type in
// Elem, Struct carries its field types and names in Fields and FieldNames.
type DataType struct {
	Kind       Kind
	Elem       *DataType
	Fields     []DataType
	FieldNames []string
}

var (
	Boolean     = DataType{Kind: KindBoolean}
	Int16       = DataType{Kind: KindInt16}
	Int32       = DataType{Kind: KindInt32}
	Int64       = DataType{Kind: KindInt64}
	Float32     = DataType{Kind: KindFloat32}
	Float64     = DataType{Kind: KindFloat64}
	Decimal     = DataType{Kind: KindDecimal}
	Date        = DataType{Kind: KindDate}
	Time        = DataType{Kind: KindTime}
	Timestamp   = DataType{Kind: KindTimestamp}
	Timestamptz = DataType{Kind: KindTimestamptz}
	Interval    = DataType{Kind: KindInterval}
	Varchar     = DataType{Kind: KindVarchar}
	Bytea       = DataType{Kind: KindBytea}
)

func List(elem DataType) DataType {
	return DataType{Kind: KindList, Elem: &elem}
}

func Struct(fields []DataType, names []string) DataType {
	return DataType{Kind: KindStruct, Fields: fields, FieldNames: names}
}

// IsComposite reports whether the type is a list or a struct.
func (d DataType) IsComposite() bool {
	return d.Kind == KindList || d.Kind == KindStruct
}

func (d DataType) Equal(o DataType) bool {
	return d.String() == o.String()
}

func (d DataType) String() string {
	switch d.Kind {
	case KindList:
		if d.Elem == nil {
			return "list<invalid>"
		}
		return "list<" + d.Elem.String() + ">"
	case KindStruct:
		parts := make([]string, len(d.Fields))
		for i, f := range d.Fields {
			name := fmt.Sprintf("f%d", i)
			if i < len(d.FieldNames) && d.FieldNames[i] != "" {
				name = d.FieldNames[i]
			}
			parts[i] = name + ":" + f.String()
		}
		return "struct<" + strings.Join(parts, ",") + ">"
	default:
		return d.Kind.String()
	}
}

// ToArrow maps the logical type onto the arrow type used by in-memory table sources.
func (d DataType) ToArrow() arrow.DataType {
	switch d.Kind {
	case KindBoolean:
		return arrow.FixedWidthTypes.Boolean
	case KindInt16:
		return arrow.PrimitiveTypes.Int16
	case KindInt32:
		return arrow.PrimitiveTypes.Int32
	case KindInt64:
		return arrow.PrimitiveTypes.Int64
	case KindFloat32:
		return arrow.PrimitiveTypes.Float32
	case KindFloat64:
		return arrow.PrimitiveTypes.Float64
	case KindDecimal:
		return &arrow.Decimal128Type{Precision: 38, Scale: 10}
	case KindDate:
		return arrow.FixedWidthTypes.Date32
	case KindTime:
		return arrow.FixedWidthTypes.Time64us
	case KindTimestamp:
		return &arrow.TimestampType{Unit: arrow.Microsecond}
	case KindTimestamptz:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
	case KindInterval:
		return arrow.FixedWidthTypes.MonthDayNanoInterval
	case KindVarchar:
		return arrow.BinaryTypes.String
	case KindBytea:
		return arrow.BinaryTypes.Binary
	case KindList:
		if d.Elem == nil {
			return arrow.Null
		}
		return arrow.ListOf(d.Elem.ToArrow())
	case KindStruct:
		fields := make([]arrow.Field, len(d.Fields))
		for i, f := range d.Fields {
			name := fmt.Sprintf("f%d", i)
			if i < len(d.FieldNames) && d.FieldNames[i] != "" {
				name = d.FieldNames[i]
			}
			fields[i] = arrow.Field{Name: name, Type: f.ToArrow(), Nullable: true}
		}
		return arrow.StructOf(fields...)
	default:
		return arrow.Null
	}
}

// ParseDataType parses the textual form produced by String, e.g.
// "int64", "list<varchar>" or "struct<a:int32,b:list<float64>>".
func ParseDataType(s string) (DataType, error) {
	p := &typeParser{in: strings.ReplaceAll(s, " ", "")}
	dt, err := p.parse()
	if err != nil {
		return DataType{}, err
	}
	if p.pos != len(p.in) {
		return DataType{}, errors.Newf("unexpected trailing input in type %q", s)
	}
	return dt, nil
}

type typeParser struct {
	in  string
	pos int
}

func (p *typeParser) parse() (DataType, error) {
	name := p.ident()
	switch name {
	case "list":
		if !p.consume('<') {
			return DataType{}, errors.Newf("expected '<' after list at %d", p.pos)
		}
		elem, err := p.parse()
		if err != nil {
			return DataType{}, err
		}
		if !p.consume('>') {
			return DataType{}, errors.Newf("expected '>' closing list at %d", p.pos)
		}
		return List(elem), nil
	case "struct":
		if !p.consume('<') {
			return DataType{}, errors.Newf("expected '<' after struct at %d", p.pos)
		}
		var fields []DataType
		var names []string
		for {
			fieldName := p.ident()
			if fieldName == "" || !p.consume(':') {
				return DataType{}, errors.Newf("expected field name and ':' at %d", p.pos)
			}
			ft, err := p.parse()
			if err != nil {
				return DataType{}, err
			}
			fields = append(fields, ft)
			names = append(names, fieldName)
			if p.consume(',') {
				continue
			}
			if p.consume('>') {
				return Struct(fields, names), nil
			}
			return DataType{}, errors.Newf("expected ',' or '>' in struct at %d", p.pos)
		}
	}
	for k, n := range kindNames {
		if n == name && k != KindList && k != KindStruct {
			return DataType{Kind: k}, nil
		}
	}
	return DataType{}, errors.Newf("unknown data type %q", name)
}

func (p *typeParser) ident() string {
	start := p.pos
	for p.pos < len(p.in) {
		c := p.in[p.pos]
		if c == '<' || c == '>' || c == ',' || c == ':' {
			break
		}
		p.pos++
	}
	return strings.ToLower(p.in[start:p.pos])
}

func (p *typeParser) consume(c byte) bool {
	if p.pos < len(p.in) && p.in[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (d DataType) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *DataType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dt, err := ParseDataType(s)
	if err != nil {
		return err
	}
	*d = dt
	return nil
}
