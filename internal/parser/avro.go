package parser

import (
	"github.com/cockroachdb/errors"
	"github.com/hamba/avro/v2"

	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

// confluentHeaderLen is the magic byte plus the 4-byte schema id that prefix
// every schema-registry framed message.
const confluentHeaderLen = 5

// AvroParser decodes records of one writer schema.
type AvroParser struct {
	schema        *avro.RecordSchema
	confluentWire bool
}

func NewAvroParser(schemaJSON []byte, confluentWire bool) (*AvroParser, error) {
	schema, err := avro.Parse(string(schemaJSON))
	if err != nil {
		return nil, errors.Wrap(err, "parse avro schema")
	}
	rec, ok := schema.(*avro.RecordSchema)
	if !ok {
		return nil, errors.Newf("avro schema must be a record, got %s", schema.Type())
	}
	return &AvroParser{schema: rec, confluentWire: confluentWire}, nil
}

func (p *AvroParser) Parse(payload []byte) ([]Event, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	data := payload
	if p.confluentWire {
		if len(data) < confluentHeaderLen || data[0] != 0 {
			return nil, errors.New("avro payload is missing the schema registry header")
		}
		data = data[confluentHeaderLen:]
	}

	var fields map[string]any
	if err := avro.Unmarshal(p.schema, data, &fields); err != nil {
		return nil, errors.Wrapf(err, "decode avro record %s", p.schema.FullName())
	}
	return []Event{{Op: OpInsert, Fields: fields}}, nil
}

func (p *AvroParser) Fields() []Field {
	out := make([]Field, 0, len(p.schema.Fields()))
	for _, f := range p.schema.Fields() {
		out = append(out, Field{Name: f.Name(), Kind: avroKind(f.Type())})
	}
	return out
}

func avroKind(s avro.Schema) types.Kind {
	switch s.Type() {
	case avro.Boolean:
		return types.KindBoolean
	case avro.Int:
		return types.KindInt32
	case avro.Long:
		return types.KindInt64
	case avro.Float:
		return types.KindFloat32
	case avro.Double:
		return types.KindFloat64
	case avro.String, avro.Enum:
		return types.KindVarchar
	case avro.Bytes, avro.Fixed:
		return types.KindBytea
	case avro.Array:
		return types.KindList
	case avro.Record, avro.Map:
		return types.KindStruct
	case avro.Union:
		u := s.(*avro.UnionSchema)
		for _, t := range u.Types() {
			if t.Type() != avro.Null {
				return avroKind(t)
			}
		}
		return types.KindInvalid
	default:
		return types.KindInvalid
	}
}
