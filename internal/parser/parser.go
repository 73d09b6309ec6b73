// Package parser turns raw connector payloads into field maps. Parsers are
// created once per stream source descriptor and are safe for concurrent use.
package parser

import (
	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

// Format is the row encoding of a source. FormatInvalid is reserved for
// table-backed sources, which carry no parser.
type Format int

const (
	FormatInvalid Format = iota
	FormatJSON
	FormatProtobuf
	FormatDebeziumJSON
	FormatAvro
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatProtobuf:
		return "protobuf"
	case FormatDebeziumJSON:
		return "debezium_json"
	case FormatAvro:
		return "avro"
	default:
		return "invalid"
	}
}

// Op is the change kind of a parsed event.
type Op int

const (
	OpInsert Op = iota
	OpDelete
	OpUpdateDelete
	OpUpdateInsert
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpUpdateDelete:
		return "update_delete"
	case OpUpdateInsert:
		return "update_insert"
	default:
		return "unknown"
	}
}

// Event is one parsed change. Fields is keyed by field name as it appears in
// the payload.
type Event struct {
	Op     Op
	Fields map[string]any
}

type Parser interface {
	// Parse decodes one message. An empty result with a nil error means the
	// message carried no row (e.g. a tombstone).
	Parse(payload []byte) ([]Event, error)
}

// SchemaProvider is implemented by parsers whose format carries a row schema.
type SchemaProvider interface {
	Fields() []Field
}

type Field struct {
	Name string
	Kind types.Kind
}
