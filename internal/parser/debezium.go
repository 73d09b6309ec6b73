package parser

import (
	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// DebeziumJSONParser reads Debezium change events, with or without the
// schema/payload envelope.
type DebeziumJSONParser struct{}

func NewDebeziumJSONParser() *DebeziumJSONParser {
	return &DebeziumJSONParser{}
}

func (*DebeziumJSONParser) Parse(payload []byte) ([]Event, error) {
	// tombstone following a delete
	if len(payload) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(payload) {
		return nil, errors.New("invalid debezium json payload")
	}

	root := gjson.ParseBytes(payload)
	if env := root.Get("payload"); env.Exists() {
		if env.Type == gjson.Null {
			return nil, nil
		}
		root = env
	}

	before := root.Get("before")
	after := root.Get("after")

	switch op := root.Get("op").String(); op {
	case "c", "r":
		if !after.IsObject() {
			return nil, errors.Newf("debezium op %q without after image", op)
		}
		return []Event{{Op: OpInsert, Fields: resultFields(after)}}, nil
	case "u":
		if !before.IsObject() || !after.IsObject() {
			return nil, errors.New("debezium update requires before and after images")
		}
		return []Event{
			{Op: OpUpdateDelete, Fields: resultFields(before)},
			{Op: OpUpdateInsert, Fields: resultFields(after)},
		}, nil
	case "d":
		if !before.IsObject() {
			return nil, errors.New("debezium delete without before image")
		}
		return []Event{{Op: OpDelete, Fields: resultFields(before)}}, nil
	case "":
		return nil, errors.New("debezium payload has no op field")
	default:
		return nil, errors.Newf("unknown debezium op %q", op)
	}
}
