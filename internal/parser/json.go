package parser

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// JSONParser reads one flat JSON object per message.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (*JSONParser) Parse(payload []byte) ([]Event, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	fields, err := objectFields(payload)
	if err != nil {
		return nil, err
	}
	return []Event{{Op: OpInsert, Fields: fields}}, nil
}

func objectFields(payload []byte) (map[string]any, error) {
	if !gjson.ValidBytes(payload) {
		return nil, errors.New("invalid json payload")
	}
	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return nil, errors.New("json payload is not an object")
	}
	return resultFields(root), nil
}

func resultFields(obj gjson.Result) map[string]any {
	fields := map[string]any{}
	obj.ForEach(func(key, value gjson.Result) bool {
		fields[key.String()] = jsonValue(value)
		return true
	})
	return fields
}

// jsonValue is gjson's Value, except that integral numbers decode to int64
// (or uint64 above MaxInt64) so keys beyond 2^53 keep every digit.
func jsonValue(v gjson.Result) any {
	switch {
	case v.Type == gjson.Number:
		if strings.ContainsAny(v.Raw, ".eE") {
			return v.Num
		}
		if n, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return n
		}
		if n, err := strconv.ParseUint(v.Raw, 10, 64); err == nil {
			return n
		}
		return v.Num
	case v.IsObject():
		return resultFields(v)
	case v.IsArray():
		arr := v.Array()
		out := make([]any, len(arr))
		for i, elem := range arr {
			out[i] = jsonValue(elem)
		}
		return out
	default:
		return v.Value()
	}
}
