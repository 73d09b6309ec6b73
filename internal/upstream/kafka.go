package upstream

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/connector"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/drift"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/parser"
	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

const (
	DefaultSampleSize    = 500
	defaultSampleTimeout = 3 * time.Second
)

// KafkaSampler infers the row schema of a topic by parsing up to limit
// messages read from the source's startup position: the earliest offset by
// default, the configured timestamp in timestamp mode. In latest mode only
// messages produced during the sampling window are seen, so an idle topic
// yields an error. Formats whose parser carries a schema are answered
// without reading.
type KafkaSampler struct {
	cfg     *connector.KafkaConfig
	parser  parser.Parser
	limit   int
	timeout time.Duration
}

func NewKafkaSampler(cfg *connector.KafkaConfig, p parser.Parser, limit int) *KafkaSampler {
	return &KafkaSampler{cfg: cfg, parser: p, limit: limit, timeout: defaultSampleTimeout}
}

func (*KafkaSampler) Name() string {
	return "kafka"
}

func (s *KafkaSampler) Columns(ctx context.Context) ([]drift.Column, error) {
	if sp, ok := s.parser.(parser.SchemaProvider); ok {
		fields := sp.Fields()
		cols := make([]drift.Column, len(fields))
		for i, f := range fields {
			cols[i] = drift.Column{Name: f.Name, Kind: f.Kind}
		}
		return cols, nil
	}

	r, err := s.cfg.NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var sampler fieldSampler
	count := 0
	for count < s.limit {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			break
		}
		count++
		events, err := s.parser.Parse(m.Value)
		if err != nil {
			// skip messages the parser cannot read
			continue
		}
		for _, ev := range events {
			sampler.observe(ev.Fields)
		}
	}

	if len(sampler.order) == 0 {
		return nil, emptySampleError(s.cfg)
	}
	return sampler.columns(), nil
}

func (*KafkaSampler) Close() error {
	return nil
}

func emptySampleError(cfg *connector.KafkaConfig) error {
	err := errors.Newf("no parsable messages found in kafka topic %s", cfg.Topic)
	if cfg.StartupMode == connector.StartupLatest {
		err = errors.WithHint(err, "latest startup mode only samples messages produced while inspecting")
	}
	return err
}

// fieldSampler records field names in first-seen order, sorted within a
// message, with the first non-null kind observed for each.
type fieldSampler struct {
	order []string
	kinds map[string]types.Kind
}

func (f *fieldSampler) observe(fields map[string]any) {
	if f.kinds == nil {
		f.kinds = map[string]types.Kind{}
	}
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		v := fields[name]
		kind, seen := f.kinds[name]
		if !seen {
			f.order = append(f.order, name)
		}
		if !seen || kind == types.KindInvalid {
			f.kinds[name] = ValueKind(v)
		}
	}
}

func (f *fieldSampler) columns() []drift.Column {
	cols := make([]drift.Column, len(f.order))
	for i, name := range f.order {
		cols[i] = drift.Column{Name: name, Kind: f.kinds[name]}
	}
	return cols
}

// ValueKind infers a kind from a parsed value. Null values yield
// KindInvalid, which is compatible with any declared kind.
func ValueKind(v any) types.Kind {
	switch v := v.(type) {
	case bool:
		return types.KindBoolean
	case int16:
		return types.KindInt16
	case int32:
		return types.KindInt32
	case int, int64, uint32, uint64:
		return types.KindInt64
	case float32:
		return types.KindFloat32
	case float64:
		if v == float64(int64(v)) {
			return types.KindInt64
		}
		return types.KindFloat64
	case string:
		return types.KindVarchar
	case []byte:
		return types.KindBytea
	case time.Time:
		return types.KindTimestamptz
	case []any:
		return types.KindList
	case map[string]any:
		return types.KindStruct
	default:
		return types.KindInvalid
	}
}
