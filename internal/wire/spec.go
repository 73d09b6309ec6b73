package wire

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

// Spec is the file form of a build request: a table id plus exactly one of
// Table or Stream. Rows seed a table source and are rejected for streams.
type Spec struct {
	TableID types.TableID     `yaml:"tableId"`
	Table   *TableSourceInfo  `yaml:"table,omitempty"`
	Stream  *StreamSourceInfo `yaml:"stream,omitempty"`
	Rows    [][]any           `yaml:"rows,omitempty"`
}

func LoadSpec(path string) (*Spec, error) {
	if path == "" {
		return nil, errors.New("spec path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read spec file")
	}

	return ParseSpec(data)
}

func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(err, "parse spec")
	}
	if _, err := spec.Info(); err != nil {
		return nil, err
	}
	if spec.Stream != nil && len(spec.Rows) > 0 {
		return nil, errors.New("rows are only allowed for table sources")
	}
	return &spec, nil
}

// Info returns the single source info the spec carries.
func (s *Spec) Info() (SourceInfo, error) {
	switch {
	case s.Table != nil && s.Stream != nil:
		return nil, errors.New("spec must set only one of table or stream")
	case s.Table != nil:
		return s.Table, nil
	case s.Stream != nil:
		return s.Stream, nil
	default:
		return nil, errors.New("spec must set one of table or stream")
	}
}
