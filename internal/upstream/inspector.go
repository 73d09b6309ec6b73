// Package upstream reads the live row schema of the system a stream source
// consumes from, for comparison with the declared columns.
package upstream

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/connector"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/drift"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/parser"
)

type Inspector interface {
	Name() string
	// Columns returns the upstream columns in upstream order.
	Columns(ctx context.Context) ([]drift.Column, error)
	Close() error
}

// New returns the inspector for cfg. Kafka topics are sampled through p; CDC
// sources query the database catalog.
func New(ctx context.Context, cfg connector.Config, p parser.Parser) (Inspector, error) {
	switch cfg := cfg.(type) {
	case *connector.MySQLCDCConfig:
		return NewMySQLInspector(ctx, cfg)
	case *connector.PostgresCDCConfig:
		return NewPostgresInspector(ctx, cfg)
	case *connector.KafkaConfig:
		return NewKafkaSampler(cfg, p, DefaultSampleSize), nil
	case nil:
		return nil, errors.New("no connector configuration")
	default:
		return nil, errors.Newf("no upstream inspector for connector %s", cfg.Connector())
	}
}
