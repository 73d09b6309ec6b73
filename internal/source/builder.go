package source

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/connector"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/drift"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/parser"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/srcerr"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/wire"
	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

//go:generate mockgen -destination=mocks/mock_builder.go -package=mocks -source=builder.go ParserFactory,ConfigExtractor

// ParserFactory constructs the row parser of a stream source. Create may read
// a schema file or contact a schema registry.
type ParserFactory interface {
	Create(ctx context.Context, format parser.Format, props map[string]string, schemaLocation string) (parser.Parser, error)
}

// ConfigExtractor extracts the connector configuration from source properties.
type ConfigExtractor interface {
	Extract(props map[string]string) (connector.Config, error)
}

type BuilderOption func(*Builder)

func WithParserFactory(f ParserFactory) BuilderOption {
	return func(b *Builder) {
		b.parsers = f
	}
}

func WithConfigExtractor(e ConfigExtractor) BuilderOption {
	return func(b *Builder) {
		b.configs = e
	}
}

// Builder turns source infos into descriptors. Table sources are cached in
// the registry; stream sources are built fresh on every call.
type Builder struct {
	registry *Registry
	parsers  ParserFactory
	configs  ConfigExtractor
}

func NewBuilder(reg *Registry, opts ...BuilderOption) *Builder {
	b := &Builder{
		registry: reg,
		parsers:  parser.NewFactory(),
		configs:  connector.ExtractorFunc(connector.Extract),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns a descriptor for id. On error nothing is cached and no
// resources are left open.
func (b *Builder) Build(ctx context.Context, id types.TableID, info wire.SourceInfo) (ref *SourceDescRef, err error) {
	kind := "unknown"
	defer func() {
		b.registry.Metrics().RecordBuild(ctx, kind, srcerr.Kind(err))
	}()

	switch info := info.(type) {
	case *wire.TableSourceInfo:
		kind = info.Kind()
		return b.registry.InsertSource(id, info)
	case *wire.StreamSourceInfo:
		kind = info.Kind()
		return b.buildStream(ctx, id, info)
	default:
		return nil, srcerr.Internalf("unsupported source info %T", info)
	}
}

func (b *Builder) buildStream(ctx context.Context, id types.TableID, info *wire.StreamSourceInfo) (_ *SourceDescRef, err error) {
	if info == nil {
		return nil, srcerr.Internalf("no stream source info for %s", id)
	}

	format, err := rowFormat(info.RowFormat)
	if err != nil {
		return nil, err
	}
	if format == parser.FormatProtobuf && info.RowSchemaLocation == "" {
		return nil, srcerr.Protocolf("protobuf file location not provided")
	}

	p, err := b.parsers.Create(ctx, format, info.Properties, info.RowSchemaLocation)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			closeParser(p)
		}
	}()

	columns, err := sourceColumns(info.Columns)
	if err != nil {
		return nil, err
	}
	rowIDIndex, ok := markRowID(columns, info.RowIDIndex)
	if !ok {
		return nil, srcerr.Protocolf("row id index %d out of range for %d columns",
			info.RowIDIndex.Index, len(columns))
	}
	if len(info.PKColumnIDs) == 0 {
		return nil, srcerr.Protocolf("source should have at least one pk column")
	}

	logDrift(ctx, id, p, columns, info.PKColumnIDs)

	cfg, err := b.configs.Extract(info.Properties)
	if err != nil {
		return nil, srcerr.Connector(err)
	}
	if cfg == nil {
		return nil, srcerr.Connectorf("no connector configuration extracted")
	}

	desc := &SourceDesc{
		Source: &ConnectorSource{
			Config:            cfg,
			Columns:           columns,
			Parser:            p,
			MessageBufferSize: b.registry.MessageBufferSize(),
		},
		Format:      format,
		Columns:     columns,
		Metrics:     b.registry.Metrics(),
		RowIDIndex:  rowIDIndex,
		PKColumnIDs: slices.Clone(info.PKColumnIDs),
	}

	slog.Info("built stream source",
		"table_id", uint32(id),
		"format", format.String(),
		"connector", cfg.Connector(),
		"columns", len(columns),
	)
	return newSourceDescRef(desc, 0), nil
}

func rowFormat(f wire.RowFormatType) (parser.Format, error) {
	switch f {
	case wire.RowFormatJSON:
		return parser.FormatJSON, nil
	case wire.RowFormatProtobuf:
		return parser.FormatProtobuf, nil
	case wire.RowFormatDebeziumJSON:
		return parser.FormatDebeziumJSON, nil
	case wire.RowFormatAvro:
		return parser.FormatAvro, nil
	case wire.RowFormatUnspecified:
		return parser.FormatInvalid, srcerr.Internalf("row format unspecified")
	default:
		return parser.FormatInvalid, srcerr.Internalf("unknown row format %s", f)
	}
}

func logDrift(ctx context.Context, id types.TableID, p parser.Parser, columns []SourceColumnDesc, pk []int32) {
	sp, ok := p.(parser.SchemaProvider)
	if !ok {
		return
	}

	fields := sp.Fields()
	schema := make([]drift.Column, len(fields))
	for i, f := range fields {
		schema[i] = drift.Column{Name: f.Name, Kind: f.Kind}
	}

	for _, iss := range drift.Validate(driftColumns(columns, pk), schema).Issues {
		level := slog.LevelWarn
		if iss.Severity == drift.SeverityInfo {
			level = slog.LevelInfo
		}
		slog.Log(ctx, level, "source schema drift",
			"table_id", uint32(id),
			"column", iss.Column,
			"change", iss.Kind,
			"severity", iss.Severity,
			"message", iss.Message,
		)
	}
}

func closeParser(p parser.Parser) {
	closer, ok := p.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close parser", "error", err)
	}
}
