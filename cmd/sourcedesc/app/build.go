package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"gopkg.in/yaml.v3"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/config"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/metrics"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/source"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/srcerr"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/wire"
	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

type buildOptions struct {
	configPath string
	specPath   string
	output     string
}

func newBuildCmd() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a source descriptor from a spec file",
		Long: `Build a source descriptor from a spec file and print its summary.

The spec (--spec) holds a tableId and either a table or a stream source.
Stream sources construct their parser and connector configuration, which may
read a schema file or contact a schema registry.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to configuration file (YAML format)")
	cmd.Flags().StringVar(&opts.specPath, "spec", "", "Path to source spec file (YAML format, required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format (table|yaml)")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}

func runBuild(ctx context.Context, out io.Writer, opts *buildOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.output != "table" && opts.output != "yaml" {
		return errors.Newf("unknown output format %q", opts.output)
	}

	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(opts.configPath); err != nil {
			return err
		}
	}
	applyConfigLogLevel(cfg.LogLevel)

	spec, err := wire.LoadSpec(opts.specPath)
	if err != nil {
		return err
	}
	info, err := spec.Info()
	if err != nil {
		return err
	}

	var reader *sdkmetric.ManualReader
	m := metrics.NewNoopSourceMetrics()
	if cfg.Metrics.Enabled {
		reader = sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer func() { _ = mp.Shutdown(context.Background()) }()
		if m, err = metrics.NewSourceMetrics(mp); err != nil {
			return errors.Wrap(err, "create source metrics")
		}
	}

	reg := source.NewRegistry(m, cfg.ConnectorMessageBufferSize)
	ref, err := source.NewBuilder(reg).Build(ctx, spec.TableID, info)
	if err != nil {
		return errors.Wrapf(err, "build %s (%s)", spec.TableID, srcerr.Kind(err))
	}
	defer ref.Release()

	ts, isTable := ref.Desc().Source.(*source.TableSource)
	if isTable && len(spec.Rows) > 0 {
		if err := ts.Append(spec.Rows...); err != nil {
			return errors.Wrapf(err, "seed rows of %s", spec.TableID)
		}
	}

	summary := ref.Summary(spec.TableID)
	if opts.output == "yaml" {
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(summary)
	}

	if err := printSummary(out, summary); err != nil {
		return err
	}
	if isTable && ts.Len() > 0 {
		if err := printRows(out, ts); err != nil {
			return err
		}
	}
	if reader != nil {
		return printMetrics(ctx, out, reader)
	}
	return nil
}

func printSummary(out io.Writer, s types.Summary) error {
	rowID := "none"
	if s.RowIDIndex != nil {
		rowID = strconv.Itoa(*s.RowIDIndex)
	}
	pk := make([]string, len(s.PKColumnIDs))
	for i, id := range s.PKColumnIDs {
		pk[i] = strconv.Itoa(int(id))
	}

	fmt.Fprintf(out, "Table:       %d\n", uint32(s.Table))
	fmt.Fprintf(out, "Kind:        %s\n", s.Kind)
	fmt.Fprintf(out, "Format:      %s\n", s.Format)
	if s.Connector != "" {
		fmt.Fprintf(out, "Connector:   %s\n", s.Connector)
	}
	fmt.Fprintf(out, "Row id:      %s\n", rowID)
	fmt.Fprintf(out, "Primary key: [%s]\n", strings.Join(pk, ", "))

	table := tablewriter.NewWriter(out)
	table.Header("#", "Name", "Type", "Column ID", "Skip Parse")
	for i, c := range s.Columns {
		row := []string{
			strconv.Itoa(i),
			c.Name,
			c.Type,
			strconv.Itoa(int(c.ColumnID)),
			strconv.FormatBool(c.SkipParse),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func printRows(out io.Writer, ts *source.TableSource) error {
	fields := ts.Schema().Fields()
	header := make([]any, len(fields))
	for i, f := range fields {
		header[i] = fmt.Sprintf("%s (%s)", f.Name, f.Type)
	}

	fmt.Fprintf(out, "Rows:        %d\n", ts.Len())
	table := tablewriter.NewWriter(out)
	table.Header(header...)

	var err error
	ts.Scan(func(row []any) bool {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "NULL"
				continue
			}
			cells[i] = fmt.Sprint(v)
		}
		err = table.Append(cells)
		return err == nil
	})
	if err != nil {
		return err
	}
	return table.Render()
}

func printMetrics(ctx context.Context, out io.Writer, reader *sdkmetric.ManualReader) error {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return errors.Wrap(err, "collect metrics")
	}

	sums := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				sums[m.Name] += dp.Value
			}
		}
	}
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(out)
	table.Header("Metric", "Value")
	for _, name := range names {
		if err := table.Append([]string{name, strconv.FormatInt(sums[name], 10)}); err != nil {
			return err
		}
	}
	return table.Render()
}
