package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/drift"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/source"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/srcerr"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/upstream"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/wire"
)

// newInspector is replaced in tests.
var newInspector = upstream.New

func newInspectCmd() *cobra.Command {
	var specPath string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Compare a stream source's columns with its upstream schema",
		Long: `Build a stream source from a spec file, read the upstream row schema and
report the drift between the two.

CDC connectors query the database catalog. Kafka topics are sampled and the
payloads parsed with the source's row format. The command fails when a
primary key column is missing upstream.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd.OutOrStdout(), specPath)
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "Path to stream source spec file (YAML format, required)")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}

func runInspect(ctx context.Context, out io.Writer, specPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	spec, err := wire.LoadSpec(specPath)
	if err != nil {
		return err
	}
	info, err := spec.Info()
	if err != nil {
		return err
	}
	if _, ok := info.(*wire.StreamSourceInfo); !ok {
		return errors.Newf("inspect requires a stream source, %s is not one", spec.TableID)
	}

	ref, err := source.NewBuilder(source.NewDefaultRegistry()).Build(ctx, spec.TableID, info)
	if err != nil {
		return errors.Wrapf(err, "build %s (%s)", spec.TableID, srcerr.Kind(err))
	}
	defer ref.Release()

	desc := ref.Desc()
	cs := desc.Source.(*source.ConnectorSource)

	insp, err := newInspector(ctx, cs.Config, cs.Parser)
	if err != nil {
		return errors.Wrap(err, "create upstream inspector")
	}
	defer func() {
		if err := insp.Close(); err != nil {
			slog.Warn("Failed to close upstream inspector", "error", err)
		}
	}()

	cols, err := insp.Columns(ctx)
	if err != nil {
		return errors.Wrapf(err, "read %s schema", insp.Name())
	}

	report := drift.Validate(desc.DeclaredColumns(), cols)
	if err := printReport(out, insp.Name(), report); err != nil {
		return err
	}
	if report.Blocking() {
		return errors.Newf("source %s has blocking drift against %s", spec.TableID, insp.Name())
	}
	return nil
}

func printReport(out io.Writer, upstreamName string, report *drift.Report) error {
	if len(report.Issues) == 0 {
		fmt.Fprintf(out, "No drift against %s\n", upstreamName)
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header("Severity", "Column", "Change", "Message")
	for _, iss := range report.Issues {
		if err := table.Append([]string{iss.Severity, iss.Column, iss.Kind, iss.Message}); err != nil {
			return err
		}
	}
	return table.Render()
}
