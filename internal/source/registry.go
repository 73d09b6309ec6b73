package source

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/alexanderjulianmartinez/sourcedesc/internal/metrics"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/parser"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/srcerr"
	"github.com/alexanderjulianmartinez/sourcedesc/internal/wire"
	"github.com/alexanderjulianmartinez/sourcedesc/pkg/types"
)

// DefaultConnectorMessageBufferSize is the connector buffer capacity used by
// NewDefaultRegistry.
const DefaultConnectorMessageBufferSize = 16

type entry struct {
	gen    uint64
	shared *sharedDesc
}

// Registry caches table source descriptors by table id. Entries do not keep
// descriptors alive: an entry whose holders have all released is dead, and
// dead entries are swept on the next InsertSource.
type Registry struct {
	mu      sync.Mutex
	sources map[types.TableID]entry
	nextGen uint64

	metrics                    *metrics.SourceMetrics
	connectorMessageBufferSize int
}

func NewRegistry(m *metrics.SourceMetrics, connectorMessageBufferSize int) *Registry {
	return &Registry{
		sources:                    map[types.TableID]entry{},
		metrics:                    m,
		connectorMessageBufferSize: connectorMessageBufferSize,
	}
}

// NewDefaultRegistry returns a registry with no-op metrics and the default buffer size.
func NewDefaultRegistry() *Registry {
	return NewRegistry(metrics.NewNoopSourceMetrics(), DefaultConnectorMessageBufferSize)
}

// GetSource returns a new holder of the live descriptor cached for id.
func (r *Registry) GetSource(id types.TableID) (*SourceDescRef, error) {
	r.mu.Lock()
	e, ok := r.sources[id]
	r.mu.Unlock()

	if ok {
		if ref, live := e.shared.upgrade(); live {
			return ref, nil
		}
	}
	return nil, srcerr.NotFoundf("table source %s", id)
}

// InsertSource returns the live descriptor cached for id, or builds, caches
// and returns a new table source descriptor from info.
func (r *Registry) InsertSource(id types.TableID, info *wire.TableSourceInfo) (*SourceDescRef, error) {
	if info == nil {
		return nil, srcerr.Internalf("no table source info for %s", id)
	}

	ref, swept, created, err := r.insertLocked(id, info)

	for _, e := range swept {
		slog.Debug("swept dead table source", "table_id", uint32(e.id), "generation", e.gen)
	}
	r.metrics.RecordSwept(context.Background(), len(swept))
	if err != nil {
		return nil, err
	}
	if created {
		slog.Info("registered table source",
			"table_id", uint32(id),
			"generation", ref.Generation(),
			"columns", len(ref.Desc().Columns),
		)
	}
	return ref, nil
}

type sweptEntry struct {
	id  types.TableID
	gen uint64
}

// insertLocked does the map work of InsertSource. Logging and metrics are
// left to the caller so nothing blocks while mu is held.
func (r *Registry) insertLocked(id types.TableID, info *wire.TableSourceInfo) (*SourceDescRef, []sweptEntry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	swept := r.sweepLocked()

	if e, ok := r.sources[id]; ok {
		if ref, live := e.shared.upgrade(); live {
			return ref, swept, false, nil
		}
	}

	columns, err := sourceColumns(info.Columns)
	if err != nil {
		return nil, swept, false, err
	}
	rowIDIndex, ok := markRowID(columns, info.RowIDIndex)
	if !ok {
		return nil, swept, false, srcerr.Internalf("row id index %d out of range for %d columns of %s",
			info.RowIDIndex.Index, len(columns), id)
	}

	desc := &SourceDesc{
		Source:      newTableSource(columns),
		Format:      parser.FormatInvalid,
		Columns:     columns,
		Metrics:     r.metrics,
		RowIDIndex:  rowIDIndex,
		PKColumnIDs: slices.Clone(info.PKColumnIDs),
	}

	r.nextGen++
	ref := newSourceDescRef(desc, r.nextGen)
	r.sources[id] = entry{gen: r.nextGen, shared: ref.shared}
	return ref, swept, true, nil
}

func (r *Registry) sweepLocked() []sweptEntry {
	var swept []sweptEntry
	for id, e := range r.sources {
		if e.shared.alive() {
			continue
		}
		delete(r.sources, id)
		swept = append(swept, sweptEntry{id: id, gen: e.gen})
	}
	return swept
}

// ClearSources drops every entry, live or not. Holders keep their descriptors.
func (r *Registry) ClearSources() {
	r.mu.Lock()
	n := len(r.sources)
	r.sources = map[types.TableID]entry{}
	r.mu.Unlock()

	slog.Info("cleared source registry", "entries", n)
}

// Len counts entries, including dead ones not yet swept.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sources)
}

func (r *Registry) Metrics() *metrics.SourceMetrics {
	return r.metrics
}

func (r *Registry) MessageBufferSize() int {
	return r.connectorMessageBufferSize
}

func sourceColumns(catalog []wire.ColumnCatalog) ([]SourceColumnDesc, error) {
	columns := make([]SourceColumnDesc, 0, len(catalog))
	for i, c := range catalog {
		if c.ColumnDesc == nil {
			return nil, srcerr.Internalf("column %d has no column desc", i)
		}
		columns = append(columns, NewSourceColumnDesc(*c.ColumnDesc))
	}
	return columns, nil
}

// markRowID flags the row-id column as engine filled. It reports false when
// the index is out of range.
func markRowID(columns []SourceColumnDesc, idx *wire.ColumnIndex) (*int, bool) {
	if idx == nil {
		return nil, true
	}
	i := int(idx.Index)
	if i >= len(columns) {
		return nil, false
	}
	columns[i].SkipParse = true
	return &i, true
}
