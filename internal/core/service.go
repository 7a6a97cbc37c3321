package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/tablekit/internal/logging"
	"github.com/JonMunkholm/tablekit/internal/metrics"
	"github.com/JonMunkholm/tablekit/internal/table"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/JonMunkholm/tablekit/internal/core"

// Service is the entry point transports use to query and mutate tables.
type Service struct {
	tables  *Registry
	audit   *AuditLog
	exports *ExportLimiter
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithExportLimit bounds concurrent exports to maxConcurrent, each waiting
// at most maxWait for a slot.
func WithExportLimit(maxConcurrent int, maxWait time.Duration) Option {
	return func(s *Service) {
		s.exports = NewExportLimiter(maxConcurrent, maxWait)
	}
}

// WithAuditCapacity sets how many audit entries are retained.
func WithAuditCapacity(n int) Option {
	return func(s *Service) {
		s.audit = NewAuditLog(n)
	}
}

// NewService creates a Service over the given registry.
func NewService(tables *Registry, opts ...Option) *Service {
	s := &Service{
		tables:  tables,
		audit:   NewAuditLog(DefaultAuditCapacity),
		exports: NewExportLimiter(DefaultMaxConcurrentExports, DefaultExportWait),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, t := range tables.All() {
		metrics.SetCollectionSize(t.Info().Key, t.Len())
	}
	return s
}

// ListTables returns information about all registered tables.
func (s *Service) ListTables() []TableInfo {
	all := s.tables.All()
	infos := make([]TableInfo, len(all))
	for i, t := range all {
		infos[i] = t.Info()
	}
	return infos
}

// ListTablesByGroup returns tables organized by group.
func (s *Service) ListTablesByGroup() map[string][]TableInfo {
	result := make(map[string][]TableInfo)
	for _, t := range s.tables.All() {
		info := t.Info()
		result[info.Group] = append(result[info.Group], info)
	}
	return result
}

// Table returns the table registered under key.
func (s *Service) Table(key string) (Table, error) {
	t, ok := s.tables.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, key)
	}
	return t, nil
}

// AuditLog returns up to limit audit entries for tableKey, newest first.
// An empty tableKey returns entries for every table.
func (s *Service) AuditLog(tableKey string, limit int) []AuditEntry {
	return s.audit.Entries(tableKey, limit)
}

// startOp opens a span and returns a function that records metrics and
// closes it. The returned function must be called exactly once.
func (s *Service) startOp(ctx context.Context, key, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "core."+op,
		trace.WithAttributes(append(attrs, attribute.String("table.key", key))...))

	return ctx, func(err error) {
		outcome := metrics.OutcomeOK
		switch {
		case err == nil:
		case errors.Is(err, table.ErrInvalidPage), errors.Is(err, ErrInvalidSelection),
			errors.Is(err, ErrUnknownTable), errors.Is(err, ErrInvalidID):
			outcome = metrics.OutcomeInvalid
		default:
			outcome = metrics.OutcomeError
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.RecordOperation(key, op, outcome, time.Since(start))
	}
}

// Find returns one page of a table plus the view state that produced it.
// The state's SortBy is the field the sort selector resolved to.
func (s *Service) Find(ctx context.Context, key string, q Query) (state table.State[TableRow], err error) {
	ctx, done := s.startOp(ctx, key, metrics.OpFind,
		attribute.String("filter.field", q.Filter.Field),
		attribute.String("sort.field", q.Sort.Field),
		attribute.Bool("sort.ascending", q.Sort.Ascending),
		attribute.Int("page.number", q.Page.Number),
		attribute.Int("page.size", q.Page.Size),
	)
	defer func() { done(err) }()

	t, err := s.Table(key)
	if err != nil {
		return state, err
	}

	page, err := t.FindRows(q)
	if err != nil {
		return state, fmt.Errorf("find %s: %w", key, err)
	}
	metrics.RecordPage(key, q.Page.Number)

	logging.ForTable(ctx, key).Debug("page served",
		"page", page.CurrentPage,
		"size", page.PageSize,
		"total", page.TotalItems,
		"returned", len(page.Items),
	)

	return table.State[TableRow]{
		Page:        page,
		SortBy:      t.ResolveSort(q.Sort.Field),
		Ascending:   q.Sort.Ascending,
		SearchTerm:  q.Filter.Search,
		SearchField: q.Filter.Field,
	}, nil
}

// CountMatching returns how many records of a table match f.
func (s *Service) CountMatching(ctx context.Context, key string, f FilterSpec) (n int, err error) {
	_, done := s.startOp(ctx, key, metrics.OpCount, attribute.String("filter.field", f.Field))
	defer func() { done(err) }()

	t, err := s.Table(key)
	if err != nil {
		return 0, err
	}
	return t.CountMatching(f), nil
}

// Export hands write the table's columns and every row of the current
// view: filtered and sorted, without pagination. The export slot is held
// until write returns, so slow consumers count against the limit.
func (s *Service) Export(ctx context.Context, key string, f FilterSpec, sort SortSpec, write func(TableInfo, []TableRow) error) (err error) {
	ctx, done := s.startOp(ctx, key, metrics.OpExport)
	defer func() { done(err) }()

	t, err := s.Table(key)
	if err != nil {
		return err
	}

	if err := s.exports.Acquire(ctx); err != nil {
		return fmt.Errorf("export %s: %w", key, err)
	}
	defer s.exports.Release()

	return write(t.Info(), t.ExportRows(f, sort))
}

// ExportStatus reports export slot usage.
func (s *Service) ExportStatus() ExportLimiterStatus {
	return s.exports.Status()
}

// Preview reports what deleting sel would remove. Transports show this in
// the confirmation dialog before a bulk delete.
func (s *Service) Preview(ctx context.Context, key string, sel Selection) (p DeletePreview, err error) {
	_, done := s.startOp(ctx, key, metrics.OpPreview, attribute.String("selection.mode", string(sel.Mode)))
	defer func() { done(err) }()

	t, err := s.Table(key)
	if err != nil {
		return DeletePreview{}, err
	}
	if sel.Mode != SelectByIDs && sel.Mode != SelectByFilter {
		return DeletePreview{}, fmt.Errorf("%w: %q", ErrInvalidSelection, sel.Mode)
	}
	return t.Preview(sel), nil
}

// RequiresConfirmation reports whether deleting sel would clear the whole
// table regardless of content, which transports gate behind an explicit
// confirmation.
func (s *Service) RequiresConfirmation(key string, sel Selection) (bool, error) {
	t, err := s.Table(key)
	if err != nil {
		return false, err
	}
	return sel.Mode == SelectByFilter && t.MatchesAll(sel.Filter), nil
}

// DeleteOne removes one record by id. A missing id is not an error.
func (s *Service) DeleteOne(ctx context.Context, key string, id int64) (n int, err error) {
	ctx, done := s.startOp(ctx, key, metrics.OpDelete, attribute.String("selection.mode", "one"))
	defer func() { done(err) }()

	t, err := s.Table(key)
	if err != nil {
		return 0, err
	}

	n = t.DeleteOne(id)
	s.afterDelete(ctx, t, "one", AuditEntry{
		Action:   ActionRowDelete,
		TableKey: key,
		RowKeys:  []int64{id},
	}, n)
	return n, nil
}

// Delete removes the records sel targets and returns how many were removed.
func (s *Service) Delete(ctx context.Context, key string, sel Selection) (n int, err error) {
	ctx, done := s.startOp(ctx, key, metrics.OpDelete, attribute.String("selection.mode", string(sel.Mode)))
	defer func() { done(err) }()

	t, err := s.Table(key)
	if err != nil {
		return 0, err
	}

	clearsTable := sel.Mode == SelectByFilter && t.MatchesAll(sel.Filter)

	n, err = t.Delete(sel)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", key, err)
	}

	entry := AuditEntry{TableKey: key}
	switch {
	case clearsTable:
		entry.Action = ActionTableClear
		entry.SearchField = sel.Filter.Field
		entry.Search = sel.Filter.Search
	case sel.Mode == SelectByFilter:
		entry.Action = ActionBulkDeleteView
		entry.SearchField = sel.Filter.Field
		entry.Search = sel.Filter.Search
	default:
		entry.Action = ActionBulkDeleteIDs
		entry.RowKeys = sel.IDs
	}
	s.afterDelete(ctx, t, string(sel.Mode), entry, n)
	return n, nil
}

// afterDelete updates metrics, then writes the audit entry and logs the
// delete when anything was removed.
func (s *Service) afterDelete(ctx context.Context, t Table, mode string, entry AuditEntry, removed int) {
	key := t.Info().Key
	meta := RequestMetaFromContext(ctx)

	metrics.RecordDeleted(key, mode, removed)
	metrics.SetCollectionSize(key, t.Len())

	if removed == 0 {
		logging.ForTable(ctx, key).Debug("delete matched nothing", "mode", mode)
		return
	}

	entry.IPAddress = meta.IPAddress
	entry.UserAgent = meta.UserAgent
	entry.RowsAffected = removed
	recorded := s.audit.Record(entry)

	logger := logging.ForTable(ctx, key).With(
		"mode", mode,
		"removed", removed,
		"remaining", t.Len(),
		"audit_id", recorded.ID,
		"ip", meta.IPAddress,
	)
	if entry.Action == ActionTableClear {
		logger.Warn("table cleared by filter delete", "search_field", entry.SearchField)
		return
	}
	logger.Info("records deleted")
}
