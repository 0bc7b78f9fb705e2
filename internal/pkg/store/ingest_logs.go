package store

import (
	"context"

	"github.com/panganid/pangan-ingest/internal/domain"
	"github.com/panganid/pangan-ingest/internal/pkg/store/xpgx"
)

var ingestLogColumns = []string{
	"id", "run_id", "ingest_date", "source", "status",
	"commodities", "provinces", "rows_inserted",
	"error_message", "duration_seconds", "created_at",
}

func (s *store) InsertIngestLog(ctx context.Context, log *domain.IngestLog) error {
	query := builder().Insert(tableIngestLogs).
		Columns(ingestLogColumns[1 : len(ingestLogColumns)-1]...).
		Values(
			log.RunID, log.IngestDate, log.Source, log.Status,
			log.Commodities, log.Provinces, log.RowsInserted,
			log.ErrorMessage, log.DurationSeconds,
		)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

func (s *store) ListIngestLogs(ctx context.Context, limit int) ([]*domain.IngestLog, error) {
	query := builder().Select(ingestLogColumns...).
		From(tableIngestLogs).
		OrderBy("created_at desc").
		Limit(uint64(limit))

	selected, err := xpgx.Selectx[domain.IngestLog](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
