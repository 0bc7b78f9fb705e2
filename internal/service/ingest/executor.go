package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/panganid/pangan-ingest/internal/domain"
	"github.com/panganid/pangan-ingest/internal/pkg/logger"
)

// Summary aggregates the outcome of executing a run's batches. Inserted
// counts records in batches that were accepted; a failed batch contributes
// its whole size to Failed and its error to BatchErrors, keyed by batch
// index.
type Summary struct {
	Inserted    int
	Failed      int
	BatchErrors map[int]error
}

// Executor submits prepared batches to a storage realization. A batch
// failure is recorded and the run continues: batches are independent and
// idempotent, so a re-run safely re-covers anything that failed.
type Executor interface {
	Execute(ctx context.Context, batches [][]domain.PriceObservation) Summary
}

// PriceUpserter is the slice of the store the executor needs.
type PriceUpserter interface {
	UpsertPrices(ctx context.Context, observations []domain.PriceObservation) error
}

// StoreExecutor upserts each batch through the database pool.
type StoreExecutor struct {
	upserter PriceUpserter
}

func NewStoreExecutor(upserter PriceUpserter) *StoreExecutor {
	return &StoreExecutor{upserter: upserter}
}

func (e *StoreExecutor) Execute(ctx context.Context, batches [][]domain.PriceObservation) Summary {
	summary := Summary{BatchErrors: make(map[int]error)}

	for i, batch := range batches {
		if err := e.upserter.UpsertPrices(ctx, batch); err != nil {
			logger.Errorf(ctx, "upsert batch %d (%d records): %s", i+1, len(batch), err.Error())
			summary.Failed += len(batch)
			summary.BatchErrors[i] = err
			continue
		}
		summary.Inserted += len(batch)
	}

	return summary
}

// SQLExecutor renders each batch as one INSERT ... ON CONFLICT statement
// and writes it to w, for later execution in the backend's SQL editor.
// Commodity identity is carried by slug and resolved at execution time, so
// this path needs no database connection.
type SQLExecutor struct {
	w io.Writer
}

func NewSQLExecutor(w io.Writer) *SQLExecutor {
	return &SQLExecutor{w: w}
}

func (e *SQLExecutor) Execute(ctx context.Context, batches [][]domain.PriceObservation) Summary {
	summary := Summary{BatchErrors: make(map[int]error)}

	for i, batch := range batches {
		stmt := renderBatchStatement(batch)
		if stmt == "" {
			continue
		}
		if _, err := fmt.Fprintln(e.w, stmt); err != nil {
			logger.Errorf(ctx, "write batch %d: %s", i+1, err.Error())
			summary.Failed += len(batch)
			summary.BatchErrors[i] = err
			continue
		}
		summary.Inserted += len(batch)
	}

	return summary
}

func renderBatchStatement(batch []domain.PriceObservation) string {
	if len(batch) == 0 {
		return ""
	}

	slug := strings.ReplaceAll(batch[0].CommoditySlug, "'", "''")
	tuples := make([]string, 0, len(batch))
	for _, obs := range batch {
		tuples = append(tuples, fmt.Sprintf("('%s',%d,'%s'::date)", obs.ProvinceID, obs.Price, obs.Date))
	}

	return fmt.Sprintf(
		"INSERT INTO prices (commodity_id,province_id,price,market_type,date,source) "+
			"SELECT c.id,v.pid,v.price,'traditional',v.d,'bi' "+
			"FROM (VALUES %s) AS v(pid,price,d) CROSS JOIN commodities c WHERE c.slug='%s' "+
			"ON CONFLICT (commodity_id,province_id,date,market_type,source) DO UPDATE SET price=EXCLUDED.price;",
		strings.Join(tuples, ","), slug,
	)
}
