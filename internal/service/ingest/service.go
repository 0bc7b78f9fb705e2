package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/panganid/pangan-ingest/internal/domain"
	"github.com/panganid/pangan-ingest/internal/pkg/constants"
	"github.com/panganid/pangan-ingest/internal/pkg/logger"
	"github.com/panganid/pangan-ingest/internal/pkg/store"
)

// minProvinceCoverage is the threshold below which a run that did insert
// rows is still reported as partial.
const minProvinceCoverage = 20

type RunOptions struct {
	Source    RecordSource
	Executor  Executor
	BatchSize int
	// LogToStore persists an ingest_logs row for the run; requires a store.
	LogToStore bool
}

type RunReport struct {
	RunID       string
	Records     int
	Commodities int
	Provinces   int
	Summary     Summary
	Status      domain.IngestStatus
	Duration    time.Duration
	// Err is the run-level failure (source error, zero records); batch
	// failures live in Summary.BatchErrors.
	Err error
}

// Service drives one ingestion run end to end: reference load, extraction
// through the source, dedup, batching, execution, run logging.
type Service struct {
	store    store.Store
	resolver *Resolver
}

// NewService builds the pipeline service. store may be nil for the
// statement-output path, which runs without a database connection.
func NewService(st store.Store, resolver *Resolver) *Service {
	return &Service{store: st, resolver: resolver}
}

func (s *Service) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := logger.With("run_id", runID)

	// slug -> id must be ready before anything references commodity ids
	if s.store != nil {
		if err := s.resolver.LoadSlugIDs(ctx, s.store); err != nil {
			return nil, fmt.Errorf("load reference tables: %w", err)
		}
	}

	records, err := opts.Source.Records(ctx)
	if err != nil {
		s.logRun(ctx, opts, failedReport(runID, started, err))
		return nil, fmt.Errorf("source records: %w", err)
	}
	if len(records) == 0 {
		err := constants.ErrNoRecords
		s.logRun(ctx, opts, failedReport(runID, started, err))
		return nil, err
	}

	records = Deduplicate(records)
	log.Infof("collected %d unique records", len(records))

	batches := Batch(records, opts.BatchSize)
	summary := opts.Executor.Execute(ctx, batches)

	report := &RunReport{
		RunID:       runID,
		Records:     len(records),
		Commodities: distinctCommodities(records),
		Provinces:   distinctProvinces(records),
		Summary:     summary,
		Duration:    time.Since(started),
	}
	report.Status = runStatus(report)

	s.logRun(ctx, opts, report)

	log.Infof("run complete: status=%s commodities=%d provinces=%d inserted=%d failed=%d duration=%.1fs",
		report.Status, report.Commodities, report.Provinces,
		summary.Inserted, summary.Failed, report.Duration.Seconds())

	return report, nil
}

// RunLive wires the common live-fetch configuration: grid source over the
// given fetcher, store-backed executor, run logging on.
func (s *Service) RunLive(ctx context.Context, fetcher Fetcher, gridOpts GridOptions, batchSize int) (*RunReport, error) {
	return s.Run(ctx, RunOptions{
		Source:     NewGridSource(fetcher, s.resolver, gridOpts),
		Executor:   NewStoreExecutor(s.store),
		BatchSize:  batchSize,
		LogToStore: true,
	})
}

func runStatus(report *RunReport) domain.IngestStatus {
	if report.Summary.Inserted == 0 {
		return domain.IngestStatusFailed
	}
	if report.Summary.Failed > 0 || report.Provinces < minProvinceCoverage {
		return domain.IngestStatusPartial
	}
	return domain.IngestStatusSuccess
}

func failedReport(runID string, started time.Time, err error) *RunReport {
	return &RunReport{
		RunID:    runID,
		Status:   domain.IngestStatusFailed,
		Duration: time.Since(started),
		Err:      err,
	}
}

// logRun writes the ingest_logs row. Best effort: a failed write is
// reported but never fails the run that produced the data.
func (s *Service) logRun(ctx context.Context, opts RunOptions, report *RunReport) {
	if s.store == nil || !opts.LogToStore {
		return
	}

	var errMsg *string
	if report.Err != nil {
		msg := report.Err.Error()
		errMsg = &msg
	} else if len(report.Summary.BatchErrors) > 0 {
		msg := fmt.Sprintf("%d batch errors, first: %s", len(report.Summary.BatchErrors), firstError(report.Summary.BatchErrors))
		errMsg = &msg
	}

	entry := &domain.IngestLog{
		RunID:           report.RunID,
		IngestDate:      time.Now().Format("2006-01-02"),
		Source:          constants.SourceBI,
		Status:          report.Status,
		Commodities:     report.Commodities,
		Provinces:       report.Provinces,
		RowsInserted:    report.Summary.Inserted,
		ErrorMessage:    errMsg,
		DurationSeconds: report.Duration.Seconds(),
	}

	if err := s.store.InsertIngestLog(ctx, entry); err != nil {
		logger.Errorf(ctx, "store.InsertIngestLog: %s", err.Error())
	}
}

func firstError(errs map[int]error) string {
	minIdx := -1
	for i := range errs {
		if minIdx < 0 || i < minIdx {
			minIdx = i
		}
	}
	if minIdx < 0 {
		return ""
	}
	return errs[minIdx].Error()
}

func distinctCommodities(records []domain.PriceObservation) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[rec.CommoditySlug] = struct{}{}
	}
	return len(seen)
}

func distinctProvinces(records []domain.PriceObservation) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		seen[rec.ProvinceID] = struct{}{}
	}
	return len(seen)
}
