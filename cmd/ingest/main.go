package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/panganid/pangan-ingest/internal/pkg/config"
	"github.com/panganid/pangan-ingest/internal/pkg/constants"
	"github.com/panganid/pangan-ingest/internal/pkg/logger"
	"github.com/panganid/pangan-ingest/internal/pkg/store"
	"github.com/panganid/pangan-ingest/internal/pkg/store/xpgx"
	"github.com/panganid/pangan-ingest/internal/service/ingest"
	"github.com/panganid/pangan-ingest/internal/service/pihps"
)

func main() {
	days := flag.Int("days", 0, "days back to fetch (default from INGEST_DAYS_BACK, 31)")
	direct := flag.Bool("db", false, "upsert directly into the database instead of emitting SQL")
	dumpPath := flag.String("dump", "", "replay a captured statement dump instead of fetching")
	workers := flag.Int("workers", 0, "bounded parallel commodity fetches (default from INGEST_FETCH_WORKERS, 1)")
	flag.Parse()

	config.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *days, *direct, *dumpPath, *workers); err != nil {
		if errors.Is(err, constants.ErrNoRecords) {
			logger.Error(ctx, "no records obtained, nothing to write")
		} else {
			logger.Errorf(ctx, "ingest run failed: %s", err.Error())
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, days int, direct bool, dumpPath string, workers int) error {
	resolver := ingest.NewResolver()

	// without -db the run emits statement text to stdout; commodity
	// identity travels by slug there, so no connection is needed
	var st store.Store
	if direct {
		pool, err := xpgx.NewPool(ctx, config.DatabaseURL())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		st = store.NewStore(pool)
	}

	service := ingest.NewService(st, resolver)

	source, err := buildSource(resolver, days, dumpPath, workers)
	if err != nil {
		return err
	}

	var executor ingest.Executor
	batchSize := config.SQLBatchSize()
	if direct {
		executor = ingest.NewStoreExecutor(st)
		batchSize = config.BatchSize()
	} else {
		executor = ingest.NewSQLExecutor(os.Stdout)
	}

	report, err := service.Run(ctx, ingest.RunOptions{
		Source:     source,
		Executor:   executor,
		BatchSize:  batchSize,
		LogToStore: st != nil,
	})
	if err != nil {
		return err
	}

	logger.Infof(ctx, "status=%s records=%d inserted=%d failed=%d",
		report.Status, report.Records, report.Summary.Inserted, report.Summary.Failed)
	return nil
}

func buildSource(resolver *ingest.Resolver, days int, dumpPath string, workers int) (ingest.RecordSource, error) {
	if dumpPath != "" {
		f, err := os.Open(dumpPath)
		if err != nil {
			return nil, fmt.Errorf("open dump: %w", err)
		}
		// closed on process exit; the run reads it exactly once
		return ingest.NewDumpSource(resolver, f), nil
	}

	if days <= 0 {
		days = config.DaysBack()
	}
	if workers <= 0 {
		workers = config.FetchWorkers()
	}

	client, err := pihps.NewClient(config.BaseURL())
	if err != nil {
		return nil, err
	}

	return ingest.NewGridSource(client, resolver, ingest.GridOptions{
		DaysBack: days,
		LagDays:  config.LagDays(),
		Delay:    config.RequestDelay(),
		Workers:  workers,
	}), nil
}
