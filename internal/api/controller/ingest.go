package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/panganid/pangan-ingest/internal/pkg/config"
	"github.com/panganid/pangan-ingest/internal/service/ingest"
	"github.com/panganid/pangan-ingest/internal/service/pihps"
)

type runIngestRequest struct {
	DaysBack int `json:"days_back" validate:"omitempty,min=1,max=365"`
}

// RunIngest triggers a live ingestion run against the PIHPS grids. A
// fresh client is built per run so each run starts with its own session.
func (c *Controller) RunIngest(ctx echo.Context) error {
	req := new(runIngestRequest)
	if err := ctx.Bind(req); err != nil {
		return err
	}
	if err := ctx.Validate(req); err != nil {
		return err
	}

	daysBack := req.DaysBack
	if daysBack == 0 {
		daysBack = config.DaysBack()
	}

	client, err := pihps.NewClient(config.BaseURL())
	if err != nil {
		return err
	}

	report, err := c.ingestService.RunLive(ctx.Request().Context(), client, ingest.GridOptions{
		DaysBack: daysBack,
		LagDays:  config.LagDays(),
		Delay:    config.RequestDelay(),
		Workers:  config.FetchWorkers(),
	}, config.BatchSize())
	if err != nil {
		return err
	}

	type response struct {
		RunID       string  `json:"run_id"`
		Status      string  `json:"status"`
		Records     int     `json:"records"`
		Commodities int     `json:"commodities"`
		Provinces   int     `json:"provinces"`
		Inserted    int     `json:"inserted"`
		Failed      int     `json:"failed"`
		DurationSec float64 `json:"duration_seconds"`
	}

	return ctx.JSON(http.StatusOK, response{
		RunID:       report.RunID,
		Status:      string(report.Status),
		Records:     report.Records,
		Commodities: report.Commodities,
		Provinces:   report.Provinces,
		Inserted:    report.Summary.Inserted,
		Failed:      report.Summary.Failed,
		DurationSec: report.Duration.Seconds(),
	})
}

func (c *Controller) ListIngestLogs(ctx echo.Context) error {
	limit, _ := strconv.Atoi(ctx.QueryParams().Get("limit"))

	logs, err := c.pricesService.ListIngestLogs(ctx.Request().Context(), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, logs)
}
