package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/panganid/pangan-ingest/internal/pkg/constants"
)

func (c *Controller) GetNationalAverage(ctx echo.Context) error {
	slug := ctx.QueryParams().Get("slug")
	if slug == "" {
		return constants.ErrBadRequest
	}

	date := ctx.QueryParams().Get("date")
	if date == "" {
		date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return constants.ErrBadRequest
	}

	avg, err := c.pricesService.GetNationalAverage(ctx.Request().Context(), slug, date)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, avg)
}
