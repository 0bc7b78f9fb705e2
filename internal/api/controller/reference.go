package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) ListCommodities(ctx echo.Context) error {
	commodities, err := c.pricesService.ListCommodities(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, commodities)
}

func (c *Controller) ListProvinces(ctx echo.Context) error {
	provinces, err := c.pricesService.ListProvinces(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, provinces)
}
