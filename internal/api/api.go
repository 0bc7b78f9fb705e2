package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/panganid/pangan-ingest/internal/api/controller"
	"github.com/panganid/pangan-ingest/internal/pkg/logger"
	"github.com/panganid/pangan-ingest/internal/pkg/store"
	"github.com/panganid/pangan-ingest/internal/service/ingest"
	"github.com/panganid/pangan-ingest/internal/service/prices"
)

type APIService struct {
	router        *echo.Echo
	ingestService *ingest.Service
	pricesService *prices.Service
}

func (svc *APIService) Serve(addr string) {
	logger.Fatal(context.Background(), svc.router.Start(addr))
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store store.Store) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.Use(middleware.Logger())
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	svc.ingestService = ingest.NewService(store, ingest.NewResolver())
	svc.pricesService = prices.NewPricesService(store)

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.ingestService, svc.pricesService)

	ing := api.Group("/ingest")
	ing.POST("/run", cntrl.RunIngest, svc.AdminMiddleware)
	ing.GET("/logs", cntrl.ListIngestLogs)

	priceGroup := api.Group("/prices")
	priceGroup.GET("/national-average", cntrl.GetNationalAverage)

	api.GET("/commodities", cntrl.ListCommodities)
	api.GET("/provinces", cntrl.ListProvinces)

	return svc, nil
}
