package controller

import (
	"github.com/panganid/pangan-ingest/internal/service/ingest"
	"github.com/panganid/pangan-ingest/internal/service/prices"
)

type Controller struct {
	ingestService *ingest.Service
	pricesService *prices.Service
}

func NewController(ingestService *ingest.Service, pricesService *prices.Service) *Controller {
	return &Controller{
		ingestService: ingestService,
		pricesService: pricesService,
	}
}
