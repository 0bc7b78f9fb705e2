package main

import (
	"context"

	"github.com/panganid/pangan-ingest/internal/api"
	"github.com/panganid/pangan-ingest/internal/pkg/config"
	"github.com/panganid/pangan-ingest/internal/pkg/logger"
	"github.com/panganid/pangan-ingest/internal/pkg/store"
	"github.com/panganid/pangan-ingest/internal/pkg/store/xpgx"
)

func main() {
	config.Init()
	ctx := context.Background()

	pool, err := xpgx.NewPool(ctx, config.DatabaseURL())
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer pool.Close()

	svc, err := api.NewAPIService(store.NewStore(pool))
	if err != nil {
		logger.Fatal(ctx, err)
	}

	svc.Serve(config.ListenAddr())
}
