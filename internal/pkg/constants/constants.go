package constants

// viper keys
const (
	ViperDatabaseURL    = "database_url"
	ViperListenAddr     = "listen_addr"
	ViperAdminSecret    = "admin_secret"
	ViperBaseURL        = "pihps_base_url"
	ViperDaysBack       = "ingest_days_back"
	ViperLagDays        = "ingest_lag_days"
	ViperRequestDelayMs = "ingest_request_delay_ms"
	ViperBatchSize      = "ingest_batch_size"
	ViperSQLBatchSize   = "ingest_sql_batch_size"
	ViperFetchWorkers   = "ingest_fetch_workers"
)

const (
	CookieKeySecretToken = "secret_token"
)

// SourceBI tags every observation ingested from the BI PIHPS grids.
const SourceBI = "bi"

// MarketTraditional is the only market type this pipeline populates.
const MarketTraditional = "traditional"
