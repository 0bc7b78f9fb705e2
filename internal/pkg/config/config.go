package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/panganid/pangan-ingest/internal/pkg/constants"
)

// Init wires viper to the environment and sets defaults. Every knob is
// overridable via an env var with the same (upper-cased) name.
func Init() {
	viper.AutomaticEnv()

	viper.SetDefault(constants.ViperListenAddr, ":8080")
	viper.SetDefault(constants.ViperBaseURL, "https://www.bi.go.id/hargapangan")
	viper.SetDefault(constants.ViperDaysBack, 31)
	viper.SetDefault(constants.ViperLagDays, 1)
	viper.SetDefault(constants.ViperRequestDelayMs, 1200)
	viper.SetDefault(constants.ViperBatchSize, 500)
	viper.SetDefault(constants.ViperSQLBatchSize, 200)
	viper.SetDefault(constants.ViperFetchWorkers, 1)
}

func DatabaseURL() string {
	return viper.GetString(constants.ViperDatabaseURL)
}

func ListenAddr() string {
	return viper.GetString(constants.ViperListenAddr)
}

func BaseURL() string {
	return viper.GetString(constants.ViperBaseURL)
}

func DaysBack() int {
	return viper.GetInt(constants.ViperDaysBack)
}

func LagDays() int {
	return viper.GetInt(constants.ViperLagDays)
}

func RequestDelay() time.Duration {
	return time.Duration(viper.GetInt(constants.ViperRequestDelayMs)) * time.Millisecond
}

func BatchSize() int {
	return viper.GetInt(constants.ViperBatchSize)
}

func SQLBatchSize() int {
	return viper.GetInt(constants.ViperSQLBatchSize)
}

func FetchWorkers() int {
	return viper.GetInt(constants.ViperFetchWorkers)
}
