package config

const EnvPrefix = "SHOPCORE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv              = "SHOPCORE_APP_ENV"
	EnvLogLevel            = "SHOPCORE_LOG_LEVEL"
	EnvLogWarnStack        = "SHOPCORE_LOG_WARN_STACK"
	EnvGoldDiscountPercent = "SHOPCORE_GOLD_DISCOUNT_PERCENT"
	EnvMetricsEnabled      = "SHOPCORE_METRICS_ENABLED"
)
